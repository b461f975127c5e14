// Package ignore decides whether a path is ignored while walking a tree.
//
// An Ignore is bound to one directory and chains to the Ignore of its
// parent directory. It combines overrides, file types, explicit ignore
// files, custom ignore files, .ignore, .gitignore, .git/info/exclude and the
// global git excludes file with a fixed precedence. Ignore values are
// immutable and safe for concurrent use.
package ignore

import (
	"github.com/bethropolis/ignorewalk/internal/gitignore"
	"github.com/bethropolis/ignorewalk/internal/overrides"
	"github.com/bethropolis/ignorewalk/internal/types"
	"github.com/bethropolis/ignorewalk/internal/utils"
)

// Builder configures the root Ignore.
type Builder struct {
	overrides             *overrides.Override
	types                 *types.Types
	explicitIgnores       []*gitignore.Gitignore
	customIgnoreFilenames []string
	opts                  Options
	logger                utils.Logger
}

// NewBuilder returns a builder with DefaultOptions.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		overrides: overrides.Empty(),
		types:     types.Empty(),
		opts:      DefaultOptions(),
		logger:    utils.NoopLogger{},
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Apply applies more options to the builder.
func (b *Builder) Apply(opts ...Option) *Builder {
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Options returns the configured source toggles.
func (b *Builder) Options() Options { return b.opts }

// Build returns the root Ignore. It has no directory of its own and holds
// no local rules; use AddParents and AddChild to derive matchers for real
// directories.
func (b *Builder) Build() *Ignore {
	gitGlobal := gitignore.Empty()
	if b.opts.GitGlobal {
		builder := gitignore.NewBuilder("").
			CaseInsensitive(b.opts.IgnoreCaseInsensitive).
			Logger(b.logger)
		gi, err := builder.BuildGlobal()
		if err != nil {
			b.logger.Debug("ignore.Build: global gitignore: %v", err)
		}
		gitGlobal = gi
	}

	empty := gitignore.Empty()
	return &Ignore{
		cache:                 newCache(),
		dir:                   "",
		overrides:             b.overrides,
		types:                 b.types,
		isAbsoluteParent:      true,
		explicitIgnores:       append([]*gitignore.Gitignore(nil), b.explicitIgnores...),
		customIgnoreFilenames: append([]string(nil), b.customIgnoreFilenames...),
		customIgnoreMatcher:   empty,
		ignoreMatcher:         empty,
		gitGlobalMatcher:      gitGlobal,
		gitIgnoreMatcher:      empty,
		gitExcludeMatcher:     empty,
		opts:                  b.opts,
		logger:                b.logger,
	}
}
