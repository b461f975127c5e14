package ignore

import (
	"github.com/bethropolis/ignorewalk/internal/gitignore"
	"github.com/bethropolis/ignorewalk/internal/overrides"
	"github.com/bethropolis/ignorewalk/internal/types"
	"github.com/bethropolis/ignorewalk/internal/utils"
)

// Options toggles the sources an Ignore consults.
type Options struct {
	// Hidden ignores entries whose name starts with a dot.
	Hidden bool
	// Ignore reads .ignore files.
	Ignore bool
	// Parents reads ignore files from the ancestors of each root.
	Parents bool
	// GitGlobal reads the global git excludes file.
	GitGlobal bool
	// GitIgnore reads .gitignore files.
	GitIgnore bool
	// GitExclude reads .git/info/exclude.
	GitExclude bool
	// IgnoreCaseInsensitive matches every ignore file case insensitively.
	IgnoreCaseInsensitive bool
	// RequireGit only applies git rules inside a git repository.
	RequireGit bool
}

// DefaultOptions enables every source and hidden filtering, and requires a
// repository for git rules.
func DefaultOptions() Options {
	return Options{
		Hidden:     true,
		Ignore:     true,
		Parents:    true,
		GitGlobal:  true,
		GitIgnore:  true,
		GitExclude: true,
		RequireGit: true,
	}
}

// Option configures a Builder.
type Option func(*Builder)

func WithOptions(opts Options) Option {
	return func(b *Builder) {
		b.opts = opts
	}
}

func WithHidden(yes bool) Option {
	return func(b *Builder) {
		b.opts.Hidden = yes
	}
}

func WithIgnoreFiles(yes bool) Option {
	return func(b *Builder) {
		b.opts.Ignore = yes
	}
}

func WithParents(yes bool) Option {
	return func(b *Builder) {
		b.opts.Parents = yes
	}
}

func WithGitGlobal(yes bool) Option {
	return func(b *Builder) {
		b.opts.GitGlobal = yes
	}
}

func WithGitIgnore(yes bool) Option {
	return func(b *Builder) {
		b.opts.GitIgnore = yes
	}
}

func WithGitExclude(yes bool) Option {
	return func(b *Builder) {
		b.opts.GitExclude = yes
	}
}

func WithRequireGit(yes bool) Option {
	return func(b *Builder) {
		b.opts.RequireGit = yes
	}
}

func WithIgnoreCaseInsensitive(yes bool) Option {
	return func(b *Builder) {
		b.opts.IgnoreCaseInsensitive = yes
	}
}

// WithStandardFilters toggles every standard source at once: hidden
// files, parent ignore files, .ignore, .gitignore, the global excludes file
// and .git/info/exclude.
func WithStandardFilters(yes bool) Option {
	return func(b *Builder) {
		b.opts.Hidden = yes
		b.opts.Parents = yes
		b.opts.Ignore = yes
		b.opts.GitIgnore = yes
		b.opts.GitGlobal = yes
		b.opts.GitExclude = yes
	}
}

// WithOverrides sets the override globs, which take precedence over every
// other source.
func WithOverrides(ov *overrides.Override) Option {
	return func(b *Builder) {
		if ov != nil {
			b.overrides = ov
		}
	}
}

// WithTypes sets the file type matcher.
func WithTypes(t *types.Types) Option {
	return func(b *Builder) {
		if t != nil {
			b.types = t
		}
	}
}

// WithExplicitIgnore adds a matcher that applies to every directory under
// its anchor. Matchers added later take precedence.
func WithExplicitIgnore(gi *gitignore.Gitignore) Option {
	return func(b *Builder) {
		if gi != nil {
			b.explicitIgnores = append(b.explicitIgnores, gi)
		}
	}
}

// WithCustomIgnoreFilename adds a file name that is read like .ignore but
// with higher precedence. Names added later take precedence.
func WithCustomIgnoreFilename(name string) Option {
	return func(b *Builder) {
		b.customIgnoreFilenames = append(b.customIgnoreFilenames, name)
	}
}

func WithLogger(logger utils.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}
