package ignore

import (
	"fmt"
	"iter"

	"github.com/bethropolis/ignorewalk/internal/gitignore"
	"github.com/bethropolis/ignorewalk/internal/overrides"
	"github.com/bethropolis/ignorewalk/internal/types"
	"github.com/bethropolis/ignorewalk/internal/utils"
)

// Ignore is the matcher for one directory. It is never modified after it
// is built.
type Ignore struct {
	cache *cache

	dir       string
	overrides *overrides.Override
	types     *types.Types
	parent    *Ignore

	// isAbsoluteParent marks matchers for ancestors of a walk root, added
	// by AddParents, and the root matcher itself.
	isAbsoluteParent bool
	absoluteBase     string
	// shared is the cached ancestor this matcher was copied from. It keeps
	// the weak cache entry alive while the walk uses the copy.
	shared *Ignore

	explicitIgnores       []*gitignore.Gitignore
	customIgnoreFilenames []string

	customIgnoreMatcher *gitignore.Gitignore
	ignoreMatcher       *gitignore.Gitignore
	gitGlobalMatcher    *gitignore.Gitignore
	gitIgnoreMatcher    *gitignore.Gitignore
	gitExcludeMatcher   *gitignore.Gitignore

	hasGit bool
	opts   Options
	logger utils.Logger
}

// Path returns the directory this matcher belongs to.
func (ig *Ignore) Path() string { return ig.dir }

// IsRoot reports whether ig has no parent.
func (ig *Ignore) IsRoot() bool { return ig.parent == nil }

// Parent returns the matcher of the parent directory, or nil.
func (ig *Ignore) Parent() *Ignore { return ig.parent }

// IsAbsoluteParent reports whether ig was added for an ancestor of a walk
// root rather than for a walked directory.
func (ig *Ignore) IsAbsoluteParent() bool { return ig.isAbsoluteParent }

// AbsoluteBase returns the canonical path of the root passed to
// AddParents, if any.
func (ig *Ignore) AbsoluteBase() (string, bool) {
	return ig.absoluteBase, ig.absoluteBase != ""
}

// HasGit reports whether the directory contains a .git entry.
func (ig *Ignore) HasGit() bool { return ig.hasGit }

// Options returns the source toggles ig was built with.
func (ig *Ignore) Options() Options { return ig.opts }

// Parents yields ig and then each of its parents up to the root.
func (ig *Ignore) Parents() iter.Seq[*Ignore] {
	return func(yield func(*Ignore) bool) {
		for cur := ig; cur != nil; cur = cur.parent {
			if !yield(cur) {
				return
			}
		}
	}
}

// MatchKind identifies the source that decided a match.
type MatchKind int

const (
	KindOverride MatchKind = iota
	KindGitignore
	KindTypes
	KindHidden
)

func (k MatchKind) String() string {
	switch k {
	case KindOverride:
		return "override"
	case KindGitignore:
		return "gitignore"
	case KindTypes:
		return "types"
	case KindHidden:
		return "hidden"
	default:
		return fmt.Sprintf("MatchKind(%d)", int(k))
	}
}

// IgnoreMatch describes which source and which rule decided a match.
// Exactly one of the evidence fields is set, according to Kind.
type IgnoreMatch struct {
	kind      MatchKind
	override  *overrides.Glob
	gitignore *gitignore.Glob
	types     *types.Glob
}

func overrideMatch(g *overrides.Glob) IgnoreMatch {
	return IgnoreMatch{kind: KindOverride, override: g}
}

func gitignoreMatch(g *gitignore.Glob) IgnoreMatch {
	return IgnoreMatch{kind: KindGitignore, gitignore: g}
}

func typesMatch(g *types.Glob) IgnoreMatch {
	return IgnoreMatch{kind: KindTypes, types: g}
}

func hiddenMatch() IgnoreMatch {
	return IgnoreMatch{kind: KindHidden}
}

// Kind returns the deciding source.
func (m IgnoreMatch) Kind() MatchKind { return m.kind }

// Override returns the override evidence when Kind is KindOverride.
func (m IgnoreMatch) Override() *overrides.Glob { return m.override }

// Gitignore returns the rule when Kind is KindGitignore.
func (m IgnoreMatch) Gitignore() *gitignore.Glob { return m.gitignore }

// Types returns the type evidence when Kind is KindTypes.
func (m IgnoreMatch) Types() *types.Glob { return m.types }

func (m IgnoreMatch) String() string {
	switch m.kind {
	case KindOverride:
		return "override " + m.override.String()
	case KindGitignore:
		return "gitignore " + m.gitignore.String()
	case KindTypes:
		return "type " + m.types.String()
	case KindHidden:
		return "hidden"
	default:
		return m.kind.String()
	}
}
