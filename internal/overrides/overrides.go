// Package overrides provides caller supplied globs that take precedence
// over every ignore file.
//
// Override globs use gitignore syntax with inverted meaning: a plain glob
// whitelists what it matches and a "!glob" ignores it. Once at least one
// whitelist glob exists, any file matching none of the globs is ignored.
package overrides

import (
	"github.com/bethropolis/ignorewalk/internal/gitignore"
	"github.com/bethropolis/ignorewalk/internal/match"
)

// Glob is the evidence for an override match. It is either a matched glob
// or the implicit "unmatched" rule.
type Glob struct {
	glob *gitignore.Glob
}

// Unmatched reports whether the file was ignored only because it did not
// match any whitelist glob.
func (g *Glob) Unmatched() bool { return g.glob == nil }

// Glob returns the matched glob, or nil for the unmatched rule.
func (g *Glob) Glob() *gitignore.Glob { return g.glob }

func (g *Glob) String() string {
	if g.glob == nil {
		return "<unmatched>"
	}

	return g.glob.Original()
}

var unmatched = &Glob{}

// Override is a compiled set of override globs.
type Override struct {
	gi *gitignore.Gitignore
}

// Empty returns an Override that matches nothing.
func Empty() *Override {
	return &Override{gi: gitignore.Empty()}
}

// Path returns the directory globs are matched relative to.
func (o *Override) Path() string { return o.gi.Path() }

// IsEmpty reports whether there are no globs.
func (o *Override) IsEmpty() bool { return o == nil || o.gi.IsEmpty() }

// NumIgnores returns the number of "!glob" rules.
func (o *Override) NumIgnores() int { return o.gi.NumWhitelists() }

// NumWhitelists returns the number of plain globs.
func (o *Override) NumWhitelists() int { return o.gi.NumIgnores() }

// Matched reports whether path is whitelisted or ignored by the overrides.
func (o *Override) Matched(path string, isDir bool) match.Match[*Glob] {
	if o.IsEmpty() {
		return match.None[*Glob]()
	}

	m := o.gi.Matched(path, isDir).Invert()
	if m.IsNone() && o.NumWhitelists() > 0 && !isDir {
		return match.Ignored(unmatched)
	}

	return match.Map(m, func(g *gitignore.Glob) *Glob { return &Glob{glob: g} })
}

// Builder accumulates override globs.
type Builder struct {
	b *gitignore.Builder
}

// NewBuilder returns a builder whose globs match relative to root.
func NewBuilder(root string) *Builder {
	return &Builder{b: gitignore.NewBuilder(root)}
}

// Add adds one glob. A "!" prefix turns it into an ignore rule.
func (b *Builder) Add(glob string) error {
	return b.b.AddLine("", glob)
}

// CaseInsensitive toggles case insensitive matching for all globs.
func (b *Builder) CaseInsensitive(yes bool) *Builder {
	b.b.CaseInsensitive(yes)
	return b
}

// Build compiles the globs.
func (b *Builder) Build() (*Override, error) {
	gi, err := b.b.Build()
	if err != nil {
		return nil, err
	}

	return &Override{gi: gi}, nil
}
