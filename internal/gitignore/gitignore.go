// Package gitignore compiles gitignore style rule files into matchers.
//
// A Gitignore is anchored at one directory and answers whether a path is
// ignored, whitelisted or not matched at all. Rules declared later win over
// earlier ones, and rules ending in "/" only ever match directories.
package gitignore

import (
	"fmt"
	"path/filepath"

	"github.com/bethropolis/ignorewalk/internal/match"
	"github.com/bethropolis/ignorewalk/internal/pathutil"
)

// Gitignore is an immutable compiled set of gitignore rules.
type Gitignore struct {
	set           *globSet
	root          string
	globs         []*Glob
	numIgnores    int
	numWhitelists int
}

var empty = &Gitignore{set: newGlobSet(nil, false)}

// Empty returns a matcher with no rules. It never matches anything.
func Empty() *Gitignore {
	return empty
}

// New builds a matcher from the gitignore file at path, anchored at the
// file's directory. The returned matcher is never nil: on a partial error
// it still holds every rule that compiled.
func New(path string) (*Gitignore, error) {
	root := filepath.Dir(path)
	b := NewBuilder(root)
	err := b.AddFile(path)
	gi, buildErr := b.Build()
	if buildErr != nil {
		return Empty(), buildErr
	}

	return gi, err
}

// Path returns the directory rules are anchored at.
func (g *Gitignore) Path() string { return g.root }

// IsEmpty reports whether the matcher has no rules.
func (g *Gitignore) IsEmpty() bool { return len(g.globs) == 0 }

// Len returns the number of rules.
func (g *Gitignore) Len() int { return len(g.globs) }

// NumIgnores returns the number of ignore rules.
func (g *Gitignore) NumIgnores() int { return g.numIgnores }

// NumWhitelists returns the number of whitelist rules.
func (g *Gitignore) NumWhitelists() int { return g.numWhitelists }

// Globs returns the rules in declaration order.
func (g *Gitignore) Globs() []*Glob { return g.globs }

// Matched reports whether path matches. isDir must say whether path is a
// directory. Paths under the anchor directory may be given relative to it
// or with the anchor directory as prefix.
func (g *Gitignore) Matched(path string, isDir bool) match.Match[*Glob] {
	if g.IsEmpty() {
		return match.None[*Glob]()
	}

	return g.matchedStripped(g.strip(path), isDir)
}

// MatchedPathOrAnyParents is like Matched but also tries every parent of
// path up to the anchor directory, treating parents as directories. It is
// meant for callers that match a path without walking to it.
//
// It panics when path is absolute but not under the anchor directory.
func (g *Gitignore) MatchedPathOrAnyParents(path string, isDir bool) match.Match[*Glob] {
	if g.IsEmpty() {
		return match.None[*Glob]()
	}

	path = g.strip(path)
	if filepath.IsAbs(path) {
		panic(fmt.Sprintf("path %q is expected to be under the root %q", path, g.root))
	}

	for {
		if m := g.matchedStripped(path, isDir); !m.IsNone() {
			return m
		}
		parent, ok := pathutil.Parent(path)
		if !ok || parent == "" || parent == "/" {
			return match.None[*Glob]()
		}
		path = parent
		isDir = true
	}
}

func (g *Gitignore) matchedStripped(path string, isDir bool) match.Match[*Glob] {
	if g.IsEmpty() {
		return match.None[*Glob]()
	}

	indices := g.set.matches(path)
	for i := len(indices) - 1; i >= 0; i-- {
		glob := g.globs[indices[i]]
		if glob.onlyDir && !isDir {
			continue
		}
		if glob.whitelist {
			return match.Whitelisted(glob)
		}

		return match.Ignored(glob)
	}

	return match.None[*Glob]()
}

// strip makes path relative to the anchor directory when it is prefixed by
// it. A bare file name is left untouched so no part of it is stripped.
func (g *Gitignore) strip(path string) string {
	path = pathutil.StripDotSlash(path)
	if g.root == "." || g.root == "" || pathutil.IsFileName(path) {
		return path
	}
	if rest, ok := pathutil.StripPrefix(g.root, path); ok {
		path = rest
		for len(path) > 0 && path[0] == '/' {
			path = path[1:]
		}
	}

	return path
}
