package ignore

import (
	"path/filepath"

	"github.com/bethropolis/ignorewalk/internal/gitignore"
	"github.com/bethropolis/ignorewalk/internal/match"
	"github.com/bethropolis/ignorewalk/internal/pathutil"
)

type Match = match.Match[IgnoreMatch]

// Matched reports whether path is ignored or whitelisted. Overrides win
// outright. Otherwise an ignore from the ignore files or the file types
// wins, and a whitelist from either is returned only if nothing ignored the
// path.
func (ig *Ignore) Matched(path string, isDir bool) Match {
	path = pathutil.StripDotSlash(path)

	if !ig.overrides.IsEmpty() {
		m := match.Map(ig.overrides.Matched(path, isDir), overrideMatch)
		if !m.IsNone() {
			return m
		}
	}

	whitelisted := match.None[IgnoreMatch]()
	if ig.hasAnyIgnoreRules() {
		m := ig.matchedIgnore(path, isDir)
		if m.IsIgnore() {
			return m
		}
		if m.IsWhitelist() {
			whitelisted = m
		}
	}

	if !ig.types.IsEmpty() {
		m := match.Map(ig.types.Matched(path, isDir), typesMatch)
		if m.IsIgnore() {
			return m
		}
		if m.IsWhitelist() {
			whitelisted = m
		}
	}

	return whitelisted
}

// MatchedDirEntry is Matched plus the hidden file rule, which only applies
// to entries found while walking.
func (ig *Ignore) MatchedDirEntry(path string, isDir bool) Match {
	m := ig.Matched(path, isDir)
	if m.IsNone() && ig.opts.Hidden && pathutil.IsHidden(path) {
		return match.Ignored(hiddenMatch())
	}

	return m
}

func (ig *Ignore) hasAnyIgnoreRules() bool {
	opts := ig.opts
	return opts.Ignore || opts.GitGlobal || opts.GitIgnore || opts.GitExclude ||
		len(ig.customIgnoreFilenames) > 0 || len(ig.explicitIgnores) > 0
}

// localMatches collects the nearest decisive result of each per-directory
// source while walking up a chain of matchers.
type localMatches struct {
	custom, ignore, gitignore, exclude Match
	anyGit, sawGit                     bool
}

func (l *localMatches) visit(ig *Ignore, path string, isDir bool) {
	if l.custom.IsNone() {
		l.custom = matchGitignore(ig.customIgnoreMatcher, path, isDir)
	}
	if l.ignore.IsNone() {
		l.ignore = matchGitignore(ig.ignoreMatcher, path, isDir)
	}
	if l.anyGit && !l.sawGit {
		if l.gitignore.IsNone() {
			l.gitignore = matchGitignore(ig.gitIgnoreMatcher, path, isDir)
		}
		if l.exclude.IsNone() {
			l.exclude = matchGitignore(ig.gitExcludeMatcher, path, isDir)
		}
	}
	l.sawGit = l.sawGit || ig.hasGit
}

func (ig *Ignore) matchedIgnore(path string, isDir bool) Match {
	l := localMatches{anyGit: !ig.opts.RequireGit}
	if !l.anyGit {
		for p := range ig.Parents() {
			if p.hasGit {
				l.anyGit = true
				break
			}
		}
	}

	for p := range ig.Parents() {
		if p.isAbsoluteParent {
			break
		}
		l.visit(p, path, isDir)
	}

	if ig.opts.Parents {
		if absPath, ok := ig.absolutePath(path); ok {
			seen := false
			for p := range ig.Parents() {
				seen = seen || p.isAbsoluteParent
				if seen {
					l.visit(p, absPath, isDir)
				}
			}
		}
	}

	explicit := match.None[IgnoreMatch]()
	for i := len(ig.explicitIgnores) - 1; i >= 0 && explicit.IsNone(); i-- {
		gi := ig.explicitIgnores[i]
		candidate, ok := ig.explicitCandidate(gi, path)
		if !ok {
			continue
		}
		explicit = matchGitignore(gi, candidate, isDir)
	}

	global := match.None[IgnoreMatch]()
	if l.anyGit {
		global = matchGitignore(ig.gitGlobalMatcher, path, isDir)
	}

	return explicit.Or(l.custom).Or(l.ignore).Or(l.gitignore).Or(l.exclude).Or(global)
}

// absolutePath rewrites path so it can be matched by the ignore files of
// the ancestors added by AddParents. The walked directory that corresponds
// to the absolute base is the topmost matcher that is not an absolute
// parent.
func (ig *Ignore) absolutePath(path string) (string, bool) {
	base, ok := ig.AbsoluteBase()
	if !ok {
		return "", false
	}

	var top *Ignore
	for p := range ig.Parents() {
		if p.isAbsoluteParent {
			break
		}
		top = p
	}
	if top == nil {
		if filepath.IsAbs(path) {
			return path, true
		}
		return filepath.Join(base, path), true
	}

	prefix := pathutil.StripDotSlash(top.dir)
	if rest, ok := pathutil.StripPrefix(prefix, path); ok {
		return filepath.Join(base, rest), true
	}
	if filepath.IsAbs(path) {
		return path, true
	}

	return filepath.Join(base, path), true
}

// explicitCandidate returns the form of path an explicit ignore file should
// match, or false when path is outside the file's anchor directory. A
// relative path is compared in its absolute form when the anchor is
// absolute.
func (ig *Ignore) explicitCandidate(gi *gitignore.Gitignore, path string) (string, bool) {
	root := pathutil.StripDotSlash(gi.Path())
	if root == "" || root == "." || pathutil.HasPrefix(root, path) {
		return path, true
	}
	if !filepath.IsAbs(root) || filepath.IsAbs(path) {
		return "", false
	}

	abs, ok := ig.absolutePath(path)
	if !ok && filepath.IsAbs(ig.dir) && !pathutil.HasPrefix(pathutil.StripDotSlash(ig.dir), path) {
		abs, ok = filepath.Join(ig.dir, path), true
	}
	if !ok || !pathutil.HasPrefix(root, abs) {
		return "", false
	}

	return abs, true
}

func matchGitignore(gi *gitignore.Gitignore, path string, isDir bool) Match {
	return match.Map(gi.Matched(path, isDir), gitignoreMatch)
}
