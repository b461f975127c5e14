// Package pathutil holds the small path manipulations shared by matchers
// and walkers. Paths are treated as slash separated.
package pathutil

import (
	"path/filepath"
	"strings"
)

// IsHidden reports whether the final component of path starts with a dot.
func IsHidden(path string) bool {
	name, ok := FileName(path)
	return ok && strings.HasPrefix(name, ".")
}

// FileName returns the final component of path. It reports false for
// paths without a real final component, such as "", ".", ".." and "/".
func FileName(path string) (string, bool) {
	path = strings.TrimRight(path, "/")
	if path == "" {
		return "", false
	}
	name := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		name = path[i+1:]
	}
	if name == "." || name == ".." {
		return "", false
	}
	return name, true
}

// IsFileName reports whether path is a bare name without any separator.
func IsFileName(path string) bool {
	return !strings.ContainsRune(path, '/')
}

// StripDotSlash removes every leading "./".
func StripDotSlash(path string) string {
	for strings.HasPrefix(path, "./") {
		path = strings.TrimLeft(path[2:], "/")
	}
	return path
}

// StripPrefix removes prefix from path component-wise, so "foo" is a prefix
// of "foo/bar" but not of "foobar". It reports whether prefix matched.
func StripPrefix(prefix, path string) (string, bool) {
	if prefix == "" {
		return path, true
	}
	if path == prefix {
		return "", true
	}
	if strings.HasSuffix(prefix, "/") {
		if strings.HasPrefix(path, prefix) {
			return path[len(prefix):], true
		}
		return path, false
	}
	if strings.HasPrefix(path, prefix) && path[len(prefix)] == '/' {
		return path[len(prefix)+1:], true
	}
	return path, false
}

// HasPrefix reports whether prefix is a component-wise prefix of path.
func HasPrefix(prefix, path string) bool {
	_, ok := StripPrefix(prefix, path)
	return ok
}

// Parent returns the parent of path, or false when path has none.
func Parent(path string) (string, bool) {
	path = strings.TrimRight(path, "/")
	if path == "" {
		return "", false
	}
	i := strings.LastIndexByte(path, '/')
	switch {
	case i < 0:
		return "", true
	case i == 0:
		return "/", true
	default:
		return path[:i], true
	}
}

// Ancestors returns every proper ancestor of the absolute path abs, nearest
// first, ending with the filesystem root.
func Ancestors(abs string) []string {
	var parents []string
	for {
		parent := filepath.Dir(abs)
		if parent == abs {
			return parents
		}
		parents = append(parents, parent)
		abs = parent
	}
}
