package gitignore

import (
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const globMeta = `*?[]{}\`

// globSet answers which of a list of compiled patterns match a candidate.
// Patterns that do not need a real glob match are resolved by map lookups:
// whole literal paths, literal base names ("**/name") and plain extensions
// ("**/*.ext"). Everything else goes through doublestar.
type globSet struct {
	caseInsensitive bool
	literals        map[string][]int
	basenames       map[string][]int
	extensions      map[string][]int
	generic         []genericGlob
}

type genericGlob struct {
	index   int
	pattern string
	// anyPrefix is set for patterns starting with "**/", which may be
	// matched against a candidate with its leading "/" removed.
	anyPrefix bool
}

func newGlobSet(patterns []string, caseInsensitive bool) *globSet {
	set := &globSet{
		caseInsensitive: caseInsensitive,
		literals:        make(map[string][]int),
		basenames:       make(map[string][]int),
		extensions:      make(map[string][]int),
	}

	for i, pattern := range patterns {
		if caseInsensitive {
			pattern = strings.ToLower(pattern)
		}
		set.add(i, pattern)
	}

	return set
}

func (s *globSet) add(index int, pattern string) {
	switch {
	case !strings.ContainsAny(pattern, globMeta):
		s.literals[pattern] = append(s.literals[pattern], index)
		return
	case strings.HasPrefix(pattern, "**/"):
		rest := pattern[len("**/"):]
		if !strings.ContainsAny(rest, globMeta+"/") {
			s.basenames[rest] = append(s.basenames[rest], index)
			return
		}
		if ext, ok := strings.CutPrefix(rest, "*."); ok && ext != "" && !strings.ContainsAny(ext, globMeta+"/.") {
			s.extensions["."+ext] = append(s.extensions["."+ext], index)
			return
		}
	}

	s.generic = append(s.generic, genericGlob{
		index:     index,
		pattern:   pattern,
		anyPrefix: strings.HasPrefix(pattern, "**/") || pattern == "**",
	})
}

// matches returns the indices of every pattern matching path, ascending.
func (s *globSet) matches(path string) []int {
	if s.caseInsensitive {
		path = strings.ToLower(path)
	}

	var out []int
	out = append(out, s.literals[path]...)

	base := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		base = path[i+1:]
	}
	if base != "" {
		out = append(out, s.basenames[base]...)
		if i := strings.LastIndexByte(base, '.'); i >= 0 {
			out = append(out, s.extensions[base[i:]]...)
		}
	}

	for _, g := range s.generic {
		candidate := path
		if g.anyPrefix {
			candidate = strings.TrimLeft(candidate, "/")
		}
		if ok, _ := doublestar.Match(g.pattern, candidate); ok {
			out = append(out, g.index)
		}
	}

	slices.Sort(out)
	return slices.Compact(out)
}

// validate reports whether doublestar can compile pattern.
func validate(pattern string) bool {
	return doublestar.ValidatePattern(pattern)
}
