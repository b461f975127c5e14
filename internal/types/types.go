// Package types matches file names against named file type definitions
// such as "go" or "markdown".
//
// A Builder holds the definitions and the selections made from them. A
// selected type whitelists matching files and a negated type ignores them.
// As soon as one type is selected, files that match no selection are
// ignored. Directories are never matched.
package types

import (
	"slices"
	"sort"
	"strings"

	"github.com/bethropolis/ignorewalk/internal/errors"
	"github.com/bethropolis/ignorewalk/internal/match"
	"github.com/bethropolis/ignorewalk/internal/pathutil"
	"github.com/gobwas/glob"
)

// FileTypeDef is a named list of globs.
type FileTypeDef struct {
	Name  string
	Globs []string
}

// Glob is the evidence for a type match. Def is nil when a file was
// ignored only because it matched no selected type.
type Glob struct {
	Def     *FileTypeDef
	Negated bool
}

// Unmatched reports whether the file matched no selection.
func (g *Glob) Unmatched() bool { return g.Def == nil }

func (g *Glob) String() string {
	if g.Def == nil {
		return "<unmatched>"
	}
	if g.Negated {
		return "!" + g.Def.Name
	}

	return g.Def.Name
}

var unmatched = &Glob{}

type selection struct {
	name    string
	negated bool
}

type compiledGlob struct {
	matcher glob.Glob
	sel     *Glob
}

// Types is a compiled set of type selections.
type Types struct {
	defs        []FileTypeDef
	globs       []compiledGlob
	hasSelected bool
}

// Empty returns a matcher with no selections.
func Empty() *Types {
	return &Types{}
}

// IsEmpty reports whether there are no selections to match against.
func (t *Types) IsEmpty() bool { return t == nil || len(t.globs) == 0 }

// Definitions returns every known definition sorted by name.
func (t *Types) Definitions() []FileTypeDef { return t.defs }

// Matched reports whether the file at path is selected or negated.
func (t *Types) Matched(path string, isDir bool) match.Match[*Glob] {
	if isDir || t.IsEmpty() {
		return match.None[*Glob]()
	}

	name, ok := pathutil.FileName(path)
	if !ok {
		if t.hasSelected {
			return match.Ignored(unmatched)
		}
		return match.None[*Glob]()
	}

	for i := len(t.globs) - 1; i >= 0; i-- {
		g := t.globs[i]
		if !g.matcher.Match(name) {
			continue
		}
		if g.sel.Negated {
			return match.Ignored(g.sel)
		}
		return match.Whitelisted(g.sel)
	}

	if t.hasSelected {
		return match.Ignored(unmatched)
	}

	return match.None[*Glob]()
}

// Builder collects definitions and selections.
type Builder struct {
	defs       map[string]*FileTypeDef
	selections []selection
}

// NewBuilder returns a builder with no definitions.
func NewBuilder() *Builder {
	return &Builder{defs: make(map[string]*FileTypeDef)}
}

// Build compiles the selections. Selecting a type with no definition fails
// with an UnrecognizedFileTypeError.
func (b *Builder) Build() (*Types, error) {
	types := &Types{defs: b.Definitions()}
	for _, s := range b.selections {
		def, ok := b.defs[s.name]
		if !ok {
			return nil, &errors.UnrecognizedFileTypeError{Name: s.name}
		}
		if !s.negated {
			types.hasSelected = true
		}

		frozen := &FileTypeDef{Name: def.Name, Globs: slices.Clone(def.Globs)}
		sel := &Glob{Def: frozen, Negated: s.negated}
		for _, pattern := range frozen.Globs {
			compiled, err := glob.Compile(pattern, '/')
			if err != nil {
				return nil, &errors.GlobError{Glob: pattern, Err: err.Error()}
			}
			types.globs = append(types.globs, compiledGlob{matcher: compiled, sel: sel})
		}
	}

	return types, nil
}

// Definitions returns the current definitions sorted by name.
func (b *Builder) Definitions() []FileTypeDef {
	defs := make([]FileTypeDef, 0, len(b.defs))
	for _, def := range b.defs {
		defs = append(defs, FileTypeDef{Name: def.Name, Globs: slices.Clone(def.Globs)})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	return defs
}

// Select whitelists files of the named type. "all" selects every type
// defined so far.
func (b *Builder) Select(name string) *Builder {
	b.pushSelection(name, false)
	return b
}

// Negate ignores files of the named type. "all" negates every type defined
// so far.
func (b *Builder) Negate(name string) *Builder {
	b.pushSelection(name, true)
	return b
}

func (b *Builder) pushSelection(name string, negated bool) {
	if name != "all" {
		b.selections = append(b.selections, selection{name: name, negated: negated})
		return
	}
	for _, def := range b.Definitions() {
		b.selections = append(b.selections, selection{name: def.Name, negated: negated})
	}
}

// Clear removes every glob of the named type.
func (b *Builder) Clear(name string) *Builder {
	delete(b.defs, name)
	return b
}

// Add appends pattern to the named type, creating it when needed.
func (b *Builder) Add(name, pattern string) error {
	if !validName(name) {
		return &errors.InvalidDefinitionError{}
	}

	def, ok := b.defs[name]
	if !ok {
		def = &FileTypeDef{Name: name}
		b.defs[name] = def
	}
	def.Globs = append(def.Globs, pattern)

	return nil
}

// AddDef parses a definition of the form "name:glob" or
// "name:include:type1,type2" and adds it.
func (b *Builder) AddDef(def string) error {
	parts := strings.Split(def, ":")
	switch len(parts) {
	case 2:
		name, pattern := parts[0], parts[1]
		if name == "" || pattern == "" {
			return &errors.InvalidDefinitionError{}
		}
		return b.Add(name, pattern)
	case 3:
		name, include, list := parts[0], parts[1], parts[2]
		if name == "" || include != "include" || list == "" {
			return &errors.InvalidDefinitionError{}
		}
		for _, other := range strings.Split(list, ",") {
			included, ok := b.defs[other]
			if !ok {
				return &errors.UnrecognizedFileTypeError{Name: other}
			}
			for _, pattern := range slices.Clone(included.Globs) {
				if err := b.Add(name, pattern); err != nil {
					return err
				}
			}
		}
		return nil
	default:
		return &errors.InvalidDefinitionError{}
	}
}

// AddDefaults adds the built in definitions.
func (b *Builder) AddDefaults() *Builder {
	for _, def := range defaultTypes {
		for _, pattern := range def.Globs {
			// Built in names are known to be valid.
			_ = b.Add(def.Name, pattern)
		}
	}

	return b
}

func validName(name string) bool {
	if name == "" || name == "all" {
		return false
	}
	for _, r := range name {
		if !isAlnum(r) && r != '-' && r != '_' {
			return false
		}
	}

	return true
}

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
