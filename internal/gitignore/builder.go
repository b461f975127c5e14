package gitignore

import (
	"bufio"
	"os"
	"slices"
	"strings"

	"github.com/bethropolis/ignorewalk/internal/errors"
	"github.com/bethropolis/ignorewalk/internal/pathutil"
	"github.com/bethropolis/ignorewalk/internal/utils"
)

const utf8BOM = "\ufeff"

// Builder accumulates gitignore rules anchored at one directory.
type Builder struct {
	root            string
	globs           []*Glob
	caseInsensitive bool
	logger          utils.Logger
}

// NewBuilder returns a builder whose rules are matched relative to root.
func NewBuilder(root string) *Builder {
	return &Builder{
		root:   pathutil.StripDotSlash(root),
		logger: utils.NoopLogger{},
	}
}

// CaseInsensitive toggles case insensitive matching. It only affects
// rules compiled by a later Build.
func (b *Builder) CaseInsensitive(yes bool) *Builder {
	b.caseInsensitive = yes
	return b
}

// Logger sets the logger used to report opened files.
func (b *Builder) Logger(logger utils.Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// AddFile reads the rules from the gitignore file at path. Lines that fail
// to compile are reported in a partial error; every other line is kept.
func (b *Builder) AddFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.WithPath(path, errors.IO(err))
	}
	defer file.Close()

	b.logger.Debug("gitignore.AddFile: opened %s", path)

	var errs errors.PartialBuilder
	scanner := bufio.NewScanner(file)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if lineno == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		if err := b.addLine(path, lineno, line); err != nil {
			errs.Push(errors.WithPath(path, errors.WithLine(lineno, err)))
		}
	}
	if err := scanner.Err(); err != nil {
		errs.Push(errors.WithPath(path, errors.WithLine(lineno+1, errors.IO(err))))
	}

	return errs.Err()
}

// AddString adds every line of contents. from names the source and may be
// empty.
func (b *Builder) AddString(from string, contents string) error {
	var errs errors.PartialBuilder
	for i, line := range strings.Split(contents, "\n") {
		errs.MaybePush(errors.WithLine(i+1, b.addLine(from, i+1, line)))
	}

	return errs.Err()
}

// AddLine adds a single rule. from names the source and may be empty.
func (b *Builder) AddLine(from string, line string) error {
	return b.addLine(from, 0, line)
}

func (b *Builder) addLine(from string, lineno int, line string) error {
	glob := parseLine(from, line)
	if glob == nil {
		return nil
	}
	glob.line = lineno

	pattern := glob.actual
	if b.caseInsensitive {
		pattern = strings.ToLower(pattern)
	}
	if !validate(pattern) {
		return &errors.GlobError{Glob: glob.original, Err: "invalid glob pattern"}
	}

	b.globs = append(b.globs, glob)
	return nil
}

// Build compiles the accumulated rules into a matcher.
func (b *Builder) Build() (*Gitignore, error) {
	globs := slices.Clone(b.globs)
	patterns := make([]string, len(globs))
	numIgnores, numWhitelists := 0, 0
	for i, glob := range globs {
		patterns[i] = glob.actual
		if glob.whitelist {
			numWhitelists++
		} else {
			numIgnores++
		}
	}

	return &Gitignore{
		set:           newGlobSet(patterns, b.caseInsensitive),
		root:          b.root,
		globs:         globs,
		numIgnores:    numIgnores,
		numWhitelists: numWhitelists,
	}, nil
}

// BuildGlobal builds a matcher from the user's global git excludes file.
// A missing file yields an empty matcher and no error.
func (b *Builder) BuildGlobal() (*Gitignore, error) {
	path, ok := GlobalExcludesPath()
	if !ok {
		return Empty(), nil
	}
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return Empty(), nil
	}

	var errs errors.PartialBuilder
	errs.MaybePushIgnoreIO(b.AddFile(path))
	gi, err := b.Build()
	if err != nil {
		errs.Push(err)
		return Empty(), errs.Err()
	}

	return gi, errs.Err()
}
