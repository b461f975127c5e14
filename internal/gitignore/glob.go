package gitignore

import (
	"fmt"
	"strings"
)

// Glob is a single rule parsed from a gitignore file.
type Glob struct {
	from      string
	original  string
	actual    string
	whitelist bool
	onlyDir   bool
	line      int
}

// From returns the file the glob was read from, or "" when it was added
// from a string.
func (g *Glob) From() string { return g.from }

// Original returns the line exactly as it was given.
func (g *Glob) Original() string { return g.original }

// Actual returns the normalized pattern that is compiled.
func (g *Glob) Actual() string { return g.actual }

// IsWhitelist reports whether the rule was negated with "!".
func (g *Glob) IsWhitelist() bool { return g.whitelist }

// IsOnlyDir reports whether the rule only applies to directories.
func (g *Glob) IsOnlyDir() bool { return g.onlyDir }

// Line returns the 1-based line number of the rule, or 0 if unknown.
func (g *Glob) Line() int { return g.line }

func (g *Glob) String() string {
	if g.from == "" {
		return g.original
	}

	return fmt.Sprintf("%s:%d:%s", g.from, g.line, g.original)
}

func (g *Glob) hasDoublestarPrefix() bool {
	return strings.HasPrefix(g.actual, "**/") || g.actual == "**"
}

// parseLine turns one line of a gitignore file into a Glob. It returns nil
// for blank lines and comments.
func parseLine(from string, line string) *Glob {
	if strings.HasPrefix(line, "#") {
		return nil
	}
	if !strings.HasSuffix(line, `\ `) {
		line = strings.TrimRight(line, " \t\r\n\v\f")
	}
	if line == "" {
		return nil
	}

	glob := &Glob{from: from, original: line}
	anchored := false
	if strings.HasPrefix(line, `\!`) || strings.HasPrefix(line, `\#`) {
		line = line[1:]
		anchored = strings.HasPrefix(line, "/")
	} else {
		if strings.HasPrefix(line, "!") {
			glob.whitelist = true
			line = line[1:]
		}
		if strings.HasPrefix(line, "/") {
			// A leading slash anchors the rule to the gitignore's directory.
			line = line[1:]
			anchored = true
		}
	}

	if strings.HasSuffix(line, "/") {
		glob.onlyDir = true
		line = line[:len(line)-1]
		if strings.HasSuffix(line, `\`) {
			line = line[:len(line)-1]
		}
	}

	glob.actual = line
	if !anchored && !strings.Contains(line, "/") && !glob.hasDoublestarPrefix() {
		glob.actual = "**/" + glob.actual
	}

	// "dir/**" matches everything inside dir but not dir itself.
	if strings.HasSuffix(glob.actual, "/**") {
		glob.actual += "/*"
	}

	return glob
}
