package gitignore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bethropolis/ignorewalk/internal/errors"
	gogitignore "github.com/denormal/go-gitignore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/home/foobar/rust/rg"

func gitignoreFromString(t *testing.T, root, contents string) *Gitignore {
	t.Helper()
	b := NewBuilder(root)
	require.NoError(t, b.AddString("", contents))
	gi, err := b.Build()
	require.NoError(t, err)
	return gi
}

func TestMatchedIgnored(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		contents string
		path     string
		isDir    bool
	}{
		{"literal", root, "months", "months", false},
		{"extension", root, "*.lock", "Cargo.lock", false},
		{"extension nested", root, "*.rs", "src/main.rs", false},
		{"dir star", root, "src/*.rs", "src/main.rs", false},
		{"anchored file", root, "/*.c", "cat-file.c", false},
		{"anchored dir star", root, "/src/*.rs", "src/main.rs", false},
		{"whitelist overridden later", root, "!src/main.rs\n*.rs", "src/main.rs", false},
		{"dir only", root, "foo/", "foo", true},
		{"doublestar prefix top", root, "**/foo", "foo", false},
		{"doublestar prefix nested", root, "**/foo", "src/foo", false},
		{"doublestar both", root, "**/foo/**", "src/foo/bar", false},
		{"doublestar both deep", root, "**/foo/**", "wat/src/foo/bar/baz", false},
		{"doublestar path top", root, "**/foo/bar", "foo/bar", false},
		{"doublestar path nested", root, "**/foo/bar", "src/foo/bar", false},
		{"trailing doublestar", root, "abc/**", "abc/x", false},
		{"trailing doublestar two", root, "abc/**", "abc/x/y", false},
		{"trailing doublestar three", root, "abc/**", "abc/x/y/z", false},
		{"inner doublestar zero", root, "a/**/b", "a/b", false},
		{"inner doublestar one", root, "a/**/b", "a/x/b", false},
		{"inner doublestar two", root, "a/**/b", "a/x/y/b", false},
		{"escaped bang", root, `\!xy`, "!xy", false},
		{"escaped hash", root, `\#foo`, "#foo", false},
		{"dot slash candidate", root, "foo", "./foo", false},
		{"name anywhere", root, "target", "grep/target", false},
		{"name anywhere dot slash", root, "Cargo.lock", "./tabwriter-bin/Cargo.lock", false},
		{"anchored dot slash", root, "/foo/bar/baz", "./foo/bar/baz", false},
		{"dir only nested", root, "foo/", "xyz/foo", true},
		{"relative root", "./src", "/llvm/", "./src/llvm", true},
		{"trailing space trimmed", root, "node_modules/ ", "node_modules", true},
		{"doublestar dir only", root, "**/", "foo/bar", true},
		{"dir children", root, "path1/*", "path1/foo", false},
		{"hidden dir path", root, ".a/b", ".a/b", false},
		{"root dot slash", "./", ".a/b", ".a/b", false},
		{"root dot", ".", ".a/b", ".a/b", false},
		{"root dot slash dot", "./.", ".a/b", ".a/b", false},
		{"root dot slash twice", "././", ".a/b", ".a/b", false},
		{"root dot slash twice dot", "././.", ".a/b", ".a/b", false},
		{"escaped bracket", root, `\[`, "[", false},
		{"escaped question", root, `\?`, "?", false},
		{"escaped star", root, `\*`, "*", false},
		{"escaped plain", root, `\a`, "a", false},
		{"star infix", root, "s*.rs", "sfoo.rs", false},
		{"doublestar alone", root, "**", "foo.rs", false},
		{"doublestar stacked", root, "**/**/*", "a/foo.rs", false},
		{"absolute candidate", root, "target", root + "/target", true},
		{"absolute candidate anchored", root, "/src/*.rs", root + "/src/lib.rs", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gi := gitignoreFromString(t, tt.root, tt.contents)
			assert.True(t, gi.Matched(tt.path, tt.isDir).IsIgnore())
		})
	}
}

func TestMatchedNotIgnored(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		contents string
		path     string
		isDir    bool
	}{
		{"prefix differs", root, "amonths", "months", false},
		{"suffix differs", root, "monthsa", "months", false},
		{"anchored not nested", root, "/src/*.rs", "src/grep/src/main.rs", false},
		{"anchored star", root, "/*.c", "mozilla-sha1/sha1.c", false},
		{"whitelist later", root, "*.rs\n!src/main.rs", "src/main.rs", false},
		{"dir only on file", root, "foo/", "foo", false},
		{"doublestar prefix partial", root, "**/foo/**", "wat/src/afoo/bar/baz", false},
		{"doublestar suffix partial", root, "**/foo/**", "wat/src/fooa/bar/baz", false},
		{"doublestar not interleaved", root, "**/foo/bar", "foo/src/bar", false},
		{"comment", root, "#foo", "#foo", false},
		{"blank lines", root, "\n\n\n", "foo", false},
		{"trailing doublestar excludes dir", root, "foo/**", "foo", true},
		{"other anchor", "./third_party/protobuf", "m4/ltoptions.m4",
			"./third_party/protobuf/csharp/src/packages/repositories.config", false},
		{"anchored whitelist", root, "!/bar", "foo/bar", false},
		{"whitelist dirs", root, "*\n!**/", "foo", true},
		{"star does not cross slash", root, "src/*.rs", "src/grep/src/main.rs", false},
		{"dir children anchored", root, "path1/*", "path2/path1/foo", false},
		{"star infix anchored", root, "s*.rs", "src/foo.rs", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gi := gitignoreFromString(t, tt.root, tt.contents)
			assert.False(t, gi.Matched(tt.path, tt.isDir).IsIgnore())
		})
	}
}

func TestWhitelistEvidence(t *testing.T) {
	gi := gitignoreFromString(t, root, "*.rs\n!src/main.rs")
	m := gi.Matched("src/main.rs", false)
	require.True(t, m.IsWhitelist())
	assert.Equal(t, "!src/main.rs", m.Value().Original())
	assert.Equal(t, "src/main.rs", m.Value().Actual())
	assert.Equal(t, 2, m.Value().Line())

	assert.Equal(t, 1, gi.NumIgnores())
	assert.Equal(t, 1, gi.NumWhitelists())
	assert.Equal(t, 2, gi.Len())
}

func TestNormalizedPatterns(t *testing.T) {
	tests := []struct {
		line    string
		actual  string
		onlyDir bool
		white   bool
	}{
		{"foo", "**/foo", false, false},
		{"/foo", "foo", false, false},
		{"foo/", "**/foo", true, false},
		{`foo\/`, "**/foo", true, false},
		{"!foo/bar", "foo/bar", false, true},
		{"abc/**", "abc/**/*", false, false},
		{"**/foo", "**/foo", false, false},
		{"**", "**", false, false},
		{`foo\ `, `**/foo\ `, false, false},
	}
	for _, tt := range tests {
		glob := parseLine("", tt.line)
		require.NotNil(t, glob, tt.line)
		assert.Equal(t, tt.actual, glob.Actual(), tt.line)
		assert.Equal(t, tt.onlyDir, glob.IsOnlyDir(), tt.line)
		assert.Equal(t, tt.white, glob.IsWhitelist(), tt.line)
	}

	assert.Nil(t, parseLine("", "# comment"))
	assert.Nil(t, parseLine("", "   "))
}

func TestCaseInsensitive(t *testing.T) {
	b := NewBuilder(root).CaseInsensitive(true)
	require.NoError(t, b.AddString("", "*.html\nREADME"))
	gi, err := b.Build()
	require.NoError(t, err)

	assert.True(t, gi.Matched("foo.html", false).IsIgnore())
	assert.True(t, gi.Matched("foo.HTML", false).IsIgnore())
	assert.True(t, gi.Matched("readme", false).IsIgnore())

	gi = gitignoreFromString(t, root, "*.html")
	assert.False(t, gi.Matched("foo.HTML", false).IsIgnore())
}

func TestEmptyNeverMatches(t *testing.T) {
	gi := Empty()
	assert.True(t, gi.IsEmpty())
	assert.True(t, gi.Matched("anything", false).IsNone())
	assert.True(t, gi.MatchedPathOrAnyParents("a/b/c", false).IsNone())
}

func TestBlankRootLine(t *testing.T) {
	gi := gitignoreFromString(t, "/", " ")
	assert.True(t, gi.IsEmpty())
}

func TestPartialErrorKeepsValidLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("{foo\nbar\n[baz\n"), 0o644))

	gi, err := New(path)
	require.Error(t, err)

	var partial *errors.PartialError
	require.True(t, errors.As(err, &partial))
	assert.Len(t, partial.Errors(), 2)

	var lineErr *errors.LineError
	require.True(t, errors.As(partial.Errors()[0], &lineErr))
	assert.Equal(t, 1, lineErr.Line)
	assert.Contains(t, err.Error(), path)

	assert.True(t, gi.Matched(filepath.Join(dir, "bar"), false).IsIgnore())
	assert.Equal(t, dir, gi.Path())
}

func TestSingleBadLineIsNotPartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("{foo\n"), 0o644))

	_, err := New(path)
	require.Error(t, err)

	var partial *errors.PartialError
	assert.False(t, errors.As(err, &partial))
	var globErr *errors.GlobError
	assert.True(t, errors.As(err, &globErr))
}

func TestMissingFileIsIO(t *testing.T) {
	b := NewBuilder("/nope")
	err := b.AddFile("/nope/.gitignore")
	require.Error(t, err)
	assert.True(t, errors.IsIO(err))
}

func TestByteOrderMark(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("\ufefffoo\n"), 0o644))

	gi, err := New(path)
	require.NoError(t, err)
	assert.True(t, gi.Matched("foo", false).IsIgnore())
}

func TestMatchedPathOrAnyParents(t *testing.T) {
	gi := gitignoreFromString(t, root, "target/\n/vendor\n")

	assert.True(t, gi.MatchedPathOrAnyParents("target/debug/build/out.o", false).IsIgnore())
	assert.True(t, gi.MatchedPathOrAnyParents(root+"/vendor/lib/x.go", false).IsIgnore())
	assert.True(t, gi.MatchedPathOrAnyParents("src/lib.rs", false).IsNone())

	assert.Panics(t, func() {
		gi.MatchedPathOrAnyParents("/somewhere/else/target", false)
	})
}

// Simple top-level patterns must agree with an independent gitignore
// implementation.
func TestParityWithGoGitignore(t *testing.T) {
	tests := []struct {
		contents string
		path     string
		isDir    bool
	}{
		{"*.log", "debug.log", false},
		{"*.log", "src/debug.log", false},
		{"*.log", "debug.txt", false},
		{"build/", "build", true},
		{"build/", "build", false},
		{"/dist", "dist", true},
		{"/dist", "pkg/dist", true},
		{"docs/*.md", "docs/index.md", false},
		{"docs/*.md", "docs/api/index.md", false},
		{"node_modules", "web/node_modules", true},
	}

	for _, tt := range tests {
		t.Run(tt.contents+" "+tt.path, func(t *testing.T) {
			oracle := gogitignore.New(strings.NewReader(tt.contents), root, nil)
			want := false
			if m := oracle.Relative(tt.path, tt.isDir); m != nil {
				want = m.Ignore()
			}

			gi := gitignoreFromString(t, root, tt.contents)
			assert.Equal(t, want, gi.Matched(tt.path, tt.isDir).IsIgnore())
		})
	}
}
