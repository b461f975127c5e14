package overrides

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/home/andrew/foo"

func build(t *testing.T, globs ...string) *Override {
	t.Helper()
	b := NewBuilder(root)
	for _, glob := range globs {
		require.NoError(t, b.Add(glob))
	}
	ov, err := b.Build()
	require.NoError(t, err)
	return ov
}

func TestEmpty(t *testing.T) {
	ov := build(t)
	assert.True(t, ov.IsEmpty())
	assert.True(t, ov.Matched("a.foo", false).IsNone())
	assert.True(t, ov.Matched("a", true).IsNone())
	assert.True(t, Empty().Matched("", false).IsNone())
}

func TestSimple(t *testing.T) {
	ov := build(t, "*.foo", "!*.bar")
	assert.True(t, ov.Matched("a.foo", false).IsWhitelist())
	assert.True(t, ov.Matched("a.foo", true).IsWhitelist())
	assert.True(t, ov.Matched("a.rs", false).IsIgnore())
	assert.True(t, ov.Matched("a.rs", true).IsNone())
	assert.True(t, ov.Matched("a.bar", false).IsIgnore())
	assert.True(t, ov.Matched("a.bar", true).IsIgnore())

	assert.Equal(t, 1, ov.NumWhitelists())
	assert.Equal(t, 1, ov.NumIgnores())
}

func TestOnlyIgnores(t *testing.T) {
	ov := build(t, "!*.bar")
	assert.True(t, ov.Matched("a.rs", false).IsNone())
	assert.True(t, ov.Matched("a.rs", true).IsNone())
	assert.True(t, ov.Matched("a.bar", false).IsIgnore())
	assert.True(t, ov.Matched("a.bar", true).IsIgnore())
}

func TestPrecedence(t *testing.T) {
	ov := build(t, "*.foo", "!*.bar.foo")
	assert.True(t, ov.Matched("a.foo", false).IsWhitelist())
	assert.True(t, ov.Matched("a.baz", false).IsIgnore())
	assert.True(t, ov.Matched("a.bar.foo", false).IsIgnore())
}

func TestGitignoreSyntax(t *testing.T) {
	ov := build(t, "/foo", "bar/*.rs", "baz/**")
	assert.True(t, ov.Matched("bar/lib.rs", false).IsWhitelist())
	assert.True(t, ov.Matched("bar/wat/lib.rs", false).IsIgnore())
	assert.True(t, ov.Matched("wat/bar/lib.rs", false).IsIgnore())
	assert.True(t, ov.Matched("foo", false).IsWhitelist())
	assert.True(t, ov.Matched("wat/foo", false).IsIgnore())
	assert.True(t, ov.Matched("baz", false).IsIgnore())
	assert.True(t, ov.Matched("baz/a", false).IsWhitelist())
	assert.True(t, ov.Matched("baz/a/b", false).IsWhitelist())
}

func TestDirectoriesAreNotImplicitlyIgnored(t *testing.T) {
	ov := build(t, "*.rs")
	assert.True(t, ov.Matched("foo.rs", false).IsWhitelist())
	assert.True(t, ov.Matched("foo.c", false).IsIgnore())
	assert.True(t, ov.Matched("foo", false).IsIgnore())
	assert.True(t, ov.Matched("foo", true).IsNone())
	assert.True(t, ov.Matched("src/foo.rs", false).IsWhitelist())
	assert.True(t, ov.Matched("src/foo.c", false).IsIgnore())
	assert.True(t, ov.Matched("src/foo", true).IsNone())

	m := ov.Matched("src/foo.c", false)
	assert.True(t, m.Value().Unmatched())
	assert.Nil(t, m.Value().Glob())
}

func TestAnchoredIgnoreDoesNotMatchNested(t *testing.T) {
	ov := build(t, "!/bar")
	assert.True(t, ov.Matched("./foo/bar", false).IsNone())
}

func TestCaseInsensitive(t *testing.T) {
	b := NewBuilder(root).CaseInsensitive(true)
	require.NoError(t, b.Add("*.html"))
	ov, err := b.Build()
	require.NoError(t, err)
	assert.True(t, ov.Matched("foo.html", false).IsWhitelist())
	assert.True(t, ov.Matched("foo.HTML", false).IsWhitelist())

	ov = build(t, "*.html")
	assert.True(t, ov.Matched("foo.HTML", false).IsIgnore())
}

func TestBadGlob(t *testing.T) {
	b := NewBuilder(root)
	assert.Error(t, b.Add("[unclosed"))
}
