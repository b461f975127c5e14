package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bethropolis/ignorewalk/internal/walker"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Error(string, ...interface{}) {}

func (l *recordingLogger) Warn(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func noInfo(string, ...interface{}) {}

func tree(t *testing.T, files ...string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	td, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	for i := 0; i+1 < len(files); i += 2 {
		path := filepath.Join(td, files[i])
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(files[i+1]), 0o644))
	}
	return td
}

func collect(t *testing.T, td string, b *walker.Builder) []string {
	t.Helper()
	var got []string
	for ent, err := range b.Build().All() {
		require.NoError(t, err)
		if ent.Depth() == 0 {
			continue
		}
		rel, err := filepath.Rel(td, ent.Path())
		require.NoError(t, err)
		got = append(got, filepath.ToSlash(rel))
	}
	return got
}

func TestConfigureWalkerDefaults(t *testing.T) {
	td := tree(t,
		".gitignore", "*.log\n",
		".ignore", "tmp/\n",
		"a.go", "",
		"a.log", "",
		"tmp/x", "",
		".env", "",
	)
	b, err := ConfigureWalker(WalkerConfig{
		Paths:        []string{td},
		MaxDepth:     -1,
		MaxFilesize:  -1,
		Sort:         true,
		NoRequireGit: true,
	}, noInfo)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.go"}, collect(t, td, b))
}

func TestConfigureWalkerNoIgnore(t *testing.T) {
	td := tree(t,
		".ignore", "tmp/\n",
		"a.go", "",
		"tmp/x", "",
		"sub/.hidden", "",
	)
	b, err := ConfigureWalker(WalkerConfig{
		Paths:       []string{td},
		MaxDepth:    -1,
		MaxFilesize: -1,
		Sort:        true,
		NoIgnore:    true,
		Hidden:      true,
	}, noInfo)
	require.NoError(t, err)

	assert.Equal(t, []string{".ignore", "a.go", "sub", "sub/.hidden", "tmp", "tmp/x"}, collect(t, td, b))
}

func TestConfigureWalkerCustomIgnoreFilename(t *testing.T) {
	td := tree(t,
		".myignore", "b.go\n",
		"a.go", "",
		"b.go", "",
	)
	b, err := ConfigureWalker(WalkerConfig{
		Paths:             []string{td},
		MaxDepth:          -1,
		MaxFilesize:       -1,
		Sort:              true,
		CustomIgnoreFiles: []string{".myignore"},
	}, noInfo)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.go"}, collect(t, td, b))
}

func TestConfigureWalkerMissingIgnoreFileWarns(t *testing.T) {
	td := tree(t, "a.go", "")
	log := &recordingLogger{}
	missing := filepath.Join(td, "nope.ignore")

	b, err := ConfigureWalker(WalkerConfig{
		Paths:       []string{td},
		MaxDepth:    -1,
		MaxFilesize: -1,
		IgnoreFiles: []string{missing},
		Logger:      log,
	}, noInfo)
	require.NoError(t, err)
	require.NotNil(t, b)

	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], missing)
	assert.Equal(t, []string{"a.go"}, collect(t, td, b))
}

func TestConfigureWalkerGlobsAndTypes(t *testing.T) {
	td := tree(t,
		"a.go", "",
		"b.rs", "",
		"c.md", "",
	)

	b, err := ConfigureWalker(WalkerConfig{
		Paths:        []string{td},
		MaxDepth:     -1,
		MaxFilesize:  -1,
		Sort:         true,
		OverrideRoot: td,
		Globs:        []string{"!*.md"},
	}, noInfo)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.rs"}, collect(t, td, b))

	b, err = ConfigureWalker(WalkerConfig{
		Paths:       []string{td},
		MaxDepth:    -1,
		MaxFilesize: -1,
		Sort:        true,
		TypesNot:    []string{"rust"},
	}, noInfo)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "c.md"}, collect(t, td, b))
}

func TestConfigureWalkerErrors(t *testing.T) {
	_, err := ConfigureWalker(WalkerConfig{}, noInfo)
	assert.ErrorContains(t, err, "no paths to walk")

	_, err = ConfigureWalker(WalkerConfig{Paths: []string{"."}, Types: []string{"nope"}}, noInfo)
	assert.ErrorContains(t, err, "unrecognized file type: nope")

	_, err = ConfigureWalker(WalkerConfig{Paths: []string{"."}, TypeAdd: []string{"bad"}}, noInfo)
	assert.ErrorContains(t, err, `error adding file type "bad"`)
}

func TestTypesBuilder(t *testing.T) {
	b, err := TypesBuilder(WalkerConfig{
		TypeClear: []string{"go"},
		TypeAdd:   []string{"go:*.golang", "mine:*.mine"},
	})
	require.NoError(t, err)

	defs := map[string][]string{}
	for _, def := range b.Definitions() {
		defs[def.Name] = def.Globs
	}
	assert.Equal(t, []string{"*.golang"}, defs["go"])
	assert.Equal(t, []string{"*.mine"}, defs["mine"])
}

func TestBuildOverridesEmpty(t *testing.T) {
	ov, err := BuildOverrides(WalkerConfig{})
	require.NoError(t, err)
	assert.True(t, ov.IsEmpty())
}
