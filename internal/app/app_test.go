package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/ignorewalk/internal/config"
	"github.com/bethropolis/ignorewalk/internal/printer"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	td, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	files := map[string]string{
		".git/HEAD":      "",
		".gitignore":     "target/\n",
		"main.go":        "",
		"README.md":      "",
		"src/lib.rs":     "",
		"target/out.bin": "",
		".hidden":        "",
	}
	for name, contents := range files {
		path := filepath.Join(td, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	}
	return td
}

func baseConfig(paths ...string) *config.Config {
	return &config.Config{
		Paths:       paths,
		Quiet:       true,
		LogLevel:    "none",
		MaxDepth:    -1,
		MaxFilesize: -1,
	}
}

func run(t *testing.T, cfg *config.Config) (string, string, error) {
	t.Helper()
	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	var out, errOut bytes.Buffer
	a.Output = &out
	a.ErrOutput = &errOut
	err = a.Run()
	return out.String(), errOut.String(), err
}

func lines(t *testing.T, td, out string) []string {
	t.Helper()
	var got []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		rel, err := filepath.Rel(td, line)
		require.NoError(t, err)
		got = append(got, filepath.ToSlash(rel))
	}
	return got
}

func TestSequentialSorted(t *testing.T) {
	td := fixture(t)
	cfg := baseConfig(td)
	cfg.Sort = true

	out, _, err := run(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "main.go", "src", "src/lib.rs"}, lines(t, td, out))
}

func TestParallel(t *testing.T) {
	td := fixture(t)
	cfg := baseConfig(td)
	cfg.Parallel = true
	cfg.Threads = 3

	out, _, err := run(t, cfg)
	require.NoError(t, err)
	got := lines(t, td, out)
	slices.Sort(got)
	assert.Equal(t, []string{"README.md", "main.go", "src", "src/lib.rs"}, got)
}

func TestTypesAndGlobs(t *testing.T) {
	td := fixture(t)
	t.Chdir(td)

	cfg := baseConfig(td)
	cfg.Sort = true
	cfg.Types = []string{"go"}
	out, _, err := run(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "src"}, lines(t, td, out))

	cfg = baseConfig(td)
	cfg.Sort = true
	cfg.Globs = []string{"!*.md"}
	out, _, err = run(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "src", "src/lib.rs"}, lines(t, td, out))
}

func TestUnknownTypeIsAnError(t *testing.T) {
	td := fixture(t)
	cfg := baseConfig(td)
	cfg.Types = []string{"nope"}

	_, _, err := run(t, cfg)
	assert.ErrorContains(t, err, "unrecognized file type: nope")
}

func TestJSONOutput(t *testing.T) {
	td := fixture(t)
	cfg := baseConfig(td)
	cfg.Sort = true
	cfg.JSONOutput = true
	cfg.Hidden = true
	cfg.NoIgnore = true

	out, _, err := run(t, cfg)
	require.NoError(t, err)

	var entries []printer.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	var names []string
	for _, e := range entries {
		names = append(names, filepath.ToSlash(strings.TrimPrefix(e.Path, td+string(filepath.Separator))))
	}
	assert.Contains(t, names, ".hidden")
	assert.Contains(t, names, "target/out.bin")
	assert.Contains(t, names, ".git/HEAD")
}

func TestShowSkipped(t *testing.T) {
	td := fixture(t)
	cfg := baseConfig(td)
	cfg.ShowSkipped = true

	_, errOut, err := run(t, cfg)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Skipped DIR : ")
	assert.Contains(t, errOut, "[Ignored (Ignore File Rule)]")
	assert.Contains(t, errOut, "[Ignored (Hidden Rule)]")
}

func TestTypeList(t *testing.T) {
	cfg := baseConfig(".")
	cfg.TypeList = true
	cfg.TypeAdd = []string{"zzz:*.zzz"}

	out, _, err := run(t, cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "go: *.go\n")
	assert.True(t, strings.HasSuffix(out, "zzz: *.zzz\n"))
}

func TestTimeout(t *testing.T) {
	td := fixture(t)
	cfg := baseConfig(td)
	cfg.Timeout = time.Nanosecond

	out, _, err := run(t, cfg)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Empty(t, out)
}

func TestOutputFile(t *testing.T) {
	td := fixture(t)
	cfg := baseConfig(td)
	cfg.Sort = true
	cfg.OutputFile = filepath.Join(t.TempDir(), "out.txt")

	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run())
	require.NoError(t, a.Close())

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "main.go", "src", "src/lib.rs"}, lines(t, td, string(data)))
}

func TestUnknownLogLevel(t *testing.T) {
	cfg := baseConfig(".")
	cfg.LogLevel = "loud"

	_, err := New(cfg)
	assert.ErrorContains(t, err, `unknown log level "loud"`)
}
