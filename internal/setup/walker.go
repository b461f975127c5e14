// Package setup provides initialization and configuration functions
package setup

import (
	"fmt"
	"os"
	"strings"

	"github.com/bethropolis/ignorewalk/internal/ignore"
	"github.com/bethropolis/ignorewalk/internal/overrides"
	"github.com/bethropolis/ignorewalk/internal/types"
	"github.com/bethropolis/ignorewalk/internal/utils"
	"github.com/bethropolis/ignorewalk/internal/walker"
)

// InfoLogger wraps the Info method for status updates
type InfoLogger func(format string, args ...interface{})

// WalkerConfig holds all parameters needed to configure a directory walker
type WalkerConfig struct {
	Paths          []string
	Threads        int
	MaxDepth       int
	MaxFilesize    int64
	FollowLinks    bool
	SameFileSystem bool
	Sort           bool

	Hidden                    bool
	NoIgnore                  bool
	NoIgnoreParent            bool
	NoIgnoreDot               bool
	NoIgnoreVCS               bool
	NoIgnoreGlobal            bool
	NoIgnoreExclude           bool
	NoRequireGit              bool
	IgnoreFileCaseInsensitive bool
	IgnoreFiles               []string
	CustomIgnoreFiles         []string

	// OverrideRoot anchors the override globs; the working directory when
	// empty
	OverrideRoot        string
	Globs               []string
	GlobCaseInsensitive bool
	Types               []string
	TypesNot            []string
	TypeAdd             []string
	TypeClear           []string

	Tracker *walker.SkippedTracker
	Logger  utils.Logger
}

// ConfigureWalker builds a walker from the config. Explicit ignore files
// that fail to load only produce a warning, but bad globs and unknown file
// types are errors.
func ConfigureWalker(cfg WalkerConfig, infoLog InfoLogger) (*walker.Builder, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("no paths to walk")
	}

	ov, err := BuildOverrides(cfg)
	if err != nil {
		return nil, err
	}
	if !ov.IsEmpty() {
		infoLog("Using %d override globs.", len(cfg.Globs))
	}

	ft, err := BuildTypes(cfg)
	if err != nil {
		return nil, err
	}

	// --- Ignore sources ---
	ignoreOptions := []ignore.Option{
		ignore.WithOverrides(ov),
		ignore.WithTypes(ft),
		ignore.WithHidden(!cfg.Hidden),
		ignore.WithIgnoreFiles(!cfg.NoIgnore && !cfg.NoIgnoreDot),
		ignore.WithParents(!cfg.NoIgnore && !cfg.NoIgnoreParent),
		ignore.WithGitIgnore(!cfg.NoIgnore && !cfg.NoIgnoreVCS),
		ignore.WithGitGlobal(!cfg.NoIgnore && !cfg.NoIgnoreVCS && !cfg.NoIgnoreGlobal),
		ignore.WithGitExclude(!cfg.NoIgnore && !cfg.NoIgnoreVCS && !cfg.NoIgnoreExclude),
		ignore.WithRequireGit(!cfg.NoRequireGit),
		ignore.WithIgnoreCaseInsensitive(cfg.IgnoreFileCaseInsensitive),
	}
	if !cfg.NoIgnore {
		for _, name := range cfg.CustomIgnoreFiles {
			ignoreOptions = append(ignoreOptions, ignore.WithCustomIgnoreFilename(name))
		}
	}

	if cfg.Hidden {
		infoLog("Including hidden files/directories.")
	} else {
		infoLog("Ignoring hidden files/directories (starting with '.').")
	}
	if cfg.NoIgnore {
		infoLog("Not respecting any ignore files.")
	}

	// --- Walk options ---
	walkOptions := []walker.Option{
		walker.WithIgnoreOptions(ignoreOptions...),
		walker.WithThreads(cfg.Threads),
		walker.WithMaxDepth(cfg.MaxDepth),
		walker.WithMaxFilesize(cfg.MaxFilesize),
		walker.WithFollowLinks(cfg.FollowLinks),
		walker.WithSameFileSystem(cfg.SameFileSystem),
		walker.WithSkipStdout(true),
	}
	if cfg.Logger != nil {
		walkOptions = append(walkOptions, walker.WithLogger(cfg.Logger))
	}
	if cfg.Sort {
		walkOptions = append(walkOptions, walker.WithSortByFilePath(strings.Compare))
	}
	if cfg.Tracker != nil {
		walkOptions = append(walkOptions, walker.WithSkipHook(cfg.Tracker.Hook()))
	}
	if cfg.MaxFilesize >= 0 {
		infoLog("Ignoring files larger than %d bytes.", cfg.MaxFilesize)
	}

	b := walker.NewBuilder(cfg.Paths[0], walkOptions...)
	for _, path := range cfg.Paths[1:] {
		b.Add(path)
	}

	if !cfg.NoIgnore {
		for _, path := range cfg.IgnoreFiles {
			if err := b.AddIgnore(path); err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Warn("Ignore file '%s': %v", path, err)
				}
				continue
			}
			infoLog("Using ignore file: %s", path)
		}
	}

	return b, nil
}

// BuildOverrides compiles the override globs
func BuildOverrides(cfg WalkerConfig) (*overrides.Override, error) {
	if len(cfg.Globs) == 0 {
		return overrides.Empty(), nil
	}

	root := cfg.OverrideRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error resolving override root: %w", err)
		}
		root = wd
	}

	b := overrides.NewBuilder(root).CaseInsensitive(cfg.GlobCaseInsensitive)
	for _, glob := range cfg.Globs {
		if err := b.Add(glob); err != nil {
			return nil, fmt.Errorf("error adding glob %q: %w", glob, err)
		}
	}

	ov, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("error building overrides: %w", err)
	}

	return ov, nil
}

// BuildTypes compiles the file type selection on top of the default
// definitions
func BuildTypes(cfg WalkerConfig) (*types.Types, error) {
	b, err := TypesBuilder(cfg)
	if err != nil {
		return nil, err
	}
	for _, name := range cfg.Types {
		b.Select(name)
	}
	for _, name := range cfg.TypesNot {
		b.Negate(name)
	}

	ft, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("error building file types: %w", err)
	}

	return ft, nil
}

// TypesBuilder returns the default definitions with the config's additions
// and clears applied
func TypesBuilder(cfg WalkerConfig) (*types.Builder, error) {
	b := types.NewBuilder().AddDefaults()
	for _, name := range cfg.TypeClear {
		b.Clear(name)
	}
	for _, def := range cfg.TypeAdd {
		if err := b.AddDef(def); err != nil {
			return nil, fmt.Errorf("error adding file type %q: %w", def, err)
		}
	}

	return b, nil
}
