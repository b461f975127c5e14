package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Version is the current version of ignorewalk
const Version = "1.0.0"

// DefaultConfigFile is read from the working directory when --config is not
// given.
const DefaultConfigFile = ".ignorewalk.yaml"

// Config holds all application configuration settings
type Config struct {
	// Roots to walk
	Paths []string

	// Logging settings
	Verbose     bool
	Quiet       bool
	LogLevel    string
	NoColor     bool
	UseColors   bool
	OutputFile  string
	ShowSkipped bool

	// Walk settings
	Parallel       bool
	Threads        int
	MaxDepth       int
	MaxFilesize    int64
	FollowLinks    bool
	SameFileSystem bool
	Sort           bool
	ShowProgress   bool
	Timeout        time.Duration

	// Filtering settings
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
	Globs                     []string
	GlobCaseInsensitive       bool
	Types                     []string
	TypesNot                  []string
	TypeAdd                   []string
	TypeClear                 []string
	TypeList                  bool

	// Output format
	JSONOutput     bool
	MarkdownOutput bool

	// ConfigFile is the YAML file whose values fill in flags not given on
	// the command line
	ConfigFile string
}

// NewRootCommand creates the root command. run is called with the parsed
// configuration.
func NewRootCommand(run func(*Config) error) *cobra.Command {
	c := &Config{}

	cmd := &cobra.Command{
		Use:   "ignorewalk [flags] [path ...]",
		Short: "List the files of a directory tree that ignore rules keep",
		Long: `ignorewalk walks one or more directory trees and prints every path that
survives .gitignore, .ignore, .git/info/exclude, the global git excludes
file, explicit ignore files, override globs and file type filters.`,
		Version:      Version,
		SilenceUsage: true,
		// main prints the error itself
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			c.Paths = args
			if len(c.Paths) == 0 {
				c.Paths = []string{"."}
			}
			c.finalize()
			return run(c)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&c.ConfigFile, "config", "", "YAML file with default flag values (default ./"+DefaultConfigFile+" if present)")
	flags.BoolVar(&c.Verbose, "verbose", false, "Enable verbose logging (DEBUG, WARN, ERROR)")
	flags.BoolVar(&c.Quiet, "quiet", false, "Suppress INFO messages (only show WARN, ERROR)")
	flags.StringVar(&c.LogLevel, "log-level", "", "Set the logging level (DEBUG, INFO, WARN, ERROR)")
	flags.BoolVar(&c.NoColor, "no-color", false, "Disable color output")
	flags.StringVar(&c.OutputFile, "output", "", "Output to file instead of stdout")
	flags.BoolVar(&c.ShowSkipped, "show-skipped", false, "Show a list of skipped files/directories and reasons at the end")

	flags.BoolVar(&c.Parallel, "parallel", false, "Walk with a pool of workers; output order is not stable")
	flags.IntVar(&c.Threads, "threads", 0, "Number of workers for --parallel (0 = default)")
	flags.IntVar(&c.MaxDepth, "max-depth", -1, "Descend at most this many levels below each path (-1 = no limit)")
	flags.Int64Var(&c.MaxFilesize, "max-filesize", -1, "Skip files larger than this many bytes (-1 = no limit)")
	flags.BoolVarP(&c.FollowLinks, "follow", "L", false, "Follow symbolic links")
	flags.BoolVar(&c.SameFileSystem, "one-file-system", false, "Do not descend into directories on other file systems")
	flags.BoolVar(&c.Sort, "sort", false, "Sort entries by path (sequential walk only)")
	flags.BoolVar(&c.ShowProgress, "progress", false, "Show progress information")
	flags.DurationVar(&c.Timeout, "timeout", 0, "Maximum execution time (e.g., '30s', '5m')")

	flags.BoolVar(&c.Hidden, "hidden", false, "Include hidden files and directories")
	flags.BoolVar(&c.NoIgnore, "no-ignore", false, "Do not respect any ignore files")
	flags.BoolVar(&c.NoIgnoreParent, "no-ignore-parent", false, "Do not read ignore files in parent directories")
	flags.BoolVar(&c.NoIgnoreDot, "no-ignore-dot", false, "Do not respect .ignore files")
	flags.BoolVar(&c.NoIgnoreVCS, "no-ignore-vcs", false, "Do not respect .gitignore, .git/info/exclude or the global excludes file")
	flags.BoolVar(&c.NoIgnoreGlobal, "no-ignore-global", false, "Do not respect the global git excludes file")
	flags.BoolVar(&c.NoIgnoreExclude, "no-ignore-exclude", false, "Do not respect .git/info/exclude")
	flags.BoolVar(&c.NoRequireGit, "no-require-git", false, "Respect git ignore rules outside of git repositories")
	flags.BoolVar(&c.IgnoreFileCaseInsensitive, "ignore-file-case-insensitive", false, "Match ignore file globs case insensitively")
	flags.StringSliceVar(&c.IgnoreFiles, "ignore-file", nil, "Additional ignore file in gitignore syntax (repeatable)")
	flags.StringSliceVar(&c.CustomIgnoreFiles, "custom-ignore-filename", nil, "Extra per-directory ignore file name (repeatable)")
	flags.StringArrayVarP(&c.Globs, "glob", "g", nil, "Include paths matching glob; prefix with ! to exclude (repeatable)")
	flags.BoolVar(&c.GlobCaseInsensitive, "glob-case-insensitive", false, "Match --glob case insensitively")
	flags.StringSliceVarP(&c.Types, "type", "t", nil, "Only include files of this type (repeatable)")
	flags.StringSliceVarP(&c.TypesNot, "type-not", "T", nil, "Exclude files of this type (repeatable)")
	flags.StringArrayVar(&c.TypeAdd, "type-add", nil, "Add a file type definition, e.g. 'foo:*.foo' or 'src:include:go,rust'")
	flags.StringSliceVar(&c.TypeClear, "type-clear", nil, "Clear the globs of a file type")
	flags.BoolVar(&c.TypeList, "type-list", false, "Show all supported file types and exit")

	flags.BoolVar(&c.JSONOutput, "json", false, "Output results in JSON format")
	flags.BoolVar(&c.MarkdownOutput, "markdown", false, "Output results in Markdown format")

	return cmd
}

// load applies the config file to every flag the user did not set.
func (c *Config) load(cmd *cobra.Command) error {
	path, explicit := c.ConfigFile, true
	if path == "" {
		path, explicit = DefaultConfigFile, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return applyFile(cmd, data)
}

// applyFile sets flags from a YAML mapping of flag names to values. Lists
// set repeatable flags once per element.
func applyFile(cmd *cobra.Command, data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	flags := cmd.Flags()
	for _, key := range keys {
		if key == "config" {
			continue
		}
		flag := flags.Lookup(key)
		if flag == nil {
			return fmt.Errorf("unknown key %q in config file", key)
		}
		if flag.Changed {
			continue
		}

		values := []any{raw[key]}
		if list, ok := raw[key].([]any); ok {
			values = list
		}
		for _, v := range values {
			if err := flags.Set(key, fmt.Sprint(v)); err != nil {
				return fmt.Errorf("invalid value for %q in config file: %w", key, err)
			}
		}
	}

	return nil
}

// finalize derives settings that depend on others
func (c *Config) finalize() {
	if c.JSONOutput && c.MarkdownOutput {
		c.MarkdownOutput = false
	}
	c.UseColors = !c.NoColor && isatty.IsTerminal(os.Stderr.Fd()) && c.OutputFile == ""
}
