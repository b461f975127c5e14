package gitignore

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/ini.v1"
)

var excludesFileRe = regexp.MustCompile(`(?im)^\s*excludesfile\s*=\s*"?\s*(\S+?)\s*"?\s*$`)

// GlobalExcludesPath returns the path of the user's global git excludes
// file. It prefers core.excludesFile from ~/.gitconfig, then from the XDG
// git config, and otherwise falls back to the default XDG location.
func GlobalExcludesPath() (string, bool) {
	if home, err := homedir.Dir(); err == nil {
		if path, ok := excludesFileFromConfig(filepath.Join(home, ".gitconfig")); ok {
			return path, true
		}
	}
	if dir, ok := xdgGitConfigDir(); ok {
		if path, ok := excludesFileFromConfig(filepath.Join(dir, "config")); ok {
			return path, true
		}
		return filepath.Join(dir, "ignore"), true
	}

	return "", false
}

func xdgGitConfigDir() (string, bool) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git"), true
	}
	home, err := homedir.Dir()
	if err != nil || home == "" {
		return "", false
	}

	return filepath.Join(home, ".config", "git"), true
}

func excludesFileFromConfig(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	value, ok := parseExcludesFile(data)
	if !ok {
		return "", false
	}
	expanded, err := homedir.Expand(value)
	if err != nil {
		return value, true
	}

	return expanded, true
}

// parseExcludesFile extracts core.excludesFile from git config contents.
// Files the INI parser rejects are scanned line by line instead.
func parseExcludesFile(data []byte) (string, bool) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:             true,
		AllowBooleanKeys:        true,
		SkipUnrecognizableLines: true,
		IgnoreInlineComment:     true,
	}, data)
	if err == nil {
		if value, ok := iniExcludesFile(cfg); ok {
			return value, true
		}
	}

	m := excludesFileRe.FindSubmatch(data)
	if m == nil {
		return "", false
	}

	return string(m[1]), true
}

func iniExcludesFile(cfg *ini.File) (string, bool) {
	sections := []*ini.Section{}
	if core, err := cfg.GetSection("core"); err == nil {
		sections = append(sections, core)
	}
	sections = append(sections, cfg.Sections()...)

	for _, section := range sections {
		if !section.HasKey("excludesfile") {
			continue
		}
		value := strings.Trim(strings.TrimSpace(section.Key("excludesfile").String()), `"`)
		if value != "" {
			return strings.TrimSpace(value), true
		}
	}

	return "", false
}
