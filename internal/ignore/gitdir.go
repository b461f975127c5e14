package ignore

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bethropolis/ignorewalk/internal/errors"
)

// resolveGitCommondir returns the directory holding info/exclude for the
// repository whose work tree is dir. For a linked work tree, .git is a file
// pointing at the real git dir, and that dir's commondir file points at the
// shared one. It returns "" with a nil error when a linked work tree cannot
// be resolved.
func resolveGitCommondir(dir string, gitInfo fs.FileInfo) (string, error) {
	gitPath := filepath.Join(dir, ".git")
	if gitInfo == nil || !gitInfo.Mode().IsRegular() {
		return gitPath, nil
	}

	line, ok, err := firstLine(gitPath)
	if err != nil {
		return "", errors.WithPath(gitPath, errors.IO(err))
	}
	realGitDir, found := strings.CutPrefix(line, "gitdir: ")
	if !ok || !found {
		return "", nil
	}
	realGitDir = strings.TrimSpace(realGitDir)
	if !filepath.IsAbs(realGitDir) {
		realGitDir = filepath.Join(dir, realGitDir)
	}

	commondirPath := filepath.Join(realGitDir, "commondir")
	commondir, ok, err := firstLine(commondirPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", errors.WithPath(commondirPath, errors.IO(err))
	}
	if !ok {
		return "", nil
	}
	commondir = strings.TrimSpace(commondir)
	if filepath.IsAbs(commondir) {
		return commondir, nil
	}

	return filepath.Join(realGitDir, commondir), nil
}

// firstLine returns the first line of the file at path. ok is false when
// the file is empty.
func firstLine(path string) (line string, ok bool, err error) {
	file, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return "", false, scanner.Err()
	}

	return scanner.Text(), true, nil
}
