//go:build !unix

package walker

import (
	"io/fs"
	"path/filepath"
)

// fileID identifies a file by its resolved absolute path where no device
// and inode numbers are available.
type fileID struct {
	path string
}

func fileIDFromPath(path string) (fileID, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileID{}, err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fileID{}, err
	}

	return fileID{path: resolved}, nil
}

func stdoutID() (fileID, bool) { return fileID{}, false }

// deviceNum is unsupported here, so every directory counts as being on the
// same file system.
func deviceNum(path string) (uint64, error) { return 0, nil }

func inoOf(info fs.FileInfo) (uint64, bool) { return 0, false }
