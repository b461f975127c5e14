//go:build unix

package walker

import (
	"io/fs"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// fileID identifies a file independent of the path used to reach it.
type fileID struct {
	dev uint64
	ino uint64
}

func fileIDFromPath(path string) (fileID, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return fileID{}, &fs.PathError{Op: "stat", Path: path, Err: err}
	}

	return fileID{dev: uint64(st.Dev), ino: uint64(st.Ino)}, nil
}

// stdoutID returns the identity of standard output when it is redirected
// to a regular file.
func stdoutID() (fileID, bool) {
	var st unix.Stat_t
	if err := unix.Fstat(int(os.Stdout.Fd()), &st); err != nil {
		return fileID{}, false
	}
	if st.Mode&unix.S_IFMT != unix.S_IFREG {
		return fileID{}, false
	}

	return fileID{dev: uint64(st.Dev), ino: uint64(st.Ino)}, true
}

func deviceNum(path string) (uint64, error) {
	id, err := fileIDFromPath(path)
	if err != nil {
		return 0, err
	}

	return id.dev, nil
}

func inoOf(info fs.FileInfo) (uint64, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}

	return uint64(st.Ino), true
}
