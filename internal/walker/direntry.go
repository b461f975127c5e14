package walker

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bethropolis/ignorewalk/internal/errors"
)

// DirEntry is a file or directory found while walking.
type DirEntry struct {
	path string
	// typ holds the type bits. For a followed link they describe the target.
	typ        fs.FileMode
	followLink bool
	depth      int
	info       fs.FileInfo
	err        error
}

// newEntryFromPath stats path at the given depth. With follow set,
// symbolic links are resolved.
func newEntryFromPath(path string, depth int, follow bool) (*DirEntry, error) {
	var (
		info fs.FileInfo
		err  error
	)
	if follow {
		info, err = os.Stat(path)
	} else {
		info, err = os.Lstat(path)
	}
	if err != nil {
		return nil, errors.WithPath(path, errors.WithDepth(depth, errors.IO(err)))
	}

	return &DirEntry{
		path:       path,
		typ:        info.Mode().Type(),
		followLink: follow && isSymlink(path),
		depth:      depth,
		info:       info,
	}, nil
}

// newEntryFromDir wraps an entry read from the directory dir.
func newEntryFromDir(dir string, d fs.DirEntry, depth int) *DirEntry {
	return &DirEntry{
		path:  filepath.Join(dir, d.Name()),
		typ:   d.Type(),
		depth: depth,
	}
}

// Path returns the path of the entry, built from the root it was found
// under.
func (d *DirEntry) Path() string { return d.path }

// PathIsSymlink reports whether the path itself is a symbolic link, even
// when the walk followed it.
func (d *DirEntry) PathIsSymlink() bool {
	return d.typ&fs.ModeSymlink != 0 || d.followLink
}

// FileType returns the type bits of the entry.
func (d *DirEntry) FileType() fs.FileMode { return d.typ }

// IsDir reports whether the entry is a directory. A link the walk did not
// follow is never a directory.
func (d *DirEntry) IsDir() bool { return d.typ.IsDir() }

// FileName returns the last component of the path.
func (d *DirEntry) FileName() string { return filepath.Base(d.path) }

// Depth returns how far below its root the entry is. Roots are at 0.
func (d *DirEntry) Depth() int { return d.depth }

// Metadata returns file info for the entry, following the link when the
// walk did.
func (d *DirEntry) Metadata() (fs.FileInfo, error) {
	if d.info != nil {
		return d.info, nil
	}

	var (
		info fs.FileInfo
		err  error
	)
	if d.followLink {
		info, err = os.Stat(d.path)
	} else {
		info, err = os.Lstat(d.path)
	}
	if err != nil {
		return nil, errors.WithPath(d.path, errors.WithDepth(d.depth, errors.IO(err)))
	}
	d.info = info

	return info, nil
}

// Ino returns the inode number of the entry, where the platform has one.
func (d *DirEntry) Ino() (uint64, bool) {
	info, err := d.Metadata()
	if err != nil {
		return 0, false
	}

	return inoOf(info)
}

// Err returns the non-fatal error hit while reading this directory's
// ignore files, if any.
func (d *DirEntry) Err() error { return d.err }

func (d *DirEntry) String() string { return d.path }

func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}
