package walker

import (
	"os"
	"slices"

	"github.com/bethropolis/ignorewalk/internal/errors"
)

// dirList holds the entries of one open directory that are still to be
// yielded.
type dirList struct {
	dir     string
	id      fileID
	hasID   bool
	entries []*DirEntry
	err     error
}

// dirIter walks one root depth first and yields every entry, or an error,
// in pre-order. Errors carry the depth at which they occurred.
type dirIter struct {
	root    string
	opts    *walkOptions
	started bool
	stack   []*dirList
	rootDev uint64
	hasDev  bool
	// pushed is set when the entry yielded last had its contents pushed.
	pushed bool
}

func newDirIter(root string, opts *walkOptions) *dirIter {
	return &dirIter{root: root, opts: opts}
}

func (it *dirIter) next() (*DirEntry, error, bool) {
	it.pushed = false

	if !it.started {
		it.started = true
		// Roots are always followed so a symlinked root is walked.
		ent, err := newEntryFromPath(it.root, 0, true)
		if err != nil {
			return nil, err, true
		}
		if it.opts.sameFileSystem {
			dev, err := deviceNum(it.root)
			if err != nil {
				return nil, errors.WithPath(it.root, errors.WithDepth(0, errors.IO(err))), true
			}
			it.rootDev, it.hasDev = dev, true
		}
		if ent.IsDir() {
			it.push(ent)
		}

		return ent, nil, true
	}

	for len(it.stack) > 0 {
		top := it.stack[len(it.stack)-1]
		if top.err != nil {
			err := top.err
			top.err = nil
			return nil, err, true
		}
		if len(top.entries) == 0 {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}

		ent := top.entries[0]
		top.entries = top.entries[1:]

		if it.opts.followLinks && ent.FileType()&os.ModeSymlink != 0 {
			followed, err := newEntryFromPath(ent.Path(), ent.Depth(), true)
			if err != nil {
				return nil, err, true
			}
			ent = followed
			if ent.IsDir() {
				if err := it.checkLoop(ent); err != nil {
					return nil, err, true
				}
			}
		}

		if ent.IsDir() {
			it.push(ent)
		}

		return ent, nil, true
	}

	return nil, nil, false
}

// skipCurrentDir drops the remaining contents of the directory yielded
// last.
func (it *dirIter) skipCurrentDir() {
	if it.pushed {
		it.stack = it.stack[:len(it.stack)-1]
		it.pushed = false
	}
}

// push reads the contents of the directory ent unless the depth limit or
// the file system boundary says not to descend.
func (it *dirIter) push(ent *DirEntry) {
	if it.opts.maxDepth >= 0 && ent.Depth() >= it.opts.maxDepth {
		return
	}
	if it.hasDev && ent.Depth() > 0 {
		dev, err := deviceNum(ent.Path())
		if err != nil || dev != it.rootDev {
			return
		}
	}

	list := &dirList{dir: ent.Path()}
	if it.opts.followLinks {
		if id, err := fileIDFromPath(ent.Path()); err == nil {
			list.id, list.hasID = id, true
		}
	}

	entries, err := readDir(ent.Path(), ent.Depth()+1)
	if err != nil {
		list.err = errors.WithPath(ent.Path(), errors.WithDepth(ent.Depth()+1, errors.IO(err)))
	}
	if it.opts.sorter != nil {
		slices.SortFunc(entries, it.opts.sorter)
	}
	list.entries = entries

	it.stack = append(it.stack, list)
	it.pushed = true
}

func (it *dirIter) checkLoop(ent *DirEntry) error {
	child, err := fileIDFromPath(ent.Path())
	if err != nil {
		return errors.WithPath(ent.Path(), errors.WithDepth(ent.Depth(), errors.IO(err)))
	}

	for i := len(it.stack) - 1; i >= 0; i-- {
		list := it.stack[i]
		if list.hasID && list.id == child {
			return errors.WithDepth(ent.Depth(), &errors.LoopError{Ancestor: list.dir, Child: ent.Path()})
		}
	}

	return nil
}

// readDir returns the entries of dir in directory order. Entries read
// before a failure are returned with the error.
func readDir(dir string, depth int) ([]*DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dents, err := f.ReadDir(-1)
	entries := make([]*DirEntry, 0, len(dents))
	for _, d := range dents {
		entries = append(entries, newEntryFromDir(dir, d, depth))
	}

	return entries, err
}

type eventKind int

const (
	eventDir eventKind = iota
	eventFile
	eventExit
	eventError
)

type event struct {
	kind eventKind
	ent  *DirEntry
	err  error
}

// eventIter turns the flat output of a dirIter into directory, file and
// exit events. Every directory event is matched by exactly one exit event.
type eventIter struct {
	it    *dirIter
	depth int
	// held is an item read ahead while exit events were still due.
	held    *event
	hasHeld bool
	done    bool
}

func newEventIter(it *dirIter) *eventIter {
	return &eventIter{it: it}
}

func (e *eventIter) next() (event, bool) {
	var (
		item  event
		depth int
		ok    bool
	)
	if e.hasHeld {
		item, ok = *e.held, true
		e.hasHeld = false
	} else if !e.done {
		ent, err, more := e.it.next()
		switch {
		case !more:
			e.done = true
		case err != nil:
			item, ok = event{kind: eventError, err: err}, true
		default:
			item, ok = event{ent: ent}, true
		}
	}

	switch {
	case !ok:
		depth = 0
	case item.err != nil:
		depth, _ = errors.Depth(item.err)
	default:
		depth = item.ent.Depth()
	}

	if depth < e.depth {
		e.depth--
		if ok {
			e.held, e.hasHeld = &item, true
		}
		return event{kind: eventExit}, true
	}
	e.depth = depth

	if !ok {
		return event{}, false
	}
	if item.err != nil {
		return item, true
	}
	if item.ent.IsDir() {
		e.depth++
		item.kind = eventDir
		return item, true
	}
	item.kind = eventFile

	return item, true
}

// skipCurrentDir stops the walk from descending into the directory of the
// last directory event.
func (e *eventIter) skipCurrentDir() {
	e.it.skipCurrentDir()
}
