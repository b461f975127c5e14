package walker

import (
	"sync/atomic"

	"github.com/bethropolis/ignorewalk/internal/errors"
	"github.com/bethropolis/ignorewalk/internal/ignore"
	"github.com/bethropolis/ignorewalk/internal/utils"
)

// ProgressStats holds the counters of a running walk.
type ProgressStats struct {
	Dirs    int64
	Files   int64
	Skipped int64
	Errors  int64
}

// stats counts what a walk yielded and left out. Both engines share it.
type stats struct {
	dirs    atomic.Int64
	files   atomic.Int64
	skipped atomic.Int64
	errors  atomic.Int64
}

func (s *stats) yielded(ent *DirEntry) {
	if ent.IsDir() {
		s.dirs.Add(1)
	} else {
		s.files.Add(1)
	}
}

func (s *stats) snapshot() ProgressStats {
	return ProgressStats{
		Dirs:    s.dirs.Load(),
		Files:   s.files.Load(),
		Skipped: s.skipped.Load(),
		Errors:  s.errors.Load(),
	}
}

// entryFilter decides which entries below a root are left out.
type entryFilter struct {
	logger      utils.Logger
	debug       bool
	maxFilesize int64
	stdout      *fileID
	filter      Filter
	hook        SkipHook
	stats       *stats
}

func newEntryFilter(opts *walkOptions, st *stats) *entryFilter {
	f := &entryFilter{
		logger:      opts.logger,
		debug:       utils.DebugEnabled(opts.logger),
		maxFilesize: opts.maxFilesize,
		filter:      opts.filter,
		hook:        opts.skipHook,
		stats:       st,
	}
	if opts.skipStdout {
		if id, ok := stdoutID(); ok {
			f.stdout = &id
		}
	}

	return f
}

// skipEntry reports whether ent is left out. Roots are never left out.
// Ignore rules are checked first because they need no file system access.
func (f *entryFilter) skipEntry(ig *ignore.Ignore, ent *DirEntry) (bool, error) {
	if ent.Depth() == 0 {
		return false, nil
	}

	if f.shouldSkipEntry(ig, ent) {
		return true, nil
	}

	if f.stdout != nil && !ent.IsDir() {
		same, err := pathEquals(ent, *f.stdout)
		if err != nil {
			return false, err
		}
		if same {
			f.logger.Debug("walker.skipEntry: skipping %s: standard output target", ent.Path())
			f.skipped(ent, ReasonSkippedStdout)
			return true, nil
		}
	}

	if f.maxFilesize >= 0 && !ent.IsDir() && f.skipFilesize(ent) {
		f.skipped(ent, ReasonSkippedSizeLimit)
		return true, nil
	}

	if f.filter != nil && !f.filter(ent) {
		f.logger.Debug("walker.skipEntry: skipping %s: rejected by filter", ent.Path())
		f.skipped(ent, ReasonSkippedFiltered)
		return true, nil
	}

	return false, nil
}

func (f *entryFilter) shouldSkipEntry(ig *ignore.Ignore, ent *DirEntry) bool {
	m := ig.MatchedDirEntry(ent.Path(), ent.IsDir())
	switch {
	case m.IsIgnore():
		if f.debug {
			f.logger.Debug("walker.skipEntry: ignoring %s: %v", ent.Path(), m.Value())
		}
		f.skipped(ent, reasonFor(m.Value()))
		return true
	case m.IsWhitelist() && f.debug:
		f.logger.Debug("walker.skipEntry: whitelisting %s: %v", ent.Path(), m.Value())
	}

	return false
}

func (f *entryFilter) skipFilesize(ent *DirEntry) bool {
	info, err := ent.Metadata()
	if err != nil {
		return false
	}
	if info.Size() > f.maxFilesize {
		f.logger.Debug("walker.skipEntry: ignoring %s: %d bytes", ent.Path(), info.Size())
		return true
	}

	return false
}

func (f *entryFilter) skipped(ent *DirEntry, reason SkippedReason) {
	f.stats.skipped.Add(1)
	if f.hook != nil {
		f.hook(ent.Path(), reason, ent.IsDir())
	}
}

func reasonFor(m ignore.IgnoreMatch) SkippedReason {
	switch m.Kind() {
	case ignore.KindHidden:
		return ReasonIgnoredHidden
	case ignore.KindOverride:
		return ReasonIgnoredOverride
	case ignore.KindTypes:
		return ReasonIgnoredType
	default:
		return ReasonIgnoredRule
	}
}

func pathEquals(ent *DirEntry, id fileID) (bool, error) {
	other, err := fileIDFromPath(ent.Path())
	if err != nil {
		return false, errors.WithPath(ent.Path(), errors.WithDepth(ent.Depth(), errors.IO(err)))
	}

	return other == id, nil
}

// checkSymlinkLoop reports an error when the directory at childPath is the
// same as one of the directories the walk is already inside.
func checkSymlinkLoop(parent *ignore.Ignore, childPath string, depth int) error {
	child, err := fileIDFromPath(childPath)
	if err != nil {
		return errors.WithPath(childPath, errors.WithDepth(depth, errors.IO(err)))
	}

	for ig := range parent.Parents() {
		if ig.IsAbsoluteParent() {
			break
		}
		id, err := fileIDFromPath(ig.Path())
		if err != nil {
			return errors.WithPath(childPath, errors.WithDepth(depth, errors.IO(err)))
		}
		if id == child {
			return errors.WithDepth(depth, &errors.LoopError{Ancestor: ig.Path(), Child: childPath})
		}
	}

	return nil
}
