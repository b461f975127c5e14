// Package walker walks directory trees while respecting ignore rules
package walker

import (
	"sync"
)

// WalkState tells a parallel walk how to proceed after visiting an entry.
type WalkState int

const (
	// Continue walking as normal.
	Continue WalkState = iota
	// Skip descending into the directory just visited. It has no effect
	// for other entries.
	Skip
	// Quit the whole walk as soon as possible.
	Quit
)

func (s WalkState) String() string {
	switch s {
	case Continue:
		return "continue"
	case Skip:
		return "skip"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// IsContinue reports whether s is Continue.
func (s WalkState) IsContinue() bool { return s == Continue }

// IsQuit reports whether s is Quit.
func (s WalkState) IsQuit() bool { return s == Quit }

// ParallelVisitor receives entries, or errors, from one worker of a
// parallel walk. Exactly one of ent and err is set.
type ParallelVisitor interface {
	Visit(ent *DirEntry, err error) WalkState
}

// ParallelVisitorBuilder makes one visitor per worker.
type ParallelVisitorBuilder interface {
	Build() ParallelVisitor
}

// VisitFunc adapts a function to ParallelVisitor.
type VisitFunc func(ent *DirEntry, err error) WalkState

func (f VisitFunc) Visit(ent *DirEntry, err error) WalkState { return f(ent, err) }

type visitFuncBuilder func() VisitFunc

func (f visitFuncBuilder) Build() ParallelVisitor { return f() }

// Filter reports whether an entry should be kept. A rejected directory is
// not descended into.
type Filter func(ent *DirEntry) bool

// SkipHook is told about every entry a walk leaves out.
type SkipHook func(path string, reason SkippedReason, isDir bool)

// SkippedReason clarifies why a file/directory was not yielded.
type SkippedReason string

const (
	ReasonIgnoredHidden    SkippedReason = "Ignored (Hidden Rule)"
	ReasonIgnoredRule      SkippedReason = "Ignored (Ignore File Rule)"
	ReasonIgnoredOverride  SkippedReason = "Ignored (Override Glob)"
	ReasonIgnoredType      SkippedReason = "Filtered (File Type)"
	ReasonSkippedStdout    SkippedReason = "Skipped (Standard Output Target)"
	ReasonSkippedSizeLimit SkippedReason = "Skipped (Size Limit Exceeded)"
	ReasonSkippedFiltered  SkippedReason = "Skipped (Filter Predicate)"
	ReasonSkippedPermError SkippedReason = "Skipped (Permission Error)"
	ReasonSkippedWalkError SkippedReason = "Skipped (Walk Error)"
	ReasonSkippedLoop      SkippedReason = "Skipped (Symlink Loop)"
)

// SkippedItem holds information about a skipped path.
type SkippedItem struct {
	Path   string        `json:"path"`
	Reason SkippedReason `json:"reason"`
	IsDir  bool          `json:"is_dir"`
}

// SkippedTracker is a struct to track skipped items
type SkippedTracker struct {
	items []SkippedItem
	mutex sync.Mutex
}

// NewSkippedTracker creates a new SkippedTracker
func NewSkippedTracker(capacity int) *SkippedTracker {
	return &SkippedTracker{
		items: make([]SkippedItem, 0, capacity),
	}
}

// Track adds a skipped item to the tracker
func (st *SkippedTracker) Track(path string, reason SkippedReason, isDir bool) {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.items = append(st.items, SkippedItem{Path: path, Reason: reason, IsDir: isDir})
}

// Hook returns a SkipHook that records into the tracker.
func (st *SkippedTracker) Hook() SkipHook {
	return st.Track
}

// Items returns a copy of the tracked skipped items
func (st *SkippedTracker) Items() []SkippedItem {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	return append([]SkippedItem(nil), st.items...)
}
