package walker

import (
	"iter"
	"os"

	"github.com/bethropolis/ignorewalk/internal/errors"
	"github.com/bethropolis/ignorewalk/internal/gitignore"
	"github.com/bethropolis/ignorewalk/internal/ignore"
)

// Builder configures a walk over one or more roots. The same builder can
// produce any number of sequential or parallel walks.
type Builder struct {
	paths   []string
	ignores []*gitignore.Gitignore
	opts    walkOptions
}

// NewBuilder returns a builder for a walk rooted at path. Standard filters
// are on by default.
func NewBuilder(path string, opts ...Option) *Builder {
	b := &Builder{
		paths: []string{path},
		opts:  defaultOptions(),
	}
	for _, opt := range opts {
		opt(&b.opts)
	}

	return b
}

// Add adds another root. Roots are walked in the order they were added.
func (b *Builder) Add(path string) *Builder {
	b.paths = append(b.paths, path)
	return b
}

// Apply applies more options to the builder.
func (b *Builder) Apply(opts ...Option) *Builder {
	for _, opt := range opts {
		opt(&b.opts)
	}
	return b
}

// AddIgnore adds an ignore file that applies to every walk. Its rules are
// anchored at the directory holding it. Files added later take
// precedence. On a partial error the rules that parsed are still used.
func (b *Builder) AddIgnore(path string) error {
	gi, err := gitignore.New(path)
	b.ignores = append(b.ignores, gi)
	b.opts.logger.Debug("walker.AddIgnore: loaded %d rules from %s", gi.Len(), path)

	return err
}

func (b *Builder) rootIgnore() *ignore.Ignore {
	opts := make([]ignore.Option, 0, len(b.opts.ignoreOpts)+len(b.ignores)+1)
	opts = append(opts, ignore.WithLogger(b.opts.logger))
	opts = append(opts, b.opts.ignoreOpts...)
	for _, gi := range b.ignores {
		opts = append(opts, ignore.WithExplicitIgnore(gi))
	}

	return ignore.NewBuilder(opts...).Build()
}

// Build returns a sequential walk.
func (b *Builder) Build() *Walk {
	opts := b.opts
	root := b.rootIgnore()
	st := &stats{}

	return &Walk{
		roots:  append([]string(nil), b.paths...),
		igRoot: root,
		ig:     root,
		opts:   &opts,
		filter: newEntryFilter(&opts, st),
		stats:  st,
	}
}

// BuildParallel returns a parallel walk.
func (b *Builder) BuildParallel() *WalkParallel {
	opts := b.opts
	root := b.rootIgnore()
	st := &stats{}

	return &WalkParallel{
		paths:  append([]string(nil), b.paths...),
		igRoot: root,
		opts:   &opts,
		filter: newEntryFilter(&opts, st),
		stats:  st,
	}
}

// Result is one item of a sequential walk: an entry or an error.
type Result struct {
	Entry *DirEntry
	Err   error
}

// Walk is a sequential, depth first walk. Entries come out in a
// deterministic order when a sort option is set.
type Walk struct {
	roots  []string
	cur    *eventIter
	igRoot *ignore.Ignore
	ig     *ignore.Ignore
	opts   *walkOptions
	filter *entryFilter
	stats  *stats
}

// Next returns the next entry or error. ok is false once the walk is over.
func (w *Walk) Next() (res Result, ok bool) {
	for {
		if w.cur == nil {
			if len(w.roots) == 0 {
				return Result{}, false
			}
			root := w.roots[0]
			w.roots = w.roots[1:]
			w.cur = newEventIter(newDirIter(root, w.opts))
			w.opts.logger.Debug("walker.Walk: starting root %s", root)

			if isDirPath(root) {
				ig, err := w.igRoot.AddParents(root)
				w.ig = ig
				if err != nil {
					return w.fail(err), true
				}
			} else {
				w.ig = w.igRoot
			}
			continue
		}

		ev, more := w.cur.next()
		if !more {
			w.cur = nil
			continue
		}

		switch ev.kind {
		case eventError:
			return w.fail(ev.err), true
		case eventExit:
			w.ig = w.ig.Parent()
		case eventDir:
			skip, err := w.filter.skipEntry(w.ig, ev.ent)
			if err != nil || skip {
				// An exit event still follows, so something must be pushed.
				w.cur.skipCurrentDir()
				w.ig = w.ig.Placeholder(ev.ent.Path())
				if err != nil {
					return w.fail(err), true
				}
				continue
			}
			child, err := w.ig.AddChild(ev.ent.Path())
			w.ig = child
			ev.ent.err = err
			w.stats.yielded(ev.ent)
			return Result{Entry: ev.ent}, true
		case eventFile:
			skip, err := w.filter.skipEntry(w.ig, ev.ent)
			if err != nil {
				return w.fail(err), true
			}
			if skip {
				continue
			}
			w.stats.yielded(ev.ent)
			return Result{Entry: ev.ent}, true
		}
	}
}

// All iterates over the rest of the walk.
func (w *Walk) All() iter.Seq2[*DirEntry, error] {
	return func(yield func(*DirEntry, error) bool) {
		for {
			res, ok := w.Next()
			if !ok || !yield(res.Entry, res.Err) {
				return
			}
		}
	}
}

// Stats returns the counters of the walk so far.
func (w *Walk) Stats() ProgressStats { return w.stats.snapshot() }

func (w *Walk) fail(err error) Result {
	w.stats.errors.Add(1)
	w.opts.logger.Debug("walker.Walk: %v", err)
	return Result{Err: err}
}

func isDirPath(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsPermission reports whether err was caused by missing permissions.
func IsPermission(err error) bool {
	return errors.Is(err, os.ErrPermission)
}
