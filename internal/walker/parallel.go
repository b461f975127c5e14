package walker

import (
	"context"
	"fmt"
	"io/fs"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bethropolis/ignorewalk/internal/errors"
	"github.com/bethropolis/ignorewalk/internal/ignore"
	"golang.org/x/sync/errgroup"
)

const defaultThreads = 2

// WalkParallel walks its roots with a pool of workers. Each worker hands
// entries to its own visitor; there is no ordering between workers.
type WalkParallel struct {
	paths  []string
	igRoot *ignore.Ignore
	opts   *walkOptions
	filter *entryFilter
	stats  *stats

	progressFn       func(ProgressStats)
	progressInterval time.Duration
}

// WithProgress makes the walk report its counters to fn every interval
// while it runs, and once more when it is done.
func (w *WalkParallel) WithProgress(interval time.Duration, fn func(ProgressStats)) *WalkParallel {
	w.progressFn = fn
	w.progressInterval = interval
	return w
}

// Stats returns the counters of the walk so far.
func (w *WalkParallel) Stats() ProgressStats { return w.stats.snapshot() }

// Run walks the tree, calling mkf once per worker for its visitor.
func (w *WalkParallel) Run(mkf func() VisitFunc) {
	w.Visit(visitFuncBuilder(mkf))
}

// Visit walks the tree, asking builder for one visitor per worker. It
// returns once every worker has stopped.
func (w *WalkParallel) Visit(builder ParallelVisitorBuilder) {
	threads := w.threads()
	logger := w.opts.logger

	var initial []message
	{
		visitor := builder.Build()
		for _, path := range w.paths {
			var (
				rootDev uint64
				hasDev  bool
			)
			if w.opts.sameFileSystem {
				dev, err := deviceNum(path)
				if err != nil {
					w.stats.errors.Add(1)
					if visitor.Visit(nil, errors.WithPath(path, errors.IO(err))).IsQuit() {
						return
					}
					continue
				}
				rootDev, hasDev = dev, true
			}

			// Roots are always followed so a symlinked root is walked.
			ent, err := newEntryFromPath(path, 0, true)
			if err != nil {
				w.stats.errors.Add(1)
				if visitor.Visit(nil, err).IsQuit() {
					return
				}
				continue
			}
			initial = append(initial, message{work: &work{
				ent:     ent,
				ig:      w.igRoot,
				rootDev: rootDev,
				hasDev:  hasDev,
			}})
		}
		if len(initial) == 0 {
			return
		}
	}

	if w.progressFn != nil {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			w.reportProgress(ctx)
		}()
		defer func() {
			cancel()
			<-done
			w.progressFn(w.stats.snapshot())
		}()
	}

	logger.Debug("walker.WalkParallel: starting %d workers for %d roots", threads, len(initial))

	quitNow := &atomic.Bool{}
	activeWorkers := &atomic.Int64{}
	activeWorkers.Store(int64(threads))

	var g errgroup.Group
	for _, st := range newStacks(threads, initial) {
		wk := &worker{
			visitor:       builder.Build(),
			stack:         st,
			quitNow:       quitNow,
			activeWorkers: activeWorkers,
			opts:          w.opts,
			filter:        w.filter,
			stats:         w.stats,
		}
		g.Go(wk.runRecover)
	}
	if err := g.Wait(); err != nil {
		// Visitor panics surface on the goroutine that started the walk.
		panic(err)
	}

	logger.Debug("walker.WalkParallel: all workers finished")
}

// workerPanic carries a panic out of a worker goroutine.
type workerPanic struct {
	value any
	stack []byte
}

func (p *workerPanic) Error() string {
	return fmt.Sprintf("walker: worker panicked: %v\n\n%s", p.value, p.stack)
}

func (w *WalkParallel) threads() int {
	if w.opts.threads == 0 {
		return defaultThreads
	}
	return w.opts.threads
}

func (w *WalkParallel) reportProgress(ctx context.Context) {
	interval := w.progressInterval
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.progressFn(w.stats.snapshot())
		}
	}
}

// work is an entry waiting to be visited, along with the matcher of the
// directory it was found in.
type work struct {
	ent     *DirEntry
	ig      *ignore.Ignore
	rootDev uint64
	hasDev  bool
}

// message is either work or the signal to quit.
type message struct {
	work *work
	quit bool
}

// deque is a worker's stack of pending messages. The owner pushes and pops
// at the back; thieves take from the front.
type deque struct {
	mu    sync.Mutex
	items []message
}

func (d *deque) push(m message) {
	d.mu.Lock()
	d.items = append(d.items, m)
	d.mu.Unlock()
}

func (d *deque) pop() (message, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.items)
	if n == 0 {
		return message{}, false
	}
	m := d.items[n-1]
	d.items[n-1] = message{}
	d.items = d.items[:n-1]

	return m, true
}

// stealHalf removes and returns the older half of the messages.
func (d *deque) stealHalf() []message {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := (len(d.items) + 1) / 2
	if n == 0 {
		return nil
	}
	batch := make([]message, n)
	copy(batch, d.items[:n])
	d.items = append(d.items[:0], d.items[n:]...)

	return batch
}

// stack is one worker's view of the shared work: its own deque plus the
// deques of its peers to steal from.
type stack struct {
	index  int
	own    *deque
	deques []*deque
}

// newStacks makes one stack per worker and deals the initial messages out
// round robin. They are dealt in reverse so the first root is popped first.
func newStacks(threads int, init []message) []*stack {
	deques := make([]*deque, threads)
	for i := range deques {
		deques[i] = &deque{}
	}
	stacks := make([]*stack, threads)
	for i := range stacks {
		stacks[i] = &stack{index: i, own: deques[i], deques: deques}
	}
	for i := range init {
		stacks[i%threads].push(init[len(init)-1-i])
	}

	return stacks
}

func (s *stack) push(m message) { s.own.push(m) }

func (s *stack) pop() (message, bool) {
	if m, ok := s.own.pop(); ok {
		return m, true
	}
	return s.steal()
}

// steal takes a batch from the first peer with work, scanning from the
// next index and wrapping around.
func (s *stack) steal() (message, bool) {
	n := len(s.deques)
	for i := 1; i < n; i++ {
		batch := s.deques[(s.index+i)%n].stealHalf()
		if len(batch) == 0 {
			continue
		}
		for _, m := range batch[1:] {
			s.own.push(m)
		}
		return batch[0], true
	}

	return message{}, false
}

type worker struct {
	visitor       ParallelVisitor
	stack         *stack
	quitNow       *atomic.Bool
	activeWorkers *atomic.Int64
	opts          *walkOptions
	filter        *entryFilter
	stats         *stats
}

// runRecover runs the worker and turns a panic into an error. The other
// workers are told to quit; the quit message wakes the idle ones.
func (wk *worker) runRecover() (err error) {
	defer func() {
		if r := recover(); r != nil {
			wk.quitNow.Store(true)
			wk.stack.push(message{quit: true})
			err = &workerPanic{value: r, stack: debug.Stack()}
		}
	}()
	wk.run()

	return nil
}

func (wk *worker) run() {
	for {
		w, ok := wk.getWork()
		if !ok {
			return
		}
		if wk.runOne(w).IsQuit() {
			wk.quitNow.Store(true)
		}
	}
}

func (wk *worker) visit(ent *DirEntry, err error) WalkState {
	if err != nil {
		wk.stats.errors.Add(1)
		wk.opts.logger.Debug("walker.WalkParallel: %v", err)
	}
	return wk.visitor.Visit(ent, err)
}

func (wk *worker) runOne(w *work) WalkState {
	ent := w.ent
	if ent.FileType()&fs.ModeSymlink != 0 || !ent.IsDir() {
		wk.stats.yielded(ent)
		return wk.visit(ent, nil)
	}

	if ent.Depth() == 0 {
		ig, err := w.ig.AddParents(ent.Path())
		w.ig = ig
		if err != nil {
			if state := wk.visit(nil, err); state.IsQuit() {
				return state
			}
		}
	}

	descend := true
	if w.hasDev {
		dev, err := deviceNum(ent.Path())
		switch {
		case err != nil:
			err = errors.WithPath(ent.Path(), errors.WithDepth(ent.Depth(), errors.IO(err)))
			if state := wk.visit(nil, err); state.IsQuit() {
				return state
			}
			descend = false
		case dev != w.rootDev:
			descend = false
		}
	}

	// The directory is read before it is visited so the visitor sees its
	// ignore file errors on the entry.
	entries, readErr := readDir(ent.Path(), ent.Depth()+1)
	if readErr == nil || len(entries) > 0 {
		ig, err := w.ig.AddChild(ent.Path())
		w.ig = ig
		ent.err = err
	}

	wk.stats.yielded(ent)
	if state := wk.visit(ent, nil); !state.IsContinue() {
		return state
	}
	if !descend {
		return Skip
	}
	if readErr != nil {
		err := errors.WithPath(ent.Path(), errors.WithDepth(ent.Depth(), errors.IO(readErr)))
		if state := wk.visit(nil, err); state.IsQuit() || len(entries) == 0 {
			return state
		}
	}
	if wk.opts.maxDepth >= 0 && ent.Depth() >= wk.opts.maxDepth {
		return Skip
	}

	for _, child := range entries {
		if state := wk.generateWork(w, child); state.IsQuit() {
			return state
		}
	}

	return Continue
}

func (wk *worker) generateWork(parent *work, ent *DirEntry) WalkState {
	ig := parent.ig
	if wk.opts.followLinks && ent.FileType()&fs.ModeSymlink != 0 {
		followed, err := newEntryFromPath(ent.Path(), ent.Depth(), true)
		if err != nil {
			return wk.visit(nil, err)
		}
		ent = followed
		if ent.IsDir() {
			if err := checkSymlinkLoop(ig, ent.Path(), ent.Depth()); err != nil {
				return wk.visit(nil, err)
			}
		}
	}

	skip, err := wk.filter.skipEntry(ig, ent)
	if err != nil {
		return wk.visit(nil, err)
	}
	if !skip {
		wk.stack.push(message{work: &work{
			ent:     ent,
			ig:      ig,
			rootDev: parent.rootDev,
			hasDev:  parent.hasDev,
		}})
	}

	return Continue
}

// getWork returns the next work item, or false when the worker should stop.
func (wk *worker) getWork() (*work, bool) {
	m, ok := wk.stack.pop()
	for {
		if wk.quitNow.Load() {
			m, ok = message{quit: true}, true
		}
		switch {
		case ok && !m.quit:
			return m.work, true
		case ok && m.quit:
			// Pass the signal on so sleeping workers wake up and quit too.
			wk.stack.push(message{quit: true})
			return nil, false
		}

		if wk.activeWorkers.Add(-1) == 0 {
			// Every deque is empty at once, so there is no work left.
			wk.stack.push(message{quit: true})
			return nil, false
		}
		for {
			if m, ok = wk.stack.pop(); ok {
				wk.activeWorkers.Add(1)
				break
			}
			time.Sleep(time.Millisecond)
		}
	}
}
