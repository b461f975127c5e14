package walker

import (
	"github.com/bethropolis/ignorewalk/internal/ignore"
	"github.com/bethropolis/ignorewalk/internal/utils"
)

// walkOptions configures both walk engines.
type walkOptions struct {
	logger         utils.Logger
	maxDepth       int
	maxFilesize    int64
	followLinks    bool
	sameFileSystem bool
	threads        int
	skipStdout     bool
	filter         Filter
	sorter         func(a, b *DirEntry) int
	skipHook       SkipHook
	ignoreOpts     []ignore.Option
}

// defaultOptions returns the default walk options
func defaultOptions() walkOptions {
	return walkOptions{
		logger:      utils.NoopLogger{},
		maxDepth:    -1,
		maxFilesize: -1,
	}
}

// Option is a functional option for configuring a Builder
type Option func(*walkOptions)

// WithLogger sets a custom logger for the walker and its ignore matchers
func WithLogger(logger utils.Logger) Option {
	return func(opts *walkOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithMaxDepth limits how deep below the roots the walk goes. A depth of 0
// yields only the roots. A negative depth removes the limit.
func WithMaxDepth(depth int) Option {
	return func(opts *walkOptions) {
		opts.maxDepth = depth
	}
}

// WithMaxFilesize leaves out files larger than maxBytes. Directories are
// never left out. A negative value removes the limit.
func WithMaxFilesize(maxBytes int64) Option {
	return func(opts *walkOptions) {
		opts.maxFilesize = maxBytes
	}
}

// WithFollowLinks makes the walk descend into symlinked directories
func WithFollowLinks(yes bool) Option {
	return func(opts *walkOptions) {
		opts.followLinks = yes
	}
}

// WithSameFileSystem keeps the walk from descending into directories on a
// different device than their root
func WithSameFileSystem(yes bool) Option {
	return func(opts *walkOptions) {
		opts.sameFileSystem = yes
	}
}

// WithThreads sets the number of workers of a parallel walk. 0 picks the
// default.
func WithThreads(threads int) Option {
	return func(opts *walkOptions) {
		if threads >= 0 {
			opts.threads = threads
		}
	}
}

// WithSkipStdout leaves out the file standard output is redirected to, if
// any
func WithSkipStdout(yes bool) Option {
	return func(opts *walkOptions) {
		opts.skipStdout = yes
	}
}

// WithFilter adds a predicate every entry below the roots must pass
func WithFilter(filter Filter) Option {
	return func(opts *walkOptions) {
		opts.filter = filter
	}
}

// WithSortByFilePath orders the entries of each directory by full path.
// Only the sequential walk honors it.
func WithSortByFilePath(cmp func(a, b string) int) Option {
	return func(opts *walkOptions) {
		if cmp == nil {
			opts.sorter = nil
			return
		}
		opts.sorter = func(a, b *DirEntry) int { return cmp(a.Path(), b.Path()) }
	}
}

// WithSortByFileName orders the entries of each directory by file name.
// Only the sequential walk honors it.
func WithSortByFileName(cmp func(a, b string) int) Option {
	return func(opts *walkOptions) {
		if cmp == nil {
			opts.sorter = nil
			return
		}
		opts.sorter = func(a, b *DirEntry) int { return cmp(a.FileName(), b.FileName()) }
	}
}

// WithSkipHook reports every entry left out by a filter or ignore rule
func WithSkipHook(hook SkipHook) Option {
	return func(opts *walkOptions) {
		opts.skipHook = hook
	}
}

// WithIgnoreOptions configures the ignore matchers, e.g. which ignore
// files are read
func WithIgnoreOptions(ignoreOpts ...ignore.Option) Option {
	return func(opts *walkOptions) {
		opts.ignoreOpts = append(opts.ignoreOpts, ignoreOpts...)
	}
}

// WithStandardFilters toggles hidden file filtering and every standard
// ignore source at once
func WithStandardFilters(yes bool) Option {
	return WithIgnoreOptions(ignore.WithStandardFilters(yes))
}
