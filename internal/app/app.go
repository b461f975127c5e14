package app

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/bethropolis/ignorewalk/internal/config"
	"github.com/bethropolis/ignorewalk/internal/errors"
	"github.com/bethropolis/ignorewalk/internal/logger"
	"github.com/bethropolis/ignorewalk/internal/printer"
	"github.com/bethropolis/ignorewalk/internal/setup"
	"github.com/bethropolis/ignorewalk/internal/summary"
	"github.com/bethropolis/ignorewalk/internal/walker"
	"github.com/fatih/color"
)

const progressInterval = 300 * time.Millisecond

// ErrTimeout is returned when the walk ran out of time
var ErrTimeout = errors.New("timeout reached")

// App encapsulates the main application functionality
type App struct {
	cfg       *config.Config
	log       *logger.Logger
	Output    io.Writer
	ErrOutput io.Writer
	outFile   *os.File
}

// New creates a new App instance
func New(cfg *config.Config) (*App, error) {
	// Configure color globally
	color.NoColor = !cfg.UseColors

	// Set up output destination
	var output io.Writer = os.Stdout
	var outFile *os.File
	if cfg.OutputFile != "" {
		file, err := os.Create(cfg.OutputFile)
		if err != nil {
			return nil, errors.WithStackTrace(fmt.Errorf("failed to create output file: %w", err))
		}
		output, outFile = file, file
	}

	// Set up logger
	log := logger.New(os.Stderr, cfg.Verbose, cfg.UseColors)

	// Apply log level if specified (overrides verbose/quiet flags)
	if cfg.LogLevel != "" {
		if err := log.SetLevel(cfg.LogLevel); err != nil {
			if outFile != nil {
				outFile.Close()
			}
			return nil, err
		}
	} else if cfg.Quiet {
		log.WithLevel(logger.LevelWarn)
	}

	return &App{
		cfg:       cfg,
		log:       log,
		Output:    output,
		ErrOutput: os.Stderr,
		outFile:   outFile,
	}, nil
}

// Close releases the output file, if one was opened
func (a *App) Close() error {
	if a.outFile == nil {
		return nil
	}
	return a.outFile.Close()
}

// infoLog is suppressed by the quiet flag
func (a *App) infoLog(format string, args ...interface{}) {
	if !a.cfg.Quiet {
		a.log.Info(format, args...)
	}
}

// Run executes the main application logic
func (a *App) Run() error {
	startTime := time.Now()

	wcfg := a.walkerConfig()

	if a.cfg.TypeList {
		b, err := setup.TypesBuilder(wcfg)
		if err != nil {
			return err
		}
		summary.DisplayTypes(b.Definitions(), a.Output)
		return nil
	}

	a.log.Debug("Verbose mode enabled")
	a.log.Debug("Color output: %v", a.cfg.UseColors)
	a.log.Debug("Paths: %v", a.cfg.Paths)
	a.log.Debug("Parallel mode: %v (threads: %d)", a.cfg.Parallel, a.cfg.Threads)

	var tracker *walker.SkippedTracker
	if a.cfg.ShowSkipped {
		tracker = walker.NewSkippedTracker(100)
		wcfg.Tracker = tracker
	}

	builder, err := setup.ConfigureWalker(wcfg, a.infoLog)
	if err != nil {
		return err
	}

	// --- Create the printer ---
	p := printer.New().WithOutput(a.Output).WithColors(a.cfg.UseColors)
	if a.cfg.JSONOutput {
		a.log.Debug("JSON output mode enabled")
		p.WithJSON(true).WithColors(false)
	} else if a.cfg.MarkdownOutput {
		a.log.Debug("Markdown output mode enabled")
		p.WithMarkdown(true).WithColors(false)
	}

	v := &visitor{
		app:     a,
		printer: p,
		tracker: tracker,
	}
	if a.cfg.Timeout > 0 {
		v.deadline = startTime.Add(a.cfg.Timeout)
	}

	for _, path := range a.cfg.Paths {
		a.infoLog("Scanning: %s", path)
	}

	var stats walker.ProgressStats
	if a.cfg.Parallel {
		stats = a.runParallel(builder, v)
	} else {
		stats = a.runSequential(builder, v)
	}
	if a.cfg.ShowProgress {
		fmt.Fprintln(a.ErrOutput)
	}

	p.Finalize()

	summary.DisplayResults(a.log, stats, time.Since(startTime), a.cfg.Quiet)

	if tracker != nil {
		summary.DisplaySkippedItems(a.log, tracker.Items(), a.ErrOutput, a.cfg.Quiet)
	}

	if v.expired.Load() {
		a.log.Warn("Timeout of %v reached.", a.cfg.Timeout)
		return ErrTimeout
	}

	return nil
}

func (a *App) runSequential(builder *walker.Builder, v *visitor) walker.ProgressStats {
	w := builder.Build()
	lastReport := time.Now()
	for ent, err := range w.All() {
		if v.visit(ent, err).IsQuit() {
			break
		}
		if a.cfg.ShowProgress && time.Since(lastReport) >= progressInterval {
			a.showProgress(w.Stats())
			lastReport = time.Now()
		}
	}

	return w.Stats()
}

func (a *App) runParallel(builder *walker.Builder, v *visitor) walker.ProgressStats {
	w := builder.BuildParallel()
	if a.cfg.ShowProgress {
		w.WithProgress(progressInterval, a.showProgress)
	}
	w.Run(func() walker.VisitFunc {
		return v.visit
	})

	return w.Stats()
}

func (a *App) showProgress(stats walker.ProgressStats) {
	if a.cfg.Quiet {
		return
	}
	// Print with carriage return to overwrite previous line
	fmt.Fprintf(a.ErrOutput, "\rScanning... | Files: %d | Dirs: %d | Skipped: %d",
		stats.Files, stats.Dirs, stats.Skipped)
}

func (a *App) walkerConfig() setup.WalkerConfig {
	c := a.cfg
	return setup.WalkerConfig{
		Paths:                     c.Paths,
		Threads:                   c.Threads,
		MaxDepth:                  c.MaxDepth,
		MaxFilesize:               c.MaxFilesize,
		FollowLinks:               c.FollowLinks,
		SameFileSystem:            c.SameFileSystem,
		Sort:                      c.Sort,
		Hidden:                    c.Hidden,
		NoIgnore:                  c.NoIgnore,
		NoIgnoreParent:            c.NoIgnoreParent,
		NoIgnoreDot:               c.NoIgnoreDot,
		NoIgnoreVCS:               c.NoIgnoreVCS,
		NoIgnoreGlobal:            c.NoIgnoreGlobal,
		NoIgnoreExclude:           c.NoIgnoreExclude,
		NoRequireGit:              c.NoRequireGit,
		IgnoreFileCaseInsensitive: c.IgnoreFileCaseInsensitive,
		IgnoreFiles:               c.IgnoreFiles,
		CustomIgnoreFiles:         c.CustomIgnoreFiles,
		Globs:                     c.Globs,
		GlobCaseInsensitive:       c.GlobCaseInsensitive,
		Types:                     c.Types,
		TypesNot:                  c.TypesNot,
		TypeAdd:                   c.TypeAdd,
		TypeClear:                 c.TypeClear,
		Logger:                    a.log,
	}
}

// visitor prints entries and reports errors. One value is shared by every
// worker of a parallel walk.
type visitor struct {
	app      *App
	printer  *printer.Printer
	tracker  *walker.SkippedTracker
	deadline time.Time

	expired atomic.Bool
}

func (v *visitor) timedOut() bool {
	if v.expired.Load() {
		return true
	}
	if v.deadline.IsZero() || time.Now().Before(v.deadline) {
		return false
	}
	v.expired.Store(true)
	return true
}

func (v *visitor) visit(ent *walker.DirEntry, err error) walker.WalkState {
	if v.timedOut() {
		return walker.Quit
	}

	if err != nil {
		v.reportError(err)
		return walker.Continue
	}

	if ent.Err() != nil {
		v.app.log.Warn("Problem reading ignore files in '%s': %v", ent.Path(), ent.Err())
	}

	// Directories named on the command line are not listed themselves.
	if ent.Depth() == 0 && ent.IsDir() {
		return walker.Continue
	}

	v.printer.PrintEntry(printer.Entry{
		Path:    ent.Path(),
		Type:    entryType(ent),
		Depth:   ent.Depth(),
		Symlink: ent.PathIsSymlink(),
	})

	return walker.Continue
}

func (v *visitor) reportError(err error) {
	v.app.log.Warn("Skipping due to error: %v", err)
	v.app.log.Debug("%s", errors.ErrorWithStackTrace(err))
	if v.tracker == nil {
		return
	}

	path := "<unknown>"
	var pathErr *errors.PathError
	if errors.As(err, &pathErr) {
		path = pathErr.Path
	}

	reason := walker.ReasonSkippedWalkError
	var loopErr *errors.LoopError
	switch {
	case errors.As(err, &loopErr):
		path = loopErr.Child
		reason = walker.ReasonSkippedLoop
	case walker.IsPermission(err):
		reason = walker.ReasonSkippedPermError
	}
	v.tracker.Track(path, reason, false)
}

func entryType(ent *walker.DirEntry) string {
	switch {
	case ent.IsDir():
		return printer.TypeDir
	case ent.FileType().IsRegular():
		return printer.TypeFile
	default:
		return printer.TypeOther
	}
}
