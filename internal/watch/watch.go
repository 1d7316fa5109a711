// Package watch processes library folders as they appear under the root.
// A new folder is queued when the filesystem reports it and processed once
// it has existed for the settle delay, which gives Stash time to scan the
// folder's media before scenes and galleries are searched.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/unicode/norm"

	"github.com/tonimelisma/stash-folderid/internal/library"
	"github.com/tonimelisma/stash-folderid/internal/reconcile"
)

// Watcher error backoff bounds.
const (
	watchErrInitBackoff = 1 * time.Second
	watchErrMaxBackoff  = 1 * time.Minute
	watchErrBackoffMult = 2

	minPollInterval = 1 * time.Second
	maxPollInterval = 30 * time.Second
)

// FsWatcher is the subset of *fsnotify.Watcher the watch loop uses.
type FsWatcher interface {
	Add(name string) error
	Close() error
	Events() <-chan fsnotify.Event
	Errors() <-chan error
}

// fsnotifyWatcher adapts *fsnotify.Watcher, whose channels are struct
// fields, to FsWatcher.
type fsnotifyWatcher struct {
	w *fsnotify.Watcher
}

// NewFsWatcher creates an inotify/kqueue backed FsWatcher.
func NewFsWatcher() (FsWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: creating filesystem watcher: %w", err)
	}

	return &fsnotifyWatcher{w: w}, nil
}

func (f *fsnotifyWatcher) Add(name string) error         { return f.w.Add(name) }
func (f *fsnotifyWatcher) Close() error                  { return f.w.Close() }
func (f *fsnotifyWatcher) Events() <-chan fsnotify.Event { return f.w.Events }
func (f *fsnotifyWatcher) Errors() <-chan error          { return f.w.Errors }

// Processor handles one library folder. Satisfied by
// *reconcile.Orchestrator.
type Processor interface {
	ProcessFolder(ctx context.Context, path string) reconcile.Report
}

// Options configures a Watcher.
type Options struct {
	Root   string
	Settle time.Duration
	// PollInterval is how often settled folders are flushed. Zero derives
	// it from Settle.
	PollInterval time.Duration
	// Rescan, when it fires, queues every existing folder for immediate
	// processing.
	Rescan <-chan os.Signal
	// OnReport receives the outcome of each processed folder.
	OnReport func(reconcile.Report)
}

// Watcher queues new folders under the root and processes them once
// settled. Folders are processed one at a time on the Run goroutine.
type Watcher struct {
	fs       FsWatcher
	proc     Processor
	root     string
	settle   time.Duration
	poll     time.Duration
	rescan   <-chan os.Signal
	onReport func(reconcile.Report)
	logger   *slog.Logger

	pending map[string]time.Time

	now       func() time.Time
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// New creates a Watcher. The caller closes fs after Run returns.
func New(fs FsWatcher, proc Processor, opts Options, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	poll := opts.PollInterval
	if poll <= 0 {
		poll = min(max(opts.Settle/4, minPollInterval), maxPollInterval)
	}

	onReport := opts.OnReport
	if onReport == nil {
		onReport = func(reconcile.Report) {}
	}

	return &Watcher{
		fs:        fs,
		proc:      proc,
		root:      filepath.Clean(opts.Root),
		settle:    opts.Settle,
		poll:      poll,
		rescan:    opts.Rescan,
		onReport:  onReport,
		logger:    logger,
		pending:   make(map[string]time.Time),
		now:       time.Now,
		sleepFunc: timeSleep,
	}
}

// Run watches the root until ctx is canceled. It returns an error only when
// the root cannot be watched; cancellation is a clean stop.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.fs.Add(w.root); err != nil {
		return fmt.Errorf("watch: adding %s: %w", w.root, err)
	}

	w.logger.Info("watching library",
		slog.String("root", w.root),
		slog.Duration("settle", w.settle),
	)

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	errBackoff := watchErrInitBackoff

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events():
			if !ok {
				return nil
			}

			w.handleEvent(ev)

			errBackoff = watchErrInitBackoff

		case watchErr, ok := <-w.fs.Errors():
			if !ok {
				return nil
			}

			w.logger.Warn("filesystem watcher error",
				slog.String("error", watchErr.Error()),
				slog.Duration("backoff", errBackoff),
			)

			if sleepErr := w.sleepFunc(ctx, errBackoff); sleepErr != nil {
				return nil
			}

			errBackoff = min(errBackoff*watchErrBackoffMult, watchErrMaxBackoff)

		case <-w.rescan:
			w.queueAll()
			w.flush(ctx, w.now())

		case <-ticker.C:
			w.flush(ctx, w.now())
		}
	}
}

// handleEvent queues directories created directly under the root and
// forgets queued folders that are removed or renamed away.
func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if filepath.Dir(ev.Name) != w.root {
		return
	}

	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") {
		return
	}

	path := filepath.Join(w.root, norm.NFC.String(name))

	switch {
	case ev.Has(fsnotify.Create):
		info, err := os.Stat(ev.Name)
		if err != nil || !info.IsDir() {
			return
		}

		w.pending[path] = w.now()

		w.logger.Debug("folder queued", slog.String("path", path))

	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		if _, ok := w.pending[path]; ok {
			delete(w.pending, path)
			w.logger.Debug("queued folder went away", slog.String("path", path))
		}
	}
}

// queueAll marks every folder under the root as already settled.
func (w *Watcher) queueAll() {
	folders, err := library.ListFolders(w.root)
	if err != nil {
		w.logger.Warn("rescan failed", slog.String("error", err.Error()))
		return
	}

	due := w.now().Add(-w.settle)
	for _, f := range folders {
		w.pending[f] = due
	}

	w.logger.Info("rescan queued", slog.Int("folders", len(folders)))
}

// flush processes every queued folder that has settled by now, in path
// order.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var due []string

	for path, seen := range w.pending {
		if now.Sub(seen) >= w.settle {
			due = append(due, path)
		}
	}

	sort.Strings(due)

	for _, path := range due {
		if ctx.Err() != nil {
			return
		}

		delete(w.pending, path)

		report := w.proc.ProcessFolder(ctx, path)

		w.logger.Info("folder processed",
			slog.String("path", path),
			slog.String("state", report.State.String()),
		)

		w.onReport(report)
	}
}

// timeSleep waits for d or until ctx is canceled.
func timeSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
