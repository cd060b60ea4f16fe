package build

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/logfields"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher rebuilds the site when worktree sources change and, optionally,
// on a fixed interval.
type Watcher struct {
	svc      Service
	req      Request
	debounce time.Duration
	interval time.Duration
	onResult func(*Result, error)
	logger   *slog.Logger

	triggers chan string
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets how long file events settle before a rebuild.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithInterval schedules a rebuild every d. Zero disables it.
func WithInterval(d time.Duration) WatchOption {
	return func(w *Watcher) { w.interval = d }
}

// WithResultHandler is called after every build.
func WithResultHandler(fn func(*Result, error)) WatchOption {
	return func(w *Watcher) { w.onResult = fn }
}

// WithWatchLogger sets the logger.
func WithWatchLogger(l *slog.Logger) WatchOption {
	return func(w *Watcher) { w.logger = l }
}

// NewWatcher creates a watcher that runs req through svc.
func NewWatcher(svc Service, req Request, opts ...WatchOption) *Watcher {
	w := &Watcher{
		svc:      svc,
		req:      req,
		debounce: defaultDebounce,
		logger:   slog.Default(),
		triggers: make(chan string, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dirs returns the directories watched for changes: the start path of each
// worktree source.
func (w *Watcher) Dirs() []string {
	if w.req.Config == nil {
		return nil
	}
	var dirs []string
	for _, src := range w.req.Config.Content.Sources {
		if !src.Worktree {
			continue
		}
		dirs = append(dirs, filepath.Join(src.URL, filepath.FromSlash(src.StartPath)))
	}
	return dirs
}

// Watch builds once and then rebuilds on changes until ctx is done.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create file watcher").Build()
	}
	defer func() { _ = fsw.Close() }()

	for _, dir := range w.Dirs() {
		if err := addTree(fsw, dir); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "watch source directory").
				WithPath(dir).
				Build()
		}
		w.logger.Info("Watching content source", logfields.Path(dir))
	}

	if w.interval > 0 {
		scheduler, err := w.schedule()
		if err != nil {
			return err
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				w.logger.Warn("Failed to stop rebuild scheduler", logfields.Error(err))
			}
		}()
	}

	w.build(ctx, "initial")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := ""

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				w.watchCreated(fsw, event.Name)
			}
			w.logger.Debug("Content change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			pending = "change"
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		case reason := <-w.triggers:
			w.build(ctx, reason)
		case <-timer.C:
			w.build(ctx, pending)
			pending = ""
		}
	}
}

func (w *Watcher) schedule() (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "create rebuild scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.trigger, "schedule"),
		gocron.WithName("scheduled-rebuild"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "schedule periodic rebuild").
			WithContext("interval", w.interval.String()).
			Build()
	}
	s.Start()
	w.logger.Info("Scheduled periodic rebuild", slog.Duration("interval", w.interval))
	return s, nil
}

// trigger requests a rebuild; a request already pending absorbs it.
func (w *Watcher) trigger(reason string) {
	select {
	case w.triggers <- reason:
	default:
	}
}

func (w *Watcher) build(ctx context.Context, reason string) {
	w.logger.Info("Rebuilding site", slog.String("reason", reason))
	result, err := w.svc.Run(ctx, w.req)
	if err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Error("Build failed", logfields.Error(err))
	}
	if w.onResult != nil {
		w.onResult(result, err)
	}
}

// addTree watches dir and every non-hidden directory below it.
// watchCreated adds a newly created directory tree to fsw. Changes below a
// directory that could not be added go unnoticed until the next rebuild.
func (w *Watcher) watchCreated(fsw *fsnotify.Watcher, p string) {
	if err := addTree(fsw, p); err != nil {
		w.logger.Warn("Failed to watch new directory", logfields.Path(p), logfields.Error(err))
	}
}

func addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return fsw.Add(p)
	})
}

func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return !strings.HasPrefix(filepath.Base(event.Name), ".")
}
