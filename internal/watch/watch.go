// Package watch reloads a thrust CSV whenever it changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/loader"
	"codeberg.org/mutker/thrustctl/internal/logger"
	"codeberg.org/mutker/thrustctl/internal/repository"
	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 200 * time.Millisecond

type Option func(*Watcher)

// WithDebounce sets how long to wait after the last change before reloading
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// OnLoad is called after every successful load
func OnLoad(fn func(loader.Result)) Option {
	return func(w *Watcher) { w.onLoad = fn }
}

// OnError is called when a load fails. The repository keeps its
// previous dataset.
func OnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

type Watcher struct {
	path     string
	repo     *repository.Repository
	debounce time.Duration
	onLoad   func(loader.Result)
	onError  func(error)
}

func New(path string, repo *repository.Repository, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		repo:     repo,
		debounce: DefaultDebounce,
		onLoad:   func(loader.Result) {},
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run loads the file once, then reloads it on every write or create
// until ctx is done. The parent directory is watched so files replaced
// by rename are picked up too.
func (w *Watcher) Run(ctx context.Context) error {
	errFactory := errors.New()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errFactory.Wrap(ErrWatcherInit, err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return errFactory.Wrap(ErrWatcherInit, err)
	}

	logger.Info().Str("path", w.path).Msg("Watching for changes")
	w.reload()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				logger.Debug().Str("op", event.Op.String()).Msg("File changed")
				timer.Reset(w.debounce)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			werr := errFactory.Wrap(ErrWatcher, err)
			logger.ErrorWithContext(werr, "watch", "notify").Str("path", w.path).Msg("File watcher error")
			w.onError(werr)
		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	res, err := w.repo.LoadFile(w.path)
	if err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.ErrorWithContext(appErr, "watch", "reload").Str("path", w.path).Msg("Reload failed, keeping previous data")
		} else {
			logger.Error().Err(err).Str("path", w.path).Msg("Reload failed, keeping previous data")
		}
		w.onError(err)
		return
	}

	logger.Info().Str("path", w.path).Int("samples", res.Series.Len()).Msg("Reloaded")
	w.onLoad(res)
}
