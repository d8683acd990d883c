package watch

import "codeberg.org/mutker/thrustctl/internal/errors"

const (
	ErrWatcherInit = errors.ErrorCode("watch_init_failed")
	ErrWatcher     = errors.ErrorCode("watch_failed")
)

func init() {
	errors.Register(map[errors.ErrorCode]string{
		ErrWatcherInit: "Failed to watch file",
		ErrWatcher:     "File watcher failed",
	})
}
