package plot

import "codeberg.org/mutker/thrustctl/internal/errors"

const (
	ErrEmptySeries  = errors.ErrorCode("plot_empty_series")
	ErrRenderFailed = errors.ErrorCode("plot_render_failed")
	ErrWriteFailed  = errors.ErrorCode("plot_write_failed")
)

func init() {
	errors.Register(map[errors.ErrorCode]string{
		ErrEmptySeries:  "Nothing to plot",
		ErrRenderFailed: "Failed to render plot",
		ErrWriteFailed:  "Failed to write plot",
	})
}
