package stats

import "codeberg.org/mutker/thrustctl/internal/errors"

const (
	// ErrInvalidRange is returned when start is not strictly before end
	ErrInvalidRange = errors.ErrorCode("stats_invalid_range")
	// ErrEmptyRange marks a valid window that holds no samples. It is an
	// expected outcome, not a failure of the computation.
	ErrEmptyRange = errors.ErrorCode("stats_empty_range")
)

func init() {
	errors.Register(map[errors.ErrorCode]string{
		ErrInvalidRange: "Start time must be less than end time",
		ErrEmptyRange:   "No data in range",
	})
}

// IsEmptyRange reports whether err is the no-data-in-window outcome
func IsEmptyRange(err error) bool {
	return errors.HasCode(err, ErrEmptyRange)
}
