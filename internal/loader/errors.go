package loader

import "codeberg.org/mutker/thrustctl/internal/errors"

const (
	// ErrIoOrParse covers unreadable sources, malformed CSV and cells that
	// are not finite numbers
	ErrIoOrParse = errors.ErrorCode("load_io_or_parse")
	// ErrMissingColumns is returned when time or thrust cannot be resolved
	// from the header; the error data lists the missing names
	ErrMissingColumns = errors.ErrorCode("load_missing_columns")
)

func init() {
	errors.Register(map[errors.ErrorCode]string{
		ErrIoOrParse:      "Failed to read CSV",
		ErrMissingColumns: "CSV must contain 'time' and 'thrust' columns",
	})
}
