package repository

import "codeberg.org/mutker/thrustctl/internal/errors"

const (
	ErrNoSeries = errors.ErrorCode("repository_no_series")
)

func init() {
	errors.Register(map[errors.ErrorCode]string{
		ErrNoSeries: "Please load a CSV file first",
	})
}
