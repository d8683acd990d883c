package table

import "codeberg.org/mutker/thrustctl/internal/errors"

const (
	ErrBuildFrame  = errors.ErrorCode("table_build_frame_failed")
	ErrExportXLSX  = errors.ErrorCode("table_export_xlsx_failed")
	ErrWriteOutput = errors.ErrorCode("table_write_failed")
)

func init() {
	errors.Register(map[errors.ErrorCode]string{
		ErrBuildFrame:  "Failed to build data frame",
		ErrExportXLSX:  "Failed to export rows to xlsx",
		ErrWriteOutput: "Failed to write rows",
	})
}
