package table

import (
	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/logger"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

const SheetName = "data"

// ExportXLSX writes every row of df to a single sheet at path.
// Numeric columns are stored as numbers.
func ExportXLSX(path string, df dataframe.DataFrame) error {
	errFactory := errors.New()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return errFactory.Wrap(ErrExportXLSX, err)
	}

	names := df.Names()
	header := make([]interface{}, len(names))
	for i, name := range names {
		header[i] = name
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return errFactory.Wrap(ErrExportXLSX, err)
	}

	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = df.Col(name)
	}

	for r := 0; r < df.Nrow(); r++ {
		row := make([]interface{}, len(cols))
		for c, col := range cols {
			if col.Type() == series.Float {
				row[c] = col.Elem(r).Float()
			} else {
				row[c] = col.Elem(r).String()
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return errFactory.Wrap(ErrExportXLSX, err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return errFactory.Wrap(ErrExportXLSX, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errFactory.Wrap(ErrExportXLSX, err)
	}

	logger.Debug().Str("path", path).Int("rows", df.Nrow()).Msg("Rows exported")
	return nil
}
