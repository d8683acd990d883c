// Package table exposes the raw rows of a loaded file for browsing and export.
package table

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/loader"
	"codeberg.org/mutker/thrustctl/internal/thrust"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Frame builds a DataFrame holding every column of the loaded file.
// The time and thrust columns are numeric; the rest stay as text. When
// unit differs from the series unit a converted thrust column is appended
// under a name no file column uses.
func Frame(res loader.Result, unit thrust.Unit) (dataframe.DataFrame, error) {
	errFactory := errors.New()

	tbl := res.Table
	if len(tbl.Header) == 0 {
		tbl = loader.Table{
			Header:       []string{loader.ColumnTime, loader.ColumnThrust},
			TimeColumn:   0,
			ThrustColumn: 1,
		}
	}

	cols := make([]series.Series, len(tbl.Header))
	for i, name := range tbl.Header {
		switch i {
		case tbl.TimeColumn:
			cols[i] = series.New(res.Series.Times(), series.Float, name)
		case tbl.ThrustColumn:
			cols[i] = series.New(res.Series.Thrusts(), series.Float, name)
		default:
			values := make([]string, len(tbl.Rows))
			for r, row := range tbl.Rows {
				values[r] = row[i]
			}
			cols[i] = series.New(values, series.String, name)
		}
	}

	df := dataframe.New(cols...)
	if df.Err != nil {
		return dataframe.DataFrame{}, errFactory.Wrap(ErrBuildFrame, df.Err)
	}

	if unit != res.Series.Unit() {
		converted := res.Series.In(unit).Thrusts()
		df = df.Mutate(series.New(converted, series.Float, convertedName(unit, df.Names())))
		if df.Err != nil {
			return dataframe.DataFrame{}, errFactory.Wrap(ErrBuildFrame, df.Err)
		}
	}

	return df, nil
}

// Head returns at most n rows of df; n <= 0 keeps every row
func Head(df dataframe.DataFrame, n int) dataframe.DataFrame {
	if n <= 0 || df.Nrow() <= n {
		return df
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return df.Subset(idx)
}

// Render writes df as aligned text columns, header first. Numbers are
// printed in their shortest exact form.
func Render(w io.Writer, df dataframe.DataFrame) error {
	errFactory := errors.New()

	names := df.Names()
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = df.Col(name)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(names, "\t")); err != nil {
		return errFactory.Wrap(ErrWriteOutput, err)
	}

	cells := make([]string, len(cols))
	for r := 0; r < df.Nrow(); r++ {
		for c, col := range cols {
			if col.Type() == series.Float {
				cells[c] = strconv.FormatFloat(col.Elem(r).Float(), 'f', -1, 64)
			} else {
				cells[c] = col.Elem(r).String()
			}
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return errFactory.Wrap(ErrWriteOutput, err)
		}
	}
	if err := tw.Flush(); err != nil {
		return errFactory.Wrap(ErrWriteOutput, err)
	}

	return nil
}

// convertedName picks a name for the converted column that does not
// clash with a column of the file, since Mutate replaces same-named columns.
func convertedName(unit thrust.Unit, taken []string) string {
	used := make(map[string]bool, len(taken))
	for _, name := range taken {
		used[name] = true
	}

	name := fmt.Sprintf("%s_%s", loader.ColumnThrust, unit)
	for i := 1; used[name]; i++ {
		name = fmt.Sprintf("%s_%s_%d", loader.ColumnThrust, unit, i)
	}

	return name
}
