// Package loader parses static thrust test CSV files.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/logger"
	"codeberg.org/mutker/thrustctl/internal/thrust"
)

const utf8BOM = "\ufeff"

// Table is the raw tabular content of a loaded file. Header carries the
// resolved column names; Rows keep every column, including ones the
// series does not use.
type Table struct {
	Header []string
	Rows   [][]string
	// TimeColumn and ThrustColumn index the resolved columns in Header
	TimeColumn   int
	ThrustColumn int
}

// Result is the outcome of a successful load
type Result struct {
	Source string
	Series thrust.Series
	Table  Table
}

// LoadFile opens path and loads it
func LoadFile(path string) (Result, error) {
	errFactory := errors.New()

	f, err := os.Open(path)
	if err != nil {
		return Result{}, errFactory.Wrap(ErrIoOrParse, err)
	}
	defer f.Close()

	res, err := Load(f)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to load CSV")
		return Result{}, err
	}
	res.Source = path

	logger.Debug().
		Str("path", path).
		Int("samples", res.Series.Len()).
		Int("columns", len(res.Table.Header)).
		Msg("CSV loaded")

	return res, nil
}

// Load reads a CSV with a header row and returns the time/thrust series
// in file order, in ozf. Any unreadable input or non-numeric cell in the
// time or thrust column rejects the whole load.
func Load(r io.Reader) (Result, error) {
	errFactory := errors.New()

	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return Result{}, errFactory.WithData(ErrIoOrParse, "no header row")
	}
	if err != nil {
		return Result{}, errFactory.Wrap(ErrIoOrParse, err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	columns, idx, missing := resolveColumns(header)
	if len(missing) > 0 {
		return Result{}, errFactory.WithData(ErrMissingColumns, missing)
	}

	var (
		samples []thrust.Sample
		rows    [][]string
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, errFactory.Wrap(ErrIoOrParse, err)
		}

		line, _ := reader.FieldPos(0)
		t, err := parseCell(record[idx.time])
		if err != nil {
			return Result{}, cellError(line, ColumnTime, record[idx.time])
		}
		v, err := parseCell(record[idx.thrust])
		if err != nil {
			return Result{}, cellError(line, ColumnThrust, record[idx.thrust])
		}

		samples = append(samples, thrust.Sample{Time: t, Thrust: v})
		rows = append(rows, record)
	}

	return Result{
		Series: thrust.NewSeries(samples, thrust.OZF),
		Table: Table{
			Header:       columns,
			Rows:         rows,
			TimeColumn:   idx.time,
			ThrustColumn: idx.thrust,
		},
	}, nil
}

func parseCell(cell string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", cell)
	}
	return v, nil
}

func cellError(line int, column, value string) errors.Error {
	return errors.New().WithData(ErrIoOrParse,
		fmt.Sprintf("line %d, column %q: %q is not a finite number", line, column, value))
}
