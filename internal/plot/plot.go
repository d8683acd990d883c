// Package plot draws thrust-vs-time charts.
package plot

import (
	"fmt"
	"io"
	"os"

	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/logger"
	"codeberg.org/mutker/thrustctl/internal/stats"
	"codeberg.org/mutker/thrustctl/internal/thrust"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

const (
	seriesName = "Thrust vs Time"
	filePerm   = 0o644
)

type Options struct {
	Width  int
	Height int
	Title  string
	// MarkPeak annotates the maximum thrust
	MarkPeak bool
}

// Render draws s as a line in file order and writes a PNG to w
func Render(w io.Writer, s thrust.Series, opts Options) error {
	errFactory := errors.New()

	if s.Len() == 0 {
		return errFactory.New(ErrEmptySeries)
	}

	xs, ys := s.Times(), s.Thrusts()

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  "Time (s)",
			Range: paddedRange(xs),
		},
		YAxis: chart.YAxis{
			Name:  fmt.Sprintf("Thrust (%s)", s.Unit()),
			Range: paddedRange(ys),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    seriesName,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("1f77b4"),
					StrokeWidth: 2,
				},
			},
		},
	}

	if opts.MarkPeak {
		if peak, ok := stats.PeakThrust(s); ok {
			graph.Series = append(graph.Series, chart.AnnotationSeries{
				Annotations: []chart.Value2{{
					XValue: peak.Time,
					YValue: peak.Thrust,
					Label:  fmt.Sprintf("max %.2f %s", peak.Thrust, s.Unit()),
				}},
			})
		}
	}

	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return errFactory.Wrap(ErrRenderFailed, err)
	}

	return nil
}

// RenderFile renders to a PNG file at path
func RenderFile(path string, s thrust.Series, opts Options) error {
	errFactory := errors.New()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	if err := Render(f, s, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	if err := f.Close(); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	logger.Debug().Str("path", path).Int("samples", s.Len()).Msg("Plot written")
	return nil
}

// paddedRange returns a fixed axis range when all values are equal,
// which the chart cannot scale on its own.
func paddedRange(values []float64) chart.Range {
	lo, hi := floats.Min(values), floats.Max(values)
	if lo != hi {
		return nil
	}
	pad := 1.0
	if lo != 0 {
		pad = abs(lo) * 0.1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
