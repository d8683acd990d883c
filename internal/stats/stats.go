// Package stats computes the peak and windowed average thrust of a series.
// Values are reported in whatever unit the series carries.
package stats

import (
	"math"

	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/thrust"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Window is the result of averaging over an inclusive time range
type Window struct {
	Start   float64
	End     float64
	Samples int
	Mean    float64
}

// Peak is the maximum thrust and the first time it was reached
type Peak struct {
	Time   float64
	Thrust float64
}

// MaxThrust returns the largest finite thrust value, or false when the
// series has none.
func MaxThrust(s thrust.Series) (float64, bool) {
	p, ok := PeakThrust(s)
	return p.Thrust, ok
}

// PeakThrust is MaxThrust that also reports when the peak occurred.
// Non-finite values are skipped.
func PeakThrust(s thrust.Series) (Peak, bool) {
	var (
		peak  Peak
		found bool
	)
	for i := 0; i < s.Len(); i++ {
		smp := s.At(i)
		if !isFinite(smp.Thrust) {
			continue
		}
		if !found || smp.Thrust > peak.Thrust {
			peak = Peak{Time: smp.Time, Thrust: smp.Thrust}
			found = true
		}
	}

	return peak, found
}

// AverageInRange returns the mean thrust of samples with
// start <= time <= end.
func AverageInRange(s thrust.Series, start, end float64) (float64, error) {
	w, err := Average(s, start, end)
	if err != nil {
		return 0, err
	}
	return w.Mean, nil
}

// Average is AverageInRange returning the full window description
func Average(s thrust.Series, start, end float64) (Window, error) {
	errFactory := errors.New()

	if math.IsNaN(start) || math.IsNaN(end) || start >= end {
		return Window{}, errFactory.WithData(ErrInvalidRange, struct {
			Start float64
			End   float64
		}{start, end})
	}

	values := make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		smp := s.At(i)
		if smp.Time >= start && smp.Time <= end {
			values = append(values, smp.Thrust)
		}
	}

	if len(values) == 0 {
		return Window{Start: start, End: end}, errFactory.New(ErrEmptyRange)
	}

	return Window{
		Start:   start,
		End:     end,
		Samples: len(values),
		Mean:    stat.Mean(values, nil),
	}, nil
}

// Summary describes a loaded series as shown next to its plot
type Summary struct {
	Unit    thrust.Unit
	Samples int
	MinTime float64
	MaxTime float64
	HasPeak bool
	Peak    Peak
}

// Summarize computes the time span and peak of s. The span is taken over
// all samples, so it holds for files whose times are not sorted.
func Summarize(s thrust.Series) Summary {
	sum := Summary{Unit: s.Unit(), Samples: s.Len()}
	if s.Len() == 0 {
		return sum
	}

	times := s.Times()
	sum.MinTime = floats.Min(times)
	sum.MaxTime = floats.Max(times)
	sum.Peak, sum.HasPeak = PeakThrust(s)

	return sum
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
