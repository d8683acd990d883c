package thrust

import (
	"strings"

	"codeberg.org/mutker/thrustctl/internal/errors"
)

// ouncesPerPound is the number of ounce-force in one pound-force
const ouncesPerPound = 16.0

// Unit is a unit of force
type Unit int

const (
	OZF Unit = iota
	LBF
)

func (u Unit) String() string {
	switch u {
	case OZF:
		return "ozf"
	case LBF:
		return "lbf"
	default:
		return "unknown"
	}
}

// ParseUnit accepts "ozf" or "lbf" in any case
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ozf":
		return OZF, nil
	case "lbf":
		return LBF, nil
	default:
		return OZF, errors.New().WithData(errors.ErrInvalidUnit, s)
	}
}

// Convert converts a thrust value between units. Negative and zero
// values pass through the same arithmetic.
func Convert(value float64, from, to Unit) float64 {
	switch {
	case from == to:
		return value
	case from == OZF && to == LBF:
		return value / ouncesPerPound
	case from == LBF && to == OZF:
		return value * ouncesPerPound
	default:
		return value
	}
}

// ConvertSeries returns a copy of s with every thrust value converted
// from one unit to another and the copy tagged with the target unit.
// s is left untouched.
func ConvertSeries(s Series, from, to Unit) Series {
	samples := make([]Sample, len(s.samples))
	for i, smp := range s.samples {
		samples[i] = Sample{Time: smp.Time, Thrust: Convert(smp.Thrust, from, to)}
	}

	return Series{samples: samples, unit: to}
}

// In is ConvertSeries from the series' own unit
func (s Series) In(to Unit) Series {
	return ConvertSeries(s, s.unit, to)
}
