// Package thrust holds the time/thrust data model of a static motor test.
package thrust

// Sample is a single thrust reading
type Sample struct {
	Time   float64
	Thrust float64
}

// Series is an ordered, immutable run of samples in file order.
// The zero value is an empty OZF series.
type Series struct {
	samples []Sample
	unit    Unit
}

// NewSeries copies samples into a new Series tagged with unit
func NewSeries(samples []Sample, unit Unit) Series {
	cp := make([]Sample, len(samples))
	copy(cp, samples)
	return Series{samples: cp, unit: unit}
}

// Len returns the number of samples
func (s Series) Len() int {
	return len(s.samples)
}

// Unit returns the unit the thrust values are expressed in
func (s Series) Unit() Unit {
	return s.unit
}

// At returns the i-th sample
func (s Series) At(i int) Sample {
	return s.samples[i]
}

// Samples returns a copy of the samples
func (s Series) Samples() []Sample {
	cp := make([]Sample, len(s.samples))
	copy(cp, s.samples)
	return cp
}

// Times returns the time column
func (s Series) Times() []float64 {
	out := make([]float64, len(s.samples))
	for i, smp := range s.samples {
		out[i] = smp.Time
	}
	return out
}

// Thrusts returns the thrust column
func (s Series) Thrusts() []float64 {
	out := make([]float64, len(s.samples))
	for i, smp := range s.samples {
		out[i] = smp.Thrust
	}
	return out
}
