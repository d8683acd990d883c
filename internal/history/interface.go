package history

import (
	"context"
	"time"
)

// Recorder defines the core domain interface
type Recorder interface {
	Record(ctx context.Context, run *Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// Repository defines the interface for run storage
type Repository interface {
	Insert(ctx context.Context, run *Run) error
	List(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// Run is one analysed test file
type Run struct {
	ID         int64
	RecordedAt time.Time
	Source     string
	Samples    int
	Unit       string
	Peak       *PeakMetrics
	Window     *WindowMetrics
}

type PeakMetrics struct {
	Time   float64
	Thrust float64
}

// WindowMetrics describes a requested average. Average is nil when the
// window held no samples.
type WindowMetrics struct {
	Start   float64
	End     float64
	Samples int
	Average *float64
}
