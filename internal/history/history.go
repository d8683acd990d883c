// Package history keeps a sqlite log of analysed test runs.
package history

import (
	"context"

	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/logger"
)

const DefaultRecentLimit = 20

type service struct {
	repo Repository
	cfg  Config
}

// No-op implementation
type noopRecorder struct{}

func NewService(cfg Config, log logger.Logger) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	// If history is disabled, return a no-op recorder
	if !cfg.Enabled {
		log.Debug().Msg("Run history disabled, using no-op recorder")
		return &noopRecorder{}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to create history repository")
		return nil, err
	}

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, run *Run) error {
	errFactory := errors.New()

	if run == nil || run.Source == "" {
		return errFactory.New(ErrInvalidRun)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		return s.repo.Insert(ctx, run)
	}
}

func (s *service) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.repo.List(ctx, limit)
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}
	return nil
}

func (*noopRecorder) Record(_ context.Context, _ *Run) error {
	return nil
}

func (*noopRecorder) Recent(_ context.Context, _ int) ([]Run, error) {
	return nil, errors.New().New(ErrDisabled)
}

func (*noopRecorder) Close() error {
	return nil
}
