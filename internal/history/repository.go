package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

type sqliteRepository struct {
	db     *sql.DB
	logger logger.Logger
	mu     sync.Mutex
}

func NewRepository(cfg Config, log logger.Logger) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  cfg.DBPath,
			Error: err.Error(),
		})
	}

	dsn := cfg.DBPath + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}

	if err := ValidateAndUpdateSchema(db, cfg.DBPath, log); err != nil {
		db.Close()
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "schema_version",
			Error: err.Error(),
		})
	}

	log.Debug().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Msg("History repository initialized")

	return &sqliteRepository{
		db:     db,
		logger: log,
	}, nil
}

func (r *sqliteRepository) Insert(ctx context.Context, run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	var peakTime, peakThrust sql.NullFloat64
	if run.Peak != nil {
		peakTime = sql.NullFloat64{Float64: run.Peak.Time, Valid: true}
		peakThrust = sql.NullFloat64{Float64: run.Peak.Thrust, Valid: true}
	}

	var winStart, winEnd, winAvg sql.NullFloat64
	var winSamples sql.NullInt64
	if run.Window != nil {
		winStart = sql.NullFloat64{Float64: run.Window.Start, Valid: true}
		winEnd = sql.NullFloat64{Float64: run.Window.End, Valid: true}
		winSamples = sql.NullInt64{Int64: int64(run.Window.Samples), Valid: true}
		if run.Window.Average != nil {
			winAvg = sql.NullFloat64{Float64: *run.Window.Average, Valid: true}
		}
	}

	res, err := r.db.ExecContext(ctx, insertRunSQL,
		run.RecordedAt.Unix(),
		run.Source,
		int64(run.Samples),
		run.Unit,
		peakTime, peakThrust,
		winStart, winEnd, winSamples, winAvg,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to insert run")
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	if id, err := res.LastInsertId(); err == nil {
		run.ID = id
	}

	r.logger.Debug().Int64("id", run.ID).Str("source", run.Source).Msg("Run recorded")

	return nil
}

func (r *sqliteRepository) List(ctx context.Context, limit int) ([]Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	rows, err := r.db.QueryContext(ctx, selectRunsSQL, limit)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run                     Run
			recordedAt              int64
			peakTime, peakThrust    sql.NullFloat64
			winStart, winEnd, winAv sql.NullFloat64
			winSamples              sql.NullInt64
		)
		if err := rows.Scan(&run.ID, &recordedAt, &run.Source, &run.Samples, &run.Unit,
			&peakTime, &peakThrust, &winStart, &winEnd, &winSamples, &winAv); err != nil {
			return nil, errFactory.Wrap(ErrStorageAccess, err)
		}

		run.RecordedAt = time.Unix(recordedAt, 0)
		if peakThrust.Valid {
			run.Peak = &PeakMetrics{Time: peakTime.Float64, Thrust: peakThrust.Float64}
		}
		if winStart.Valid {
			run.Window = &WindowMetrics{
				Start:   winStart.Float64,
				End:     winEnd.Float64,
				Samples: int(winSamples.Int64),
			}
			if winAv.Valid {
				avg := winAv.Float64
				run.Window.Average = &avg
			}
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	return runs, nil
}

// Close checkpoints the WAL and closes the database. The handle is closed
// even when the checkpoint fails; the first error is returned.
func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		firstErr = closeError("checkpoint_wal", err)
	}

	if err := r.db.Close(); err != nil && firstErr == nil {
		firstErr = closeError("close_database", err)
	}

	if firstErr != nil {
		return firstErr
	}

	r.logger.Debug().Msg("History repository closed")

	return nil
}

func closeError(phase string, err error) error {
	return errors.New().WithData(ErrStorageClose, struct {
		Phase string
		Error string
	}{
		Phase: phase,
		Error: err.Error(),
	})
}
