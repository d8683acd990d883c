package history_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/history"
	"codeberg.org/mutker/thrustctl/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecorder(t *testing.T, path string) history.Recorder {
	t.Helper()
	rec, err := history.NewService(history.Config{DBPath: path, Enabled: true}, logger.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Close() })
	return rec
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder(t, filepath.Join(t.TempDir(), "nested", "history.db"))

	avg := 12.5
	first := &history.Run{
		RecordedAt: time.Unix(1700000000, 0),
		Source:     "first.csv",
		Samples:    3,
		Unit:       "ozf",
		Peak:       &history.PeakMetrics{Time: 0.4, Thrust: 30},
		Window:     &history.WindowMetrics{Start: 0, End: 1, Samples: 2, Average: &avg},
	}
	second := &history.Run{
		RecordedAt: time.Unix(1700000100, 0),
		Source:     "second.csv",
		Samples:    0,
		Unit:       "lbf",
		Window:     &history.WindowMetrics{Start: 100, End: 200},
	}
	require.NoError(t, rec.Record(ctx, first))
	require.NoError(t, rec.Record(ctx, second))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	runs, err := rec.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// newest first
	assert.Equal(t, "second.csv", runs[0].Source)
	assert.Nil(t, runs[0].Peak)
	require.NotNil(t, runs[0].Window)
	assert.Nil(t, runs[0].Window.Average, "empty window keeps a null average")

	got := runs[1]
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, first.RecordedAt.Unix(), got.RecordedAt.Unix())
	assert.Equal(t, "ozf", got.Unit)
	assert.Equal(t, 3, got.Samples)
	assert.Equal(t, first.Peak, got.Peak)
	require.NotNil(t, got.Window)
	require.NotNil(t, got.Window.Average)
	assert.Equal(t, 12.5, *got.Window.Average)
	assert.Equal(t, 2, got.Window.Samples)

	limited, err := rec.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecordRejectsInvalidRun(t *testing.T) {
	rec := newRecorder(t, filepath.Join(t.TempDir(), "history.db"))

	err := rec.Record(context.Background(), nil)
	assert.True(t, errors.HasCode(err, history.ErrInvalidRun))

	err = rec.Record(context.Background(), &history.Run{Unit: "ozf"})
	assert.True(t, errors.HasCode(err, history.ErrInvalidRun))
}

func TestRecordRejectsUnknownUnit(t *testing.T) {
	rec := newRecorder(t, filepath.Join(t.TempDir(), "history.db"))

	err := rec.Record(context.Background(), &history.Run{Source: "x.csv", Unit: "N", RecordedAt: time.Now()})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, history.ErrStorageAccess))
}

func TestRecordCancelledContext(t *testing.T) {
	rec := newRecorder(t, filepath.Join(t.TempDir(), "history.db"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rec.Record(ctx, &history.Run{Source: "x.csv", Unit: "ozf"})
	assert.True(t, errors.HasCode(err, history.ErrOperationTimeout))
}

func TestRepositoryCloseReleasesHandle(t *testing.T) {
	ctx := context.Background()
	repo, err := history.NewRepository(history.Config{DBPath: filepath.Join(t.TempDir(), "history.db"), Enabled: true}, logger.Default())
	require.NoError(t, err)

	require.NoError(t, repo.Close())

	// The checkpoint fails on a closed handle; Close still reports it and
	// the repository stays unusable.
	err = repo.Close()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, history.ErrStorageClose))
	assert.Contains(t, err.Error(), "checkpoint_wal")

	_, err = repo.List(ctx, 1)
	assert.Error(t, err)
}

func TestDisabledRecorder(t *testing.T) {
	rec, err := history.NewService(history.Config{}, logger.Default())
	require.NoError(t, err)

	assert.NoError(t, rec.Record(context.Background(), &history.Run{Source: "x.csv"}))
	_, err = rec.Recent(context.Background(), 5)
	assert.True(t, errors.HasCode(err, history.ErrDisabled))
	assert.NoError(t, rec.Close())
}

func TestEnabledWithoutPath(t *testing.T) {
	_, err := history.NewService(history.Config{Enabled: true}, logger.Default())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, history.ErrInvalidDBPath))
}

func TestSchemaMismatchIsBackedUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE schema_versions (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL);
		INSERT INTO schema_versions (version, applied_at) VALUES (99, datetime('now'));
		CREATE TABLE runs (legacy TEXT);`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	rec := newRecorder(t, path)
	require.NoError(t, rec.Record(context.Background(), &history.Run{Source: "x.csv", Unit: "ozf", RecordedAt: time.Now()}))

	backups, err := os.ReadDir(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Contains(t, backups[0].Name(), "history_v99_")

	db, err = sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	version, err := history.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, history.SchemaVersion, version)
}
