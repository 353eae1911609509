package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/weather-alert-bot/internal/config"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T, path string, clock clockwork.Clock) *SQLStore {
	t.Helper()
	s, err := OpenSQLite(path, clock)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_LoadEmpty(t *testing.T) {
	s := openTestSQLite(t, filepath.Join(t.TempDir(), "state.db"), nil)

	v, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestSQLite_SaveOverwritesSingleRow(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.January, 12, 6, 0, 0, 0, time.UTC))
	s := openTestSQLite(t, filepath.Join(t.TempDir(), "state.db"), clock)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, 5.0))
	clock.Advance(24 * time.Hour)
	require.NoError(t, s.Save(ctx, -3.0))

	var rows int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prior_temperature`).Scan(&rows))
	assert.Equal(t, 1, rows)

	snap, ok, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, -3.0, snap.Celsius)
	assert.Equal(t, time.Date(2026, time.January, 13, 6, 0, 0, 0, time.UTC), snap.ObservedAt)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	first, err := OpenSQLite(path, nil)
	require.NoError(t, err)
	require.NoError(t, first.Save(context.Background(), 12.3))
	require.NoError(t, first.Close())

	second := openTestSQLite(t, path, nil)
	v, ok, err := second.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 12.3, v)
}

func TestOpen_SelectsBackend(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(&config.Config{StateBackend: config.StateBackendFile, StatePath: filepath.Join(dir, "prior.txt")}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(&config.Config{StateBackend: config.StateBackendSQLite, StatePath: filepath.Join(dir, "state.db")}, clockwork.NewRealClock())
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(&config.Config{StateBackend: "redis"}, nil)
	require.Error(t, err)
}
