//go:build !sqlcipher

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lachiem1/meterUp/internal/billing"
)

func openTestDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "history.db")
}

func TestOpenRunsMigrations(t *testing.T) {
	ctx := context.Background()
	path := openTestDB(t)

	db, err := Open(ctx, path)
	require.NoError(t, err)
	var version int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT version FROM schema_migrations WHERE id = 1").Scan(&version))
	assert.Equal(t, schemaVersion, version)
	require.NoError(t, db.Close())

	// Reopening an up-to-date database is a no-op.
	db, err = Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	exists, err := Exists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, Wipe(path))
	exists, err = Exists(path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	path := openTestDB(t)

	db, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "UPDATE schema_migrations SET version = 99 WHERE id = 1")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Open(ctx, path)
	assert.ErrorContains(t, err, "newer than supported")
}

func TestHistoryRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, openTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewHistoryRepo(db)
	base := time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC)
	march := billing.Period{Month: 3, Year: 2023}
	april := billing.Period{Month: 4, Year: 2023}

	require.NoError(t, repo.RecordLookup(ctx, "0323123456", march, billing.OutcomeFound, base))
	require.NoError(t, repo.RecordLookup(ctx, "0423987654", april, billing.OutcomeFailed, base.Add(time.Minute)))

	got, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "0423987654", got[0].Identifier)
	assert.Equal(t, april, got[0].Period)
	assert.Equal(t, "failed", got[0].Outcome)
	assert.True(t, got[0].LookedUpAt.Equal(base.Add(time.Minute)))
	assert.Len(t, got[0].ID, 36)

	assert.Equal(t, "found", got[1].Outcome)
	assert.NotEqual(t, got[0].ID, got[1].ID)

	removed, err := repo.Prune(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	got, err = repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "0423987654", got[0].Identifier)
}

func TestSettingsRepo(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, openTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewSettingsRepo(db)
	_, ok, err := repo.Get(ctx, SettingLastBiller)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.UpsertMany(ctx, map[string]string{
		SettingLastMonth:  "March",
		SettingLastBiller: "987654",
	}))
	require.NoError(t, repo.UpsertMany(ctx, map[string]string{SettingLastBiller: "123"}))

	got, err := repo.GetMany(ctx, SettingLastMonth, SettingLastYear, SettingLastBiller)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{SettingLastMonth: "March", SettingLastBiller: "123"}, got)
}
