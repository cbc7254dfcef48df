package synclog

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.SyncLog{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestRecord(t *testing.T) {
	db := setupTestDB(t)

	startedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	completedAt := startedAt.Add(2500 * time.Millisecond)

	err := Record(db, "users", models.SyncStatusSuccess, 42, "", startedAt, completedAt)
	require.NoError(t, err)

	var row models.SyncLog
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "users", row.SyncType)
	assert.Equal(t, models.SyncStatusSuccess, row.Status)
	assert.Equal(t, 42, row.RecordsSynced)
	assert.Equal(t, int64(2500), row.DurationMS)
}

func TestRecordValidation(t *testing.T) {
	now := time.Now()

	assert.ErrorIs(t, Record(nil, "users", models.SyncStatusSuccess, 0, "", now, now), ErrDBNil)
	assert.ErrorIs(t, Record(setupTestDB(t), "", models.SyncStatusSuccess, 0, "", now, now), ErrSyncTypeEmpty)
}

func TestRecentNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := range 15 {
		startedAt := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, Record(db, "full", models.SyncStatusSuccess, i, "", startedAt, startedAt.Add(time.Minute)))
	}

	logs, err := Recent(db, 5)
	require.NoError(t, err)
	require.Len(t, logs, 5)
	assert.Equal(t, 14, logs[0].RecordsSynced)
	assert.Equal(t, 10, logs[4].RecordsSynced)

	// a non-positive limit falls back to the default
	logs, err = Recent(db, 0)
	require.NoError(t, err)
	assert.Len(t, logs, DefaultRecentLimit)
}
