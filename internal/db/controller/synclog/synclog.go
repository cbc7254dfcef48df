// Package synclog provides the append-only sync run history.
package synclog

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrSyncTypeEmpty is returned when recording a log entry without a type.
	ErrSyncTypeEmpty = errors.New("sync type cannot be empty")
)

// DefaultRecentLimit caps Recent when no limit is given.
const DefaultRecentLimit = 10

// Record appends one sync log row. Pure insert, there is no update or delete
// path for sync history.
func Record(
	db *gorm.DB,
	syncType string,
	status models.SyncStatus,
	recordsSynced int,
	errorMessage string,
	startedAt, completedAt time.Time,
) error {
	if db == nil {
		return ErrDBNil
	}

	if syncType == "" {
		return ErrSyncTypeEmpty
	}

	row := models.SyncLog{
		SyncType:      syncType,
		Status:        status,
		RecordsSynced: recordsSynced,
		ErrorMessage:  errorMessage,
		StartedAt:     startedAt,
		CompletedAt:   completedAt,
		DurationMS:    completedAt.Sub(startedAt).Milliseconds(),
	}

	return db.Create(&row).Error
}

// Recent retrieves the most recent sync log rows ordered by start time,
// newest first.
func Recent(db *gorm.DB, limit int) ([]models.SyncLog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var logs []models.SyncLog

	result := db.Order("started_at DESC").Limit(limit).Find(&logs)
	if result.Error != nil {
		return nil, result.Error
	}

	return logs, nil
}
