package models

import (
	"time"
)

// SyncStatus represents the outcome of a sync invocation.
type SyncStatus string

const (
	// SyncStatusSuccess indicates every record operation of the step succeeded.
	SyncStatusSuccess SyncStatus = "success"
	// SyncStatusError indicates the step aborted on an unrecoverable error.
	SyncStatusError SyncStatus = "error"
	// SyncStatusPartial indicates a full run where at least one step failed.
	SyncStatusPartial SyncStatus = "partial"
)

// SyncLog is the append-only audit trail of sync invocations, one row per
// step plus one aggregate row per full run. Rows are never updated or deleted.
type SyncLog struct {
	ID uint64 `gorm:"primaryKey" json:"id"`
	// SyncType names the step or run, e.g. users, licenses, full.
	SyncType string `gorm:"size:32;index;not null" json:"sync_type"`
	// Status is success, error or partial.
	Status SyncStatus `gorm:"type:varchar(16);not null" json:"status"`
	// RecordsSynced counts the records successfully upserted by the step.
	RecordsSynced int `json:"records_synced"`
	// ErrorMessage captures the step's failure reason, empty on success.
	ErrorMessage string `gorm:"size:1024" json:"error_message,omitempty"`
	// StartedAt is when the step started.
	StartedAt time.Time `gorm:"index" json:"started_at"`
	// CompletedAt is when the step finished.
	CompletedAt time.Time `json:"completed_at"`
	// DurationMS is the wall-clock step duration in milliseconds.
	DurationMS int64 `json:"duration_ms"`
}
