// Package models contains database model definitions.
package models

import (
	"time"
)

// User represents a Microsoft 365 user account mirrored from the Graph API.
// Rows are created and updated by the users sync step, keyed for upsert by
// GraphUserID. Sync never deletes users; disabled accounts are tracked via
// AccountEnabled.
type User struct {
	// ID is the unique local identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// GraphUserID is the Microsoft Graph object id, the upsert key.
	GraphUserID string `gorm:"uniqueIndex:ux_users_graph_user_id;size:64;not null" json:"graph_user_id"`
	// DisplayName is the user's display name.
	DisplayName string `gorm:"size:255" json:"display_name"`
	// Email is the user's primary mail address, falling back to the principal name.
	Email string `gorm:"size:255" json:"email"`
	// UserPrincipalName is the sign-in name, also used to key report rows.
	UserPrincipalName string `gorm:"size:255;index" json:"user_principal_name"`
	// JobTitle is the user's job title.
	JobTitle string `gorm:"size:255" json:"job_title"`
	// Department is the user's department.
	Department string `gorm:"size:255" json:"department"`
	// OfficeLocation is the user's office location.
	OfficeLocation string `gorm:"size:255" json:"office_location"`
	// AccountEnabled indicates whether the account is enabled in the tenant.
	AccountEnabled bool `gorm:"index" json:"account_enabled"`
	// CreatedDateTime is when the account was created in the tenant.
	CreatedDateTime *time.Time `json:"created_date_time"`
	// LastSyncedAt is when the row was last written by a sync run.
	LastSyncedAt time.Time `json:"last_synced_at"`
	// CreatedAt is the timestamp when the row was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the row was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}
