package models

import (
	"time"
)

// OneDriveUsage holds one OneDrive usage report row per user and report date.
// Like MailboxUsage, historical rows accumulate and the query layer derives
// the current usage from the most recent ReportDate per user.
type OneDriveUsage struct {
	ID uint64 `gorm:"primaryKey" json:"id"`
	// UserID references the local user row, part of the upsert key.
	UserID uint64 `gorm:"uniqueIndex:ux_onedrive_usage_user_date,priority:1;not null" json:"user_id"`
	// ReportDate is the day the sync captured this row, part of the upsert key.
	ReportDate string `gorm:"uniqueIndex:ux_onedrive_usage_user_date,priority:2;size:10;not null" json:"report_date"`
	// User is the associated user row.
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	// OwnerPrincipalName mirrors the report's owner principal name column.
	OwnerPrincipalName string `gorm:"size:255" json:"owner_principal_name"`
	// OwnerDisplayName mirrors the report's owner display name column.
	OwnerDisplayName string `gorm:"size:255" json:"owner_display_name"`
	// SiteURL is the OneDrive site URL.
	SiteURL string `gorm:"size:512" json:"site_url"`
	// StorageUsedBytes is the drive storage in use, never negative.
	StorageUsedBytes int64 `json:"storage_used_bytes"`
	// StorageAllocatedBytes is the allocated drive quota.
	StorageAllocatedBytes int64 `json:"storage_allocated_bytes"`
	// FileCount is the total number of files on the drive.
	FileCount int64 `json:"file_count"`
	// ActiveFileCount is the number of recently active files.
	ActiveFileCount int64 `json:"active_file_count"`
	// IsDeleted indicates the drive owner was deleted in the tenant.
	IsDeleted bool `json:"is_deleted"`
	// LastActivityDate is the most recent drive activity reported by Graph.
	LastActivityDate string `gorm:"size:10" json:"last_activity_date"`
	// ReportRefreshDate is when Graph last refreshed the report data.
	ReportRefreshDate string `gorm:"size:10" json:"report_refresh_date"`
	// ReportPeriod is the rolling reporting window, e.g. D7.
	ReportPeriod string    `gorm:"size:8" json:"report_period"`
	UpdatedAt    time.Time `json:"updated_at"`
}
