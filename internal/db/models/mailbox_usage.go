package models

import (
	"time"
)

// MailboxUsage holds one mailbox usage report row per user and report date.
// Historical rows accumulate over time, one per day a sync runs; the current
// usage of a user is the row with the most recent ReportDate, computed by the
// query layer.
type MailboxUsage struct {
	ID uint64 `gorm:"primaryKey" json:"id"`
	// UserID references the local user row, part of the upsert key.
	UserID uint64 `gorm:"uniqueIndex:ux_mailbox_usage_user_date,priority:1;not null" json:"user_id"`
	// ReportDate is the day the sync captured this row, part of the upsert key.
	ReportDate string `gorm:"uniqueIndex:ux_mailbox_usage_user_date,priority:2;size:10;not null" json:"report_date"`
	// User is the associated user row.
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	// UserPrincipalName mirrors the report's principal name column.
	UserPrincipalName string `gorm:"size:255" json:"user_principal_name"`
	// DisplayName mirrors the report's display name column.
	DisplayName string `gorm:"size:255" json:"display_name"`
	// StorageUsedBytes is the mailbox storage in use, never negative.
	StorageUsedBytes int64 `json:"storage_used_bytes"`
	// ItemCount is the number of items in the mailbox.
	ItemCount int64 `json:"item_count"`
	// IssueWarningQuotaBytes is the warning quota threshold.
	IssueWarningQuotaBytes int64 `json:"issue_warning_quota_bytes"`
	// ProhibitSendQuotaBytes is the prohibit-send quota threshold.
	ProhibitSendQuotaBytes int64 `json:"prohibit_send_quota_bytes"`
	// ProhibitSendReceiveQuotaBytes is the prohibit-send-receive quota threshold.
	ProhibitSendReceiveQuotaBytes int64 `json:"prohibit_send_receive_quota_bytes"`
	// IsDeleted indicates the mailbox was deleted in the tenant.
	IsDeleted bool `json:"is_deleted"`
	// DeletedDate is the deletion date reported by Graph, if any.
	DeletedDate string `gorm:"size:10" json:"deleted_date"`
	// CreatedDate is the mailbox creation date reported by Graph.
	CreatedDate string `gorm:"size:10" json:"created_date"`
	// LastActivityDate is the most recent mailbox activity reported by Graph.
	LastActivityDate string `gorm:"size:10" json:"last_activity_date"`
	// ReportRefreshDate is when Graph last refreshed the report data.
	ReportRefreshDate string `gorm:"size:10" json:"report_refresh_date"`
	// ReportPeriod is the rolling reporting window, e.g. D7.
	ReportPeriod string    `gorm:"size:8" json:"report_period"`
	UpdatedAt    time.Time `json:"updated_at"`
}
