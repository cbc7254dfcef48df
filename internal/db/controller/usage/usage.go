// Package usage provides database operations for mailbox and OneDrive usage
// report rows.
package usage

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrUserIDZero is returned when the usage row has no local user id.
	ErrUserIDZero = errors.New("user id cannot be zero")
	// ErrReportDateEmpty is returned when the usage row has no report date.
	ErrReportDateEmpty = errors.New("report date cannot be empty")
)

var mailboxConflict = clause.OnConflict{
	Columns: []clause.Column{{Name: "user_id"}, {Name: "report_date"}},
	DoUpdates: clause.AssignmentColumns([]string{
		"user_principal_name", "display_name", "storage_used_bytes",
		"item_count", "issue_warning_quota_bytes", "prohibit_send_quota_bytes",
		"prohibit_send_receive_quota_bytes", "is_deleted", "deleted_date",
		"created_date", "last_activity_date", "report_refresh_date",
		"report_period", "updated_at",
	}),
}

var onedriveConflict = clause.OnConflict{
	Columns: []clause.Column{{Name: "user_id"}, {Name: "report_date"}},
	DoUpdates: clause.AssignmentColumns([]string{
		"owner_principal_name", "owner_display_name", "site_url",
		"storage_used_bytes", "storage_allocated_bytes", "file_count",
		"active_file_count", "is_deleted", "last_activity_date",
		"report_refresh_date", "report_period", "updated_at",
	}),
}

// UpsertMailbox inserts or updates a mailbox usage row keyed by
// (user_id, report_date).
func UpsertMailbox(db *gorm.DB, row *models.MailboxUsage) error {
	if db == nil {
		return ErrDBNil
	}

	if row.UserID == 0 {
		return ErrUserIDZero
	}

	if row.ReportDate == "" {
		return ErrReportDateEmpty
	}

	return db.Clauses(mailboxConflict).Create(row).Error
}

// UpsertOneDrive inserts or updates a OneDrive usage row keyed by
// (user_id, report_date).
func UpsertOneDrive(db *gorm.DB, row *models.OneDriveUsage) error {
	if db == nil {
		return ErrDBNil
	}

	if row.UserID == 0 {
		return ErrUserIDZero
	}

	if row.ReportDate == "" {
		return ErrReportDateEmpty
	}

	return db.Clauses(onedriveConflict).Create(row).Error
}

// LatestMailboxPerUser returns the most recent mailbox usage row per user,
// derived by scanning report dates rather than a denormalized pointer.
func LatestMailboxPerUser(db *gorm.DB) (map[uint64]models.MailboxUsage, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []models.MailboxUsage

	result := db.Order("report_date ASC").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	latest := make(map[uint64]models.MailboxUsage)
	for i := range rows {
		latest[rows[i].UserID] = rows[i]
	}

	return latest, nil
}

// LatestOneDrivePerUser returns the most recent OneDrive usage row per user.
func LatestOneDrivePerUser(db *gorm.DB) (map[uint64]models.OneDriveUsage, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []models.OneDriveUsage

	result := db.Order("report_date ASC").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	latest := make(map[uint64]models.OneDriveUsage)
	for i := range rows {
		latest[rows[i].UserID] = rows[i]
	}

	return latest, nil
}

// StoragePoint is an aggregated storage reading for one report date.
type StoragePoint struct {
	ReportDate string
	TotalBytes int64
}

// MailboxStorageSince sums mailbox storage per report date starting at the
// given date (inclusive, YYYY-MM-DD).
func MailboxStorageSince(db *gorm.DB, fromDate string) ([]StoragePoint, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var points []StoragePoint

	result := db.Model(&models.MailboxUsage{}).
		Select("report_date", "SUM(storage_used_bytes) AS total_bytes").
		Where("report_date >= ?", fromDate).
		Group("report_date").
		Order("report_date ASC").
		Find(&points)
	if result.Error != nil {
		return nil, result.Error
	}

	return points, nil
}

// OneDriveStorageSince sums OneDrive storage per report date starting at the
// given date (inclusive, YYYY-MM-DD).
func OneDriveStorageSince(db *gorm.DB, fromDate string) ([]StoragePoint, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var points []StoragePoint

	result := db.Model(&models.OneDriveUsage{}).
		Select("report_date", "SUM(storage_used_bytes) AS total_bytes").
		Where("report_date >= ?", fromDate).
		Group("report_date").
		Order("report_date ASC").
		Find(&points)
	if result.Error != nil {
		return nil, result.Error
	}

	return points, nil
}
