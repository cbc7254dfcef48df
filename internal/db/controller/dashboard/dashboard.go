// Package dashboard provides the read-only aggregation queries behind the
// dashboard API. It only consumes rows written by the sync service.
package dashboard

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/go-m365-admin/go-m365-admin/internal/db/controller/usage"
	"github.com/go-m365-admin/go-m365-admin/internal/db/controller/user"
	"github.com/go-m365-admin/go-m365-admin/internal/db/controller/userlicense"
	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Stats is the dashboard overview headline.
type Stats struct {
	TotalUsers         int64 `json:"total_users"`
	ActiveLicenses     int64 `json:"active_licenses"`
	TotalMailboxBytes  int64 `json:"total_mailbox_bytes"`
	TotalOneDriveBytes int64 `json:"total_onedrive_bytes"`
}

// GetStats aggregates the overview statistics: enabled users, consumed license
// units and the storage totals of the latest usage row per user.
func GetStats(db *gorm.DB) (Stats, error) {
	if db == nil {
		return Stats{}, ErrDBNil
	}

	var stats Stats

	totalUsers, err := user.CountEnabled(db)
	if err != nil {
		return Stats{}, err
	}

	stats.TotalUsers = totalUsers

	var consumed struct{ Total int64 }
	if err := db.Model(&models.License{}).
		Select("COALESCE(SUM(consumed_units), 0) AS total").
		Scan(&consumed).Error; err != nil {
		return Stats{}, err
	}

	stats.ActiveLicenses = consumed.Total

	latestMailbox, err := usage.LatestMailboxPerUser(db)
	if err != nil {
		return Stats{}, err
	}

	for _, row := range latestMailbox {
		stats.TotalMailboxBytes += row.StorageUsedBytes
	}

	latestOneDrive, err := usage.LatestOneDrivePerUser(db)
	if err != nil {
		return Stats{}, err
	}

	for _, row := range latestOneDrive {
		stats.TotalOneDriveBytes += row.StorageUsedBytes
	}

	return stats, nil
}

// LicenseSummary is one license row enriched with its assignment count.
type LicenseSummary struct {
	ID             uint64  `json:"id"`
	SkuID          string  `json:"sku_id"`
	SkuPartNumber  string  `json:"sku_part_number"`
	DisplayName    string  `json:"display_name"`
	TotalUnits     int     `json:"total_units"`
	ConsumedUnits  int     `json:"consumed_units"`
	AvailableUnits int     `json:"available_units"`
	AssignedUsers  int64   `json:"assigned_users"`
	Utilization    float64 `json:"utilization_percent"`
}

// GetLicenseSummary returns every license with its consumption and the number
// of locally known assignment rows.
func GetLicenseSummary(db *gorm.DB) ([]LicenseSummary, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var licenses []models.License

	if err := db.Order("display_name ASC").Find(&licenses).Error; err != nil {
		return nil, err
	}

	counts, err := userlicense.CountPerLicense(db)
	if err != nil {
		return nil, err
	}

	summary := make([]LicenseSummary, 0, len(licenses))

	for i := range licenses {
		lic := &licenses[i]

		s := LicenseSummary{
			ID:             lic.ID,
			SkuID:          lic.SkuID,
			SkuPartNumber:  lic.SkuPartNumber,
			DisplayName:    lic.DisplayName,
			TotalUnits:     lic.TotalUnits,
			ConsumedUnits:  lic.ConsumedUnits,
			AvailableUnits: lic.AvailableUnits,
			AssignedUsers:  counts[lic.ID],
		}

		if lic.TotalUnits > 0 {
			s.Utilization = float64(lic.ConsumedUnits) / float64(lic.TotalUnits) * 100
		}

		summary = append(summary, s)
	}

	return summary, nil
}

// StorageTrendPoint is one month of aggregated storage usage.
type StorageTrendPoint struct {
	Month         string `json:"month"`
	MailboxBytes  int64  `json:"mailbox_bytes"`
	OneDriveBytes int64  `json:"onedrive_bytes"`
	TotalBytes    int64  `json:"total_bytes"`
}

// GetStorageGrowth aggregates mailbox and OneDrive storage per month over the
// given number of trailing months.
func GetStorageGrowth(db *gorm.DB, months int, now time.Time) ([]StorageTrendPoint, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if months <= 0 {
		months = 6
	}

	fromDate := now.AddDate(0, -months, 0).Format("2006-01-02")

	mailbox, err := usage.MailboxStorageSince(db, fromDate)
	if err != nil {
		return nil, err
	}

	onedrive, err := usage.OneDriveStorageSince(db, fromDate)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		mailbox  int64
		onedrive int64
	}

	buckets := make(map[time.Time]*bucket)

	monthOf := func(reportDate string) (time.Time, bool) {
		d, err := time.Parse("2006-01-02", reportDate)
		if err != nil {
			return time.Time{}, false
		}

		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC), true
	}

	for _, p := range mailbox {
		month, ok := monthOf(p.ReportDate)
		if !ok {
			continue
		}

		if _, ok := buckets[month]; !ok {
			buckets[month] = &bucket{}
		}

		buckets[month].mailbox += p.TotalBytes
	}

	for _, p := range onedrive {
		month, ok := monthOf(p.ReportDate)
		if !ok {
			continue
		}

		if _, ok := buckets[month]; !ok {
			buckets[month] = &bucket{}
		}

		buckets[month].onedrive += p.TotalBytes
	}

	keys := make([]time.Time, 0, len(buckets))
	for month := range buckets {
		keys = append(keys, month)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	points := make([]StorageTrendPoint, 0, len(keys))

	for _, month := range keys {
		b := buckets[month]
		points = append(points, StorageTrendPoint{
			Month:         month.Format("Jan 2006"),
			MailboxBytes:  b.mailbox,
			OneDriveBytes: b.onedrive,
			TotalBytes:    b.mailbox + b.onedrive,
		})
	}

	return points, nil
}

// UserActivity summarizes account states across the tenant.
type UserActivity struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	Inactive     int64 `json:"inactive"`
	NewThisMonth int64 `json:"new_this_month"`
}

// GetUserActivity counts total, enabled, disabled and this-month-created
// users.
func GetUserActivity(db *gorm.DB, now time.Time) (UserActivity, error) {
	if db == nil {
		return UserActivity{}, ErrDBNil
	}

	var activity UserActivity

	if err := db.Model(&models.User{}).Count(&activity.Total).Error; err != nil {
		return UserActivity{}, err
	}

	if err := db.Model(&models.User{}).
		Where("account_enabled = ?", true).
		Count(&activity.Active).Error; err != nil {
		return UserActivity{}, err
	}

	activity.Inactive = activity.Total - activity.Active

	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	if err := db.Model(&models.User{}).
		Where("created_date_time >= ?", startOfMonth).
		Count(&activity.NewThisMonth).Error; err != nil {
		return UserActivity{}, err
	}

	return activity, nil
}
