// Package userlicense provides database operations for license assignments.
package userlicense

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrUserIDZero is returned when the user id is missing.
	ErrUserIDZero = errors.New("user id cannot be zero")
)

// Assignment is one current license assignment for a user.
type Assignment struct {
	SkuID     string
	LicenseID uint64
}

// ReplaceForUser applies the full-reconciliation strategy for one user: all
// existing assignment rows are deleted and the current assignments are
// re-inserted. Zero assignments is a valid terminal state. Returns the number
// of rows inserted; deletions do not count as synced records.
func ReplaceForUser(db *gorm.DB, userID uint64, assignments []Assignment, syncedAt time.Time) (int, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	if userID == 0 {
		return 0, ErrUserIDZero
	}

	if err := db.Where("user_id = ?", userID).Delete(&models.UserLicense{}).Error; err != nil {
		return 0, err
	}

	inserted := 0

	for _, a := range assignments {
		row := models.UserLicense{
			UserID:       userID,
			SkuID:        a.SkuID,
			LicenseID:    a.LicenseID,
			LastSyncedAt: syncedAt,
		}

		if err := db.Create(&row).Error; err != nil {
			// a single bad row does not abort the reconciliation
			log.Error().Err(err).
				Uint64("user_id", userID).
				Str("sku_id", a.SkuID).
				Msg("failed to insert license assignment")

			continue
		}

		inserted++
	}

	return inserted, nil
}

// CountForUser counts the assignment rows of one user.
func CountForUser(db *gorm.DB, userID uint64) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64

	result := db.Model(&models.UserLicense{}).Where("user_id = ?", userID).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// GetByLicense retrieves the assignment rows of one license with their user
// rows preloaded.
func GetByLicense(db *gorm.DB, licenseID uint64) ([]models.UserLicense, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var assignments []models.UserLicense

	result := db.Preload("User").Where("license_id = ?", licenseID).Find(&assignments)
	if result.Error != nil {
		return nil, result.Error
	}

	return assignments, nil
}

// CountPerLicense counts assignment rows grouped by license id.
func CountPerLicense(db *gorm.DB) (map[uint64]int64, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	type row struct {
		LicenseID uint64
		Total     int64
	}

	var rows []row

	result := db.Model(&models.UserLicense{}).
		Select("license_id", "COUNT(*) AS total").
		Group("license_id").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	m := make(map[uint64]int64, len(rows))
	for _, r := range rows {
		m[r.LicenseID] = r.Total
	}

	return m, nil
}
