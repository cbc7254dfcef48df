// Package license provides database operations for subscribed SKU snapshots.
package license

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrSkuIDEmpty is returned when upserting a license without a SKU id.
	ErrSkuIDEmpty = errors.New("sku id cannot be empty")
)

// Record carries the remote SKU fields written by the licenses sync step.
type Record struct {
	SkuID            string
	SkuPartNumber    string
	DisplayName      string
	TotalUnits       int
	ConsumedUnits    int
	CapabilityStatus string
	AppliesTo        string
}

// Upsert inserts or updates a license row keyed by sku_id. Unit counts are
// clamped at zero and available units are recomputed from total and consumed
// rather than trusted from upstream.
func Upsert(db *gorm.DB, rec Record, syncedAt time.Time) error {
	if db == nil {
		return ErrDBNil
	}

	if rec.SkuID == "" {
		return ErrSkuIDEmpty
	}

	total := rec.TotalUnits
	if total < 0 {
		total = 0
	}

	consumed := rec.ConsumedUnits
	if consumed < 0 {
		consumed = 0
	}

	row := models.License{
		SkuID:            rec.SkuID,
		SkuPartNumber:    rec.SkuPartNumber,
		DisplayName:      rec.DisplayName,
		TotalUnits:       total,
		ConsumedUnits:    consumed,
		AvailableUnits:   total - consumed,
		CapabilityStatus: rec.CapabilityStatus,
		AppliesTo:        rec.AppliesTo,
		LastSyncedAt:     syncedAt,
	}

	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"sku_part_number", "display_name", "total_units", "consumed_units",
			"available_units", "capability_status", "applies_to",
			"last_synced_at", "updated_at",
		}),
	}).Create(&row)

	return result.Error
}

// GetAll retrieves all license rows ordered by display name.
func GetAll(db *gorm.DB) ([]models.License, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var licenses []models.License

	result := db.Order("display_name ASC").Find(&licenses)
	if result.Error != nil {
		return nil, result.Error
	}

	return licenses, nil
}

// GetByID retrieves one license row.
func GetByID(db *gorm.DB, id uint64) (*models.License, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var lic models.License

	result := db.First(&lic, id)
	if result.Error != nil {
		return nil, result.Error
	}

	return &lic, nil
}

// IdentityMap maps the remote sku_id to the local license id.
func IdentityMap(db *gorm.DB) (map[string]uint64, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var licenses []models.License

	result := db.Select("id", "sku_id").Find(&licenses)
	if result.Error != nil {
		return nil, result.Error
	}

	m := make(map[string]uint64, len(licenses))

	for i := range licenses {
		if licenses[i].SkuID != "" {
			m[licenses[i].SkuID] = licenses[i].ID
		}
	}

	return m, nil
}
