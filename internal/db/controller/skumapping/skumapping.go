// Package skumapping provides database operations for SKU product name
// mappings consumed by the name resolver.
package skumapping

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrSkuPartNumberEmpty is returned when the SKU part number is missing.
	ErrSkuPartNumberEmpty = errors.New("sku part number cannot be empty")
	// ErrProductNameEmpty is returned when the product name is missing.
	ErrProductNameEmpty = errors.New("product name cannot be empty")
)

// Reader exposes the mapping lookup needed by the name resolver cache.
type Reader struct {
	DB *gorm.DB
}

// ActiveMappings implements the resolver's mapping source: all active rows
// keyed by upper-cased SKU part number.
func (r Reader) ActiveMappings() (map[string]string, error) {
	return ActiveMappings(r.DB)
}

// ActiveMappings loads all active mapping rows keyed by upper-cased SKU part
// number.
func ActiveMappings(db *gorm.DB) (map[string]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []models.SkuProductMapping

	result := db.Where("is_active = ?", true).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	m := make(map[string]string, len(rows))

	for i := range rows {
		sku := strings.ToUpper(strings.TrimSpace(rows[i].SkuPartNumber))
		if sku != "" && rows[i].ProductName != "" {
			m[sku] = rows[i].ProductName
		}
	}

	return m, nil
}

// Set creates or updates a mapping keyed by sku_part_number.
func Set(db *gorm.DB, mapping models.SkuProductMapping) error {
	if db == nil {
		return ErrDBNil
	}

	if mapping.SkuPartNumber == "" {
		return ErrSkuPartNumberEmpty
	}

	if mapping.ProductName == "" {
		return ErrProductNameEmpty
	}

	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku_part_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"product_name", "is_active", "source", "notes", "updated_at",
		}),
	}).Create(&mapping).Error
}

// GetAll retrieves all mapping rows ordered by SKU part number.
func GetAll(db *gorm.DB) ([]models.SkuProductMapping, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []models.SkuProductMapping

	result := db.Order("sku_part_number ASC").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}
