package models

import (
	"time"
)

// SkuProductMapping maps a SKU part number to a human readable product name.
// Read-heavy and written rarely, via import tooling or manual correction; the
// name resolver caches active rows in process with a short TTL.
type SkuProductMapping struct {
	ID uint64 `gorm:"primaryKey" json:"id"`
	// SkuPartNumber is the SKU code, the upsert key.
	SkuPartNumber string `gorm:"uniqueIndex:ux_sku_product_mappings_sku;size:128;not null" json:"sku_part_number"`
	// ProductName is the display name the SKU resolves to.
	ProductName string `gorm:"size:255;not null" json:"product_name"`
	// IsActive disables a mapping without deleting its provenance. New
	// mappings are defaulted to active by the API layer.
	IsActive bool `gorm:"index" json:"is_active"`
	// Source records where the mapping came from, e.g. microsoft_csv or manual.
	Source string `gorm:"size:64" json:"source"`
	// Notes holds free-form provenance notes.
	Notes     string    `gorm:"size:512" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
