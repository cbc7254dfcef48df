package models

import (
	"time"
)

// License represents a subscribed SKU snapshot from the Graph API.
// Values are an authoritative snapshot of the tenant's subscription, replaced
// wholesale on every licenses sync step, keyed for upsert by SkuID.
type License struct {
	// ID is the unique local identifier for the license.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// SkuID is the Graph SKU identifier, the upsert key.
	SkuID string `gorm:"uniqueIndex:ux_licenses_sku_id;size:64;not null" json:"sku_id"`
	// SkuPartNumber is the SKU code, e.g. ENTERPRISEPACK.
	SkuPartNumber string `gorm:"size:128;index" json:"sku_part_number"`
	// DisplayName is the resolved human readable product name.
	DisplayName string `gorm:"size:255" json:"display_name"`
	// TotalUnits is the number of prepaid enabled units.
	TotalUnits int `json:"total_units"`
	// ConsumedUnits is the number of assigned units.
	ConsumedUnits int `json:"consumed_units"`
	// AvailableUnits is total minus consumed, recomputed at write time.
	AvailableUnits int `json:"available_units"`
	// CapabilityStatus is the subscription capability status from Graph.
	CapabilityStatus string `gorm:"size:64" json:"capability_status"`
	// AppliesTo indicates what the SKU applies to (User or Company).
	AppliesTo string `gorm:"size:32" json:"applies_to"`
	// LastSyncedAt is when the row was last written by a sync run.
	LastSyncedAt time.Time `json:"last_synced_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
