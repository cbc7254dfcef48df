package models

import (
	"time"
)

// UserLicense represents a license assignment for one user.
// The lifecycle is replace-on-sync: the user-licenses sync step deletes all
// assignment rows of a user and re-inserts the current assignments reported
// by Graph. Zero rows for a user is a valid terminal state.
type UserLicense struct {
	ID uint64 `gorm:"primaryKey" json:"id"`
	// UserID references the local user row.
	UserID uint64 `gorm:"uniqueIndex:ux_user_licenses_user_sku,priority:1;not null" json:"user_id"`
	// SkuID is the Graph SKU identifier of the assigned license.
	SkuID string `gorm:"uniqueIndex:ux_user_licenses_user_sku,priority:2;size:64;not null" json:"sku_id"`
	// LicenseID references the local license row.
	LicenseID uint64 `gorm:"index;not null" json:"license_id"`
	// User is the associated user row.
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	// License is the associated license row.
	License License `gorm:"foreignKey:LicenseID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	// LastSyncedAt is when the assignment was last confirmed by a sync run.
	LastSyncedAt time.Time `json:"last_synced_at"`
	CreatedAt    time.Time `json:"created_at"`
}
