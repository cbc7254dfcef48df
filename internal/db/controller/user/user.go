// Package user provides database operations for synchronized user accounts.
package user

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrGraphUserIDEmpty is returned when upserting a user without a graph id.
	ErrGraphUserIDEmpty = errors.New("graph user id cannot be empty")
)

// Record carries the remote user fields written by the users sync step.
type Record struct {
	GraphUserID       string
	DisplayName       string
	Email             string
	UserPrincipalName string
	JobTitle          string
	Department        string
	OfficeLocation    string
	AccountEnabled    bool
	CreatedDateTime   *time.Time
}

// Upsert inserts or updates a user row keyed by graph_user_id.
func Upsert(db *gorm.DB, rec Record, syncedAt time.Time) error {
	if db == nil {
		return ErrDBNil
	}

	if rec.GraphUserID == "" {
		return ErrGraphUserIDEmpty
	}

	email := rec.Email
	if email == "" {
		email = rec.UserPrincipalName
	}

	row := models.User{
		GraphUserID:       rec.GraphUserID,
		DisplayName:       rec.DisplayName,
		Email:             email,
		UserPrincipalName: rec.UserPrincipalName,
		JobTitle:          rec.JobTitle,
		Department:        rec.Department,
		OfficeLocation:    rec.OfficeLocation,
		AccountEnabled:    rec.AccountEnabled,
		CreatedDateTime:   rec.CreatedDateTime,
		LastSyncedAt:      syncedAt,
	}

	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "graph_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_name", "email", "user_principal_name", "job_title",
			"department", "office_location", "account_enabled",
			"created_date_time", "last_synced_at", "updated_at",
		}),
	}).Create(&row)

	return result.Error
}

// GetAll retrieves all user rows ordered by display name.
func GetAll(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User

	result := db.Order("display_name ASC").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// IdentityMap builds the remote-to-local identity map used by the sync steps.
// Keys are the graph user id plus the lowercased email and principal name, so
// report rows keyed by principal name resolve to the same local id.
func IdentityMap(db *gorm.DB) (map[string]uint64, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User

	result := db.Select("id", "graph_user_id", "email", "user_principal_name").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	m := make(map[string]uint64, len(users))

	for i := range users {
		u := &users[i]

		if u.GraphUserID != "" {
			m[u.GraphUserID] = u.ID
		}

		if u.Email != "" {
			m[strings.ToLower(u.Email)] = u.ID
		}

		if u.UserPrincipalName != "" {
			m[strings.ToLower(u.UserPrincipalName)] = u.ID
		}
	}

	return m, nil
}

// CountEnabled counts users with an enabled account.
func CountEnabled(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64

	result := db.Model(&models.User{}).Where("account_enabled = ?", true).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
