package user

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestUpsertInsertAndUpdate(t *testing.T) {
	db := setupTestDB(t)
	syncedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	rec := Record{
		GraphUserID:       "graph-1",
		DisplayName:       "Jane Doe",
		Email:             "jdoe@example.com",
		UserPrincipalName: "jdoe@example.com",
		Department:        "Engineering",
		AccountEnabled:    true,
	}

	require.NoError(t, Upsert(db, rec, syncedAt))

	// same key again with changed fields must update in place
	rec.DisplayName = "Jane A. Doe"
	rec.Department = "Platform"
	require.NoError(t, Upsert(db, rec, syncedAt.Add(time.Hour)))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var row models.User
	require.NoError(t, db.Where("graph_user_id = ?", "graph-1").First(&row).Error)
	assert.Equal(t, "Jane A. Doe", row.DisplayName)
	assert.Equal(t, "Platform", row.Department)
}

func TestUpsertEmailFallsBackToPrincipalName(t *testing.T) {
	db := setupTestDB(t)

	rec := Record{
		GraphUserID:       "graph-1",
		DisplayName:       "No Mailbox",
		UserPrincipalName: "nomail@example.com",
	}

	require.NoError(t, Upsert(db, rec, time.Now()))

	var row models.User
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "nomail@example.com", row.Email)
}

func TestUpsertValidation(t *testing.T) {
	assert.ErrorIs(t, Upsert(nil, Record{GraphUserID: "x"}, time.Now()), ErrDBNil)
	assert.ErrorIs(t, Upsert(setupTestDB(t), Record{}, time.Now()), ErrGraphUserIDEmpty)
}

func TestIdentityMap(t *testing.T) {
	db := setupTestDB(t)
	syncedAt := time.Now()

	require.NoError(t, Upsert(db, Record{
		GraphUserID:       "graph-1",
		Email:             "JDoe@Example.com",
		UserPrincipalName: "JDoe@Example.com",
	}, syncedAt))
	require.NoError(t, Upsert(db, Record{
		GraphUserID:       "graph-2",
		Email:             "jsmith@example.com",
		UserPrincipalName: "jsmith.upn@example.com",
	}, syncedAt))

	ids, err := IdentityMap(db)
	require.NoError(t, err)

	// graph id, lower-cased email and lower-cased principal name all resolve
	assert.Equal(t, ids["graph-1"], ids["jdoe@example.com"])
	assert.Equal(t, ids["graph-2"], ids["jsmith@example.com"])
	assert.Equal(t, ids["graph-2"], ids["jsmith.upn@example.com"])
	assert.NotEqual(t, ids["graph-1"], ids["graph-2"])
	assert.NotContains(t, ids, "JDoe@Example.com")
}

func TestCountEnabled(t *testing.T) {
	db := setupTestDB(t)
	syncedAt := time.Now()

	require.NoError(t, Upsert(db, Record{GraphUserID: "graph-1", AccountEnabled: true}, syncedAt))
	require.NoError(t, Upsert(db, Record{GraphUserID: "graph-2", AccountEnabled: true}, syncedAt))
	require.NoError(t, Upsert(db, Record{GraphUserID: "graph-3", AccountEnabled: false}, syncedAt))

	count, err := CountEnabled(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGetAllOrdered(t *testing.T) {
	db := setupTestDB(t)
	syncedAt := time.Now()

	require.NoError(t, Upsert(db, Record{GraphUserID: "graph-1", DisplayName: "Zoe"}, syncedAt))
	require.NoError(t, Upsert(db, Record{GraphUserID: "graph-2", DisplayName: "Adam"}, syncedAt))

	users, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Adam", users[0].DisplayName)
	assert.Equal(t, "Zoe", users[1].DisplayName)
}
