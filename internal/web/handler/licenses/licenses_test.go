package licenses

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/go-m365-admin/go-m365-admin/internal/config"
	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.License{}, &models.UserLicense{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	app := fiber.New()
	db := newTestDB(t)

	s := Service{}
	s.Init(app, &config.Config{}, db)

	return app, db
}

func seed(t *testing.T, db *gorm.DB) models.License {
	t.Helper()

	lic := models.License{
		SkuID: "sku-1", SkuPartNumber: "ENTERPRISEPACK", DisplayName: "Microsoft 365 E3",
		TotalUnits: 10, ConsumedUnits: 2, AvailableUnits: 8,
	}
	require.NoError(t, db.Create(&lic).Error)

	users := []models.User{
		{GraphUserID: "graph-1", DisplayName: "Jane Doe", Email: "jdoe@contoso.com", UserPrincipalName: "jdoe@contoso.com", Department: "IT", AccountEnabled: true},
		{GraphUserID: "graph-2", DisplayName: "John Smith", Email: "jsmith@contoso.com", UserPrincipalName: "jsmith@contoso.com", Department: "Sales", AccountEnabled: true},
	}
	require.NoError(t, db.Create(&users).Error)

	for _, u := range users {
		require.NoError(t, db.Create(&models.UserLicense{
			UserID: u.ID, SkuID: lic.SkuID, LicenseID: lic.ID,
		}).Error)
	}

	return lic
}

func TestGetSummary(t *testing.T) {
	app, db := newTestApp(t)
	seed(t, db)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, SummaryPath, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var summary []map[string]any
	require.NoError(t, json.Unmarshal(body, &summary))
	require.Len(t, summary, 1)
	assert.Equal(t, "Microsoft 365 E3", summary[0]["display_name"])
	assert.InDelta(t, 2.0, summary[0]["assigned_users"], 0.01)
}

func TestGetUsers(t *testing.T) {
	app, db := newTestApp(t)
	lic := seed(t, db)

	path := fmt.Sprintf("/api/licenses/%d/users", lic.ID)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		License models.License `json:"license"`
		Users   []AssignedUser `json:"users"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))

	assert.Equal(t, "ENTERPRISEPACK", payload.License.SkuPartNumber)
	require.Len(t, payload.Users, 2)
	assert.Equal(t, "Jane Doe", payload.Users[0].DisplayName)
	assert.Equal(t, "IT", payload.Users[0].Department)
}

func TestGetUsersUnknownLicense(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/licenses/999/users", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetUsersInvalidID(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{"/api/licenses/abc/users", "/api/licenses/0/users", "/api/licenses/-3/users"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equalf(t, http.StatusBadRequest, resp.StatusCode, "path %s", path)
	}
}
