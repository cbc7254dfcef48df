package dashboard

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/go-m365-admin/go-m365-admin/internal/config"
	controller "github.com/go-m365-admin/go-m365-admin/internal/db/controller/dashboard"
	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.License{},
		&models.UserLicense{},
		&models.MailboxUsage{},
		&models.OneDriveUsage{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *Service) {
	t.Helper()

	app := fiber.New()
	db := newTestDB(t)

	s := Service{}
	s.Init(app, &config.Config{}, db)

	return app, db, &s
}

func get(t *testing.T, app *fiber.App, path string, out any) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out))
}

func TestGetStats(t *testing.T) {
	app, db, _ := newTestApp(t)

	require.NoError(t, db.Create(&models.User{
		GraphUserID: "graph-1", DisplayName: "Jane Doe",
		UserPrincipalName: "jdoe@contoso.com", Email: "jdoe@contoso.com",
		AccountEnabled: true,
	}).Error)
	require.NoError(t, db.Create(&models.License{
		SkuID: "sku-1", SkuPartNumber: "ENTERPRISEPACK", DisplayName: "Microsoft 365 E3",
		TotalUnits: 10, ConsumedUnits: 4, AvailableUnits: 6,
	}).Error)
	require.NoError(t, db.Create(&models.MailboxUsage{
		UserID: 1, ReportDate: "2024-05-01", StorageUsedBytes: 3000,
	}).Error)
	require.NoError(t, db.Create(&models.OneDriveUsage{
		UserID: 1, ReportDate: "2024-05-01", StorageUsedBytes: 4000,
	}).Error)

	var stats controller.Stats
	get(t, app, StatsPath, &stats)

	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(4), stats.ActiveLicenses)
	assert.Equal(t, int64(3000), stats.TotalMailboxBytes)
	assert.Equal(t, int64(4000), stats.TotalOneDriveBytes)
}

func TestGetStatsEmptyDatabase(t *testing.T) {
	app, _, _ := newTestApp(t)

	var stats controller.Stats
	get(t, app, StatsPath, &stats)

	assert.Equal(t, controller.Stats{}, stats)
}

func TestGetStatsDegradesOnStorageError(t *testing.T) {
	app, db, _ := newTestApp(t)

	require.NoError(t, db.Migrator().DropTable(&models.User{}))

	var stats controller.Stats
	get(t, app, StatsPath, &stats)

	assert.Equal(t, controller.Stats{}, stats)
}

func TestGetLicenses(t *testing.T) {
	app, db, _ := newTestApp(t)

	require.NoError(t, db.Create(&models.License{
		SkuID: "sku-1", SkuPartNumber: "ENTERPRISEPACK", DisplayName: "Microsoft 365 E3",
		TotalUnits: 10, ConsumedUnits: 8, AvailableUnits: 2,
	}).Error)

	var summary []controller.LicenseSummary
	get(t, app, LicensesPath, &summary)

	require.Len(t, summary, 1)
	assert.Equal(t, "Microsoft 365 E3", summary[0].DisplayName)
	assert.InDelta(t, 80.0, summary[0].Utilization, 0.01)
}

func TestGetLicensesDegradesOnStorageError(t *testing.T) {
	app, db, _ := newTestApp(t)

	require.NoError(t, db.Migrator().DropTable(&models.License{}))

	var summary []controller.LicenseSummary
	get(t, app, LicensesPath, &summary)

	assert.Empty(t, summary)
}

func TestGetStorageGrowth(t *testing.T) {
	app, db, s := newTestApp(t)
	s.now = func() time.Time {
		return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	}

	require.NoError(t, db.Create(&models.User{
		GraphUserID: "graph-1", DisplayName: "Jane Doe",
		UserPrincipalName: "jdoe@contoso.com", Email: "jdoe@contoso.com",
		AccountEnabled: true,
	}).Error)
	require.NoError(t, db.Create(&models.MailboxUsage{
		UserID: 1, ReportDate: "2024-05-10", StorageUsedBytes: 1000,
	}).Error)
	require.NoError(t, db.Create(&models.OneDriveUsage{
		UserID: 1, ReportDate: "2024-05-10", StorageUsedBytes: 2000,
	}).Error)

	var points []controller.StorageTrendPoint
	get(t, app, StorageGrowthPath+"?months=3", &points)

	require.NotEmpty(t, points)

	var may *controller.StorageTrendPoint

	for i := range points {
		if points[i].Month == "May 2024" {
			may = &points[i]
		}
	}

	require.NotNil(t, may, "expected a May 2024 data point")
	assert.Equal(t, int64(1000), may.MailboxBytes)
	assert.Equal(t, int64(2000), may.OneDriveBytes)
	assert.Equal(t, int64(3000), may.TotalBytes)
}

func TestGetUsers(t *testing.T) {
	app, db, s := newTestApp(t)
	s.now = func() time.Time {
		return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	}

	users := []models.User{
		{GraphUserID: "graph-1", DisplayName: "Jane Doe", UserPrincipalName: "jdoe@contoso.com", Email: "jdoe@contoso.com", AccountEnabled: true},
		{GraphUserID: "graph-2", DisplayName: "John Smith", UserPrincipalName: "jsmith@contoso.com", Email: "jsmith@contoso.com", AccountEnabled: false},
	}
	require.NoError(t, db.Create(&users).Error)

	var activity controller.UserActivity
	get(t, app, UsersPath, &activity)

	assert.Equal(t, int64(2), activity.Total)
	assert.Equal(t, int64(1), activity.Active)
	assert.Equal(t, int64(1), activity.Inactive)
}
