// Package dashboard provides the dashboard read endpoints. Every endpoint
// degrades to an empty payload on storage errors; the dashboard renders an
// empty state instead of an error page.
package dashboard

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-m365-admin/go-m365-admin/internal/config"
	controller "github.com/go-m365-admin/go-m365-admin/internal/db/controller/dashboard"
	"github.com/go-m365-admin/go-m365-admin/internal/web/handler"
)

const (
	// Path is the base path of the dashboard endpoints.
	Path = handler.APIPath + "/dashboard"

	// StatsPath is the path of the overview statistics endpoint.
	StatsPath = Path + "/stats"

	// LicensesPath is the path of the license overview endpoint.
	LicensesPath = Path + "/licenses"

	// StorageGrowthPath is the path of the storage trend endpoint.
	StorageGrowthPath = Path + "/storage-growth"

	// UsersPath is the path of the user activity endpoint.
	UsersPath = Path + "/users"

	// DefaultTrendMonths is the trailing window of the storage trend.
	DefaultTrendMonths = 6
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
	now func() time.Time
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.now = time.Now

	app.Get(StatsPath, s.GetStats)
	app.Get(LicensesPath, s.GetLicenses)
	app.Get(StorageGrowthPath, s.GetStorageGrowth)
	app.Get(UsersPath, s.GetUsers)
}

// GetStats returns the overview statistics.
func (s *Service) GetStats(c *fiber.Ctx) error {
	stats, err := controller.GetStats(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load dashboard stats")

		return c.JSON(controller.Stats{})
	}

	return c.JSON(stats)
}

// GetLicenses returns every license with consumption and assignment counts.
func (s *Service) GetLicenses(c *fiber.Ctx) error {
	summary, err := controller.GetLicenseSummary(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load license summary")

		return c.JSON([]controller.LicenseSummary{})
	}

	return c.JSON(summary)
}

// GetStorageGrowth returns the monthly storage trend. The `months` query
// parameter selects the trailing window and defaults to six months.
func (s *Service) GetStorageGrowth(c *fiber.Ctx) error {
	months := c.QueryInt("months", DefaultTrendMonths)

	points, err := controller.GetStorageGrowth(s.db, months, s.now())
	if err != nil {
		log.Error().Err(err).Msg("failed to load storage growth")

		return c.JSON([]controller.StorageTrendPoint{})
	}

	return c.JSON(points)
}

// GetUsers returns the user activity summary.
func (s *Service) GetUsers(c *fiber.Ctx) error {
	activity, err := controller.GetUserActivity(s.db, s.now())
	if err != nil {
		log.Error().Err(err).Msg("failed to load user activity")

		return c.JSON(controller.UserActivity{})
	}

	return c.JSON(activity)
}
