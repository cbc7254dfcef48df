// Package licenses provides the license detail endpoints.
package licenses

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-m365-admin/go-m365-admin/internal/config"
	dashboardctl "github.com/go-m365-admin/go-m365-admin/internal/db/controller/dashboard"
	"github.com/go-m365-admin/go-m365-admin/internal/db/controller/license"
	"github.com/go-m365-admin/go-m365-admin/internal/db/controller/userlicense"
	"github.com/go-m365-admin/go-m365-admin/internal/web/handler"
)

const (
	// Path is the base path of the license endpoints.
	Path = handler.APIPath + "/licenses"

	// SummaryPath is the path of the license summary endpoint.
	SummaryPath = Path + "/summary"

	// UsersPath is the path of the per-license user list endpoint.
	UsersPath = Path + "/:id/users"
)

// AssignedUser is one user holding the requested license.
type AssignedUser struct {
	ID                uint64 `json:"id"`
	DisplayName       string `json:"display_name"`
	Email             string `json:"email"`
	UserPrincipalName string `json:"user_principal_name"`
	Department        string `json:"department"`
	AccountEnabled    bool   `json:"account_enabled"`
}

// Service is the licenses handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the licenses handler.
var Handler = Service{}

// Init initializes the licenses handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db

	app.Get(SummaryPath, s.GetSummary)
	app.Get(UsersPath, s.GetUsers)
}

// GetSummary returns every license with consumption and assignment counts.
func (s *Service) GetSummary(c *fiber.Ctx) error {
	summary, err := dashboardctl.GetLicenseSummary(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load license summary")

		return c.JSON([]dashboardctl.LicenseSummary{})
	}

	return c.JSON(summary)
}

// GetUsers returns the users holding one license.
func (s *Service) GetUsers(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid license id",
		})
	}

	lic, err := license.GetByID(s.db, uint64(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "license not found",
			})
		}

		log.Error().Err(err).Int("license_id", id).Msg("failed to load license")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to load license",
		})
	}

	assignments, err := userlicense.GetByLicense(s.db, lic.ID)
	if err != nil {
		log.Error().Err(err).Int("license_id", id).Msg("failed to load license assignments")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to load license assignments",
		})
	}

	users := make([]AssignedUser, 0, len(assignments))

	for i := range assignments {
		u := assignments[i].User
		users = append(users, AssignedUser{
			ID:                u.ID,
			DisplayName:       u.DisplayName,
			Email:             u.Email,
			UserPrincipalName: u.UserPrincipalName,
			Department:        u.Department,
			AccountEnabled:    u.AccountEnabled,
		})
	}

	return c.JSON(fiber.Map{
		"license": lic,
		"users":   users,
	})
}
