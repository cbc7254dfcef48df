// Package sync provides the sync trigger and run history endpoints.
package sync

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-m365-admin/go-m365-admin/internal/config"
	"github.com/go-m365-admin/go-m365-admin/internal/db/controller/synclog"
	syncservice "github.com/go-m365-admin/go-m365-admin/internal/sync"
	"github.com/go-m365-admin/go-m365-admin/internal/web/handler"
)

// Path is the path of the sync trigger and history endpoints.
const Path = handler.APIPath + "/sync"

// Runner executes sync runs, satisfied by *sync.Service.
type Runner interface {
	Run(ctx context.Context, syncType string) (syncservice.RunResult, error)
}

// Service is the sync handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	db     *gorm.DB
	runner Runner
}

// Handler is the sync handler.
var Handler = Service{}

// Init initializes the sync handler. The trigger endpoint is guarded by the
// configured shared secret; the history endpoint is open.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, runner Runner) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.runner = runner

	app.Post(Path, handler.RequireSecret(cfg.Sync.Secret), s.Post)
	app.Get(Path, s.Get)
}

// Post triggers a sync run. The sync type is selected with the `type` query
// parameter and defaults to a full run. Responses carry a structured result
// even when the run fails.
func (s *Service) Post(c *fiber.Ctx) error {
	syncType := c.Query("type", syncservice.TypeFull)

	if s.runner == nil {
		log.Error().Msg("sync requested but no Graph client is configured")

		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "sync is not configured: missing Microsoft Graph API credentials",
		})
	}

	result, err := s.runner.Run(c.Context(), syncType)
	if err != nil {
		status := fiber.StatusInternalServerError

		switch {
		case errors.Is(err, syncservice.ErrUnknownSyncType):
			status = fiber.StatusBadRequest
		case errors.Is(err, syncservice.ErrSyncInProgress):
			status = fiber.StatusConflict
		}

		return c.Status(status).JSON(fiber.Map{
			"success":   false,
			"sync_type": syncType,
			"error":     err.Error(),
		})
	}

	return c.JSON(result)
}

// Get returns the most recent sync log rows, newest first. The `limit` query
// parameter caps the row count and defaults to 10.
func (s *Service) Get(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", synclog.DefaultRecentLimit)

	logs, err := synclog.Recent(s.db, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load sync logs")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to load sync logs",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"logs":    logs,
	})
}
