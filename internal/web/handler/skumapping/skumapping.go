// Package skumapping provides the SKU product name mapping endpoints used to
// override how licenses are displayed.
package skumapping

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-m365-admin/go-m365-admin/internal/config"
	controller "github.com/go-m365-admin/go-m365-admin/internal/db/controller/skumapping"
	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
	"github.com/go-m365-admin/go-m365-admin/internal/skuname"
	"github.com/go-m365-admin/go-m365-admin/internal/web/handler"
)

// Path is the path of the SKU mapping endpoints.
const Path = handler.APIPath + "/skumappings"

// Request is the POST body for creating or updating a mapping.
type Request struct {
	SkuPartNumber string `json:"sku_part_number" validate:"required,max=128"`
	ProductName   string `json:"product_name"    validate:"required,max=255"`
	// IsActive defaults to true when omitted.
	IsActive *bool  `json:"is_active"`
	Source   string `json:"source" validate:"max=64"`
	Notes    string `json:"notes"  validate:"max=512"`
}

// Service is the SKU mapping handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	resolver  *skuname.Resolver
	validator *validator.Validate
}

// Handler is the SKU mapping handler.
var Handler = Service{}

// Init initializes the SKU mapping handler. Writes are guarded by the same
// shared secret as the sync trigger.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, resolver *skuname.Resolver) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.resolver = resolver
	s.validator = validator.New()

	app.Get(Path, s.Get)
	app.Post(Path, handler.RequireSecret(cfg.Sync.Secret), s.Post)
}

// Get returns every mapping row, active or not, plus the built-in table.
func (s *Service) Get(c *fiber.Ctx) error {
	rows, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load SKU mappings")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to load SKU mappings",
		})
	}

	return c.JSON(fiber.Map{
		"mappings": rows,
		"builtin":  skuname.StaticMappings(),
	})
}

// Post creates or updates one mapping and invalidates the resolver cache so
// the next license sync picks the new name up immediately.
func (s *Service) Post(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	mapping := models.SkuProductMapping{
		SkuPartNumber: req.SkuPartNumber,
		ProductName:   req.ProductName,
		IsActive:      active,
		Source:        req.Source,
		Notes:         req.Notes,
	}

	if err := controller.Set(s.db, mapping); err != nil {
		log.Error().Err(err).Str("sku_part_number", req.SkuPartNumber).Msg("failed to store SKU mapping")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to store SKU mapping",
		})
	}

	if s.resolver != nil {
		s.resolver.Invalidate()
	}

	return c.JSON(fiber.Map{
		"success": true,
		"mapping": mapping,
	})
}
