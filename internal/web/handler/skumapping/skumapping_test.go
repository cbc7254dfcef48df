package skumapping

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/go-m365-admin/go-m365-admin/internal/config"
	controller "github.com/go-m365-admin/go-m365-admin/internal/db/controller/skumapping"
	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
	"github.com/go-m365-admin/go-m365-admin/internal/skuname"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.SkuProductMapping{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newTestApp(t *testing.T, secret string) (*fiber.App, *gorm.DB, *skuname.Resolver) {
	t.Helper()

	app := fiber.New()
	db := newTestDB(t)
	resolver := skuname.NewResolver(controller.Reader{DB: db})

	s := Service{}
	s.Init(app, &config.Config{Sync: config.Sync{Secret: secret}}, db, resolver)

	return app, db, resolver
}

func postJSON(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func TestPostCreatesMapping(t *testing.T) {
	app, db, _ := newTestApp(t, "")

	resp := postJSON(t, app, `{"sku_part_number":"CUSTOM_SKU","product_name":"Custom Plan","source":"manual"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var row models.SkuProductMapping
	require.NoError(t, db.Where("sku_part_number = ?", "CUSTOM_SKU").First(&row).Error)
	assert.Equal(t, "Custom Plan", row.ProductName)
	assert.True(t, row.IsActive, "mappings default to active")
	assert.Equal(t, "manual", row.Source)
}

func TestPostExplicitInactive(t *testing.T) {
	app, db, _ := newTestApp(t, "")

	resp := postJSON(t, app, `{"sku_part_number":"CUSTOM_SKU","product_name":"Custom Plan","is_active":false}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var row models.SkuProductMapping
	require.NoError(t, db.Where("sku_part_number = ?", "CUSTOM_SKU").First(&row).Error)
	assert.False(t, row.IsActive)
}

func TestPostValidation(t *testing.T) {
	app, _, _ := newTestApp(t, "")

	tests := []struct {
		name string
		body string
	}{
		{name: "missing sku", body: `{"product_name":"Custom Plan"}`},
		{name: "missing product name", body: `{"sku_part_number":"CUSTOM_SKU"}`},
		{name: "oversized sku", body: `{"sku_part_number":"` + strings.Repeat("A", 129) + `","product_name":"Custom Plan"}`},
		{name: "malformed body", body: `{"sku_part_number":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, app, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestPostRequiresSecret(t *testing.T) {
	app, _, _ := newTestApp(t, "hunter2")

	resp := postJSON(t, app, `{"sku_part_number":"CUSTOM_SKU","product_name":"Custom Plan"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(
		http.MethodPost,
		Path,
		strings.NewReader(`{"sku_part_number":"CUSTOM_SKU","product_name":"Custom Plan"}`),
	)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer hunter2")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPostInvalidatesResolverCache(t *testing.T) {
	app, _, resolver := newTestApp(t, "")

	// primes the override cache with the empty table
	assert.Equal(t, "Microsoft 365 E3", resolver.Resolve("ENTERPRISEPACK"))

	resp := postJSON(t, app, `{"sku_part_number":"ENTERPRISEPACK","product_name":"Contoso E3 Bundle"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Contoso E3 Bundle", resolver.Resolve("ENTERPRISEPACK"))
}

func TestGetListsMappingsAndBuiltins(t *testing.T) {
	app, db, _ := newTestApp(t, "")

	require.NoError(t, controller.Set(db, models.SkuProductMapping{
		SkuPartNumber: "CUSTOM_SKU", ProductName: "Custom Plan", IsActive: true,
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, Path, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		Mappings []models.SkuProductMapping `json:"mappings"`
		Builtin  map[string]string          `json:"builtin"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))

	require.Len(t, payload.Mappings, 1)
	assert.Equal(t, "CUSTOM_SKU", payload.Mappings[0].SkuPartNumber)
	assert.Equal(t, "Microsoft 365 E3", payload.Builtin["ENTERPRISEPACK"])
}
