package config

import (
	"time"

	"github.com/go-m365-admin/go-m365-admin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Graph     Graph
	Sync      Sync
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
	DisableRecover bool   // disable recover middleware
}

// Graph holds the Microsoft Graph API connection settings.
type Graph struct {
	TenantID     string `toml:"tenantId"`
	ClientID     string `toml:"clientId"`
	ClientSecret string `toml:"clientSecret"`

	// BaseURL and TokenURL override the Graph and login endpoints.
	// Empty values select the public cloud endpoints.
	BaseURL  string `toml:"baseUrl"`
	TokenURL string `toml:"tokenUrl"`

	// RequestTimeout bounds every single Graph HTTP request.
	// Zero selects the 30 second default.
	RequestTimeout time.Duration `toml:"requestTimeout"`
}

// Sync holds the sync trigger settings.
type Sync struct {
	// Secret guards the sync trigger endpoint. Empty disables the check.
	Secret string `toml:"secret"`

	// Interval between scheduled full syncs. Zero disables the scheduler.
	Interval time.Duration `toml:"interval"`
}
