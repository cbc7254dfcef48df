// Package daemon is the composition root: it opens the database, builds the
// Graph client, the name resolver and the sync service, and starts the web
// service with an optional background sync scheduler.
package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/go-m365-admin/go-m365-admin/internal/config"
	"github.com/go-m365-admin/go-m365-admin/internal/db/controller/skumapping"
	"github.com/go-m365-admin/go-m365-admin/internal/db/dsn"
	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
	"github.com/go-m365-admin/go-m365-admin/internal/graph"
	"github.com/go-m365-admin/go-m365-admin/internal/logger"
	"github.com/go-m365-admin/go-m365-admin/internal/skuname"
	syncservice "github.com/go-m365-admin/go-m365-admin/internal/sync"
	"github.com/go-m365-admin/go-m365-admin/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg         *config.Config
	db          *gorm.DB
	syncService *syncservice.Service
	webService  *web.Service
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	dbDriver := gormmysql.Open(dsn.Create(cfg)) // open db with gorm mysql driver

	db, err := gorm.Open(dbDriver, &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.License{},
		&models.UserLicense{},
		&models.MailboxUsage{},
		&models.OneDriveUsage{},
		&models.SyncLog{},
		&models.SkuProductMapping{},
	); err != nil {
		panic("failed to migrate database")
	}

	resolver := skuname.NewResolver(skumapping.Reader{DB: db})

	daemon := &Daemon{
		cfg: cfg,
		db:  db,
	}

	// the sync service only exists with Graph credentials; the dashboard
	// works without them and the sync endpoint reports the missing config
	if err := cfg.Graph.Validate(); err != nil {
		log.Warn().Err(err).Msg("sync is disabled")
	} else {
		client, err := graph.New(graph.Config{
			TenantID:     cfg.Graph.TenantID,
			ClientID:     cfg.Graph.ClientID,
			ClientSecret: cfg.Graph.ClientSecret,
			BaseURL:      cfg.Graph.BaseURL,
			TokenURL:     cfg.Graph.TokenURL,
			Timeout:      cfg.Graph.RequestTimeout,
		})
		if err != nil {
			log.Warn().Err(err).Msg("sync is disabled")
		} else {
			daemon.syncService = syncservice.New(db, client, resolver)
		}
	}

	var runner web.SyncRunner
	if daemon.syncService != nil {
		runner = daemon.syncService
	}

	daemon.webService = web.New(cfg, db, runner, resolver)

	return daemon
}

// Start runs the web service and, when a sync interval is configured, the
// background sync scheduler. It blocks until the web service stops.
func (d *Daemon) Start() error {
	if d.cfg.Sync.Interval > 0 && d.syncService != nil {
		go d.runScheduler(d.cfg.Sync.Interval)
	}

	addr := fmt.Sprintf("%s:%d", d.cfg.Webserver.Domain, d.cfg.Webserver.Port)

	go d.webService.WaitShutdown()

	return d.webService.Start(addr)
}

// RunSync executes a one-shot sync run, used by the sync CLI command.
func (d *Daemon) RunSync(ctx context.Context, syncType string) (syncservice.RunResult, error) {
	if d.syncService == nil {
		return syncservice.RunResult{SyncType: syncType}, graph.ErrMissingCredentials
	}

	return d.syncService.Run(ctx, syncType)
}

// runScheduler runs full syncs on a fixed interval until the process exits.
// A run that overlaps a still-active one fails fast on the run lock and is
// skipped.
func (d *Daemon) runScheduler(interval time.Duration) {
	log.Info().Dur("interval", interval).Msg("starting background sync scheduler")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		result, err := d.syncService.Run(context.Background(), syncservice.TypeFull)

		switch {
		case err != nil:
			log.Error().Err(err).Msg("scheduled sync failed")
		case !result.Success:
			log.Warn().Msg("scheduled sync finished partially")
		}
	}
}
