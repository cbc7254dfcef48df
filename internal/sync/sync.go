// Package sync orchestrates the reconciliation of Microsoft 365 tenant data
// into the local database. A run executes one named step, or the full
// pipeline in dependency order, and every step writes one sync log row.
package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-m365-admin/go-m365-admin/internal/db/controller/synclog"
	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
	"github.com/go-m365-admin/go-m365-admin/internal/graph"
	"github.com/go-m365-admin/go-m365-admin/internal/skuname"
)

// Sync types accepted by Run. TypeFull executes the whole pipeline; every
// other type selects a single step.
const (
	TypeFull         = "full"
	TypeUsers        = "users"
	TypeLicenses     = "licenses"
	TypeUserLicenses = "user-licenses"
	TypeMailbox      = "mailbox"
	TypeOneDrive     = "onedrive"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrClientNil is returned when no Graph client is configured.
	ErrClientNil = errors.New("graph client is nil")
	// ErrSyncInProgress is returned when another run holds the run lock.
	ErrSyncInProgress = errors.New("a sync run is already in progress")
	// ErrUnknownSyncType is returned for sync types outside the pipeline.
	ErrUnknownSyncType = errors.New("unknown sync type")
)

// Fetcher is the remote tenant surface consumed by the pipeline,
// satisfied by *graph.Client.
type Fetcher interface {
	Authenticate(ctx context.Context) error
	FetchUsers(ctx context.Context) ([]graph.UserRecord, error)
	FetchSubscribedSkus(ctx context.Context) ([]graph.SkuRecord, error)
	FetchMailboxUsageReport(ctx context.Context) ([]graph.MailboxUsageRow, error)
	FetchOneDriveUsageReport(ctx context.Context) ([]graph.OneDriveUsageRow, error)
}

// Step is one named pipeline stage. The full pipeline is an explicit ordered
// list so step dependencies are visible rather than implied by call order.
type Step struct {
	Type string
	run  func(s *Service, ctx context.Context) (int, error)
}

// pipeline is the full run in dependency order: later steps resolve foreign
// keys against rows written by earlier ones.
var pipeline = []Step{
	{Type: TypeUsers, run: (*Service).syncUsers},
	{Type: TypeLicenses, run: (*Service).syncLicenses},
	{Type: TypeUserLicenses, run: (*Service).syncUserLicenses},
	{Type: TypeMailbox, run: (*Service).syncMailbox},
	{Type: TypeOneDrive, run: (*Service).syncOneDrive},
}

// StepResult is the outcome of one pipeline step.
type StepResult struct {
	Success       bool   `json:"success"`
	RecordsSynced int    `json:"records_synced"`
	Error         string `json:"error,omitempty"`
}

// RunResult is the outcome of a whole run, returned to the trigger surface.
type RunResult struct {
	Success   bool                  `json:"success"`
	SyncType  string                `json:"sync_type"`
	Results   map[string]StepResult `json:"results"`
	Timestamp time.Time             `json:"timestamp"`
}

// Service runs sync pipelines against one database and one Graph tenant.
type Service struct {
	db       *gorm.DB
	client   Fetcher
	resolver *skuname.Resolver
	now      func() time.Time

	// mu serializes runs; a second caller fails fast instead of queueing.
	mu sync.Mutex
}

// New returns a sync service. The resolver may be nil, in which case SKU
// display names fall back to the raw part number.
func New(db *gorm.DB, client Fetcher, resolver *skuname.Resolver) *Service {
	return &Service{
		db:       db,
		client:   client,
		resolver: resolver,
		now:      time.Now,
	}
}

// Run executes the requested sync type and returns a structured result. The
// result is populated even when the run fails; the error return carries
// run-level failures (bad type, lock contention, authentication) that
// prevented any step from running.
func (s *Service) Run(ctx context.Context, syncType string) (RunResult, error) {
	result := RunResult{
		SyncType:  syncType,
		Results:   map[string]StepResult{},
		Timestamp: s.now(),
	}

	if s.db == nil {
		return result, ErrDBNil
	}

	if s.client == nil {
		return result, ErrClientNil
	}

	steps, err := s.selectSteps(syncType)
	if err != nil {
		return result, err
	}

	if !s.mu.TryLock() {
		return result, ErrSyncInProgress
	}
	defer s.mu.Unlock()

	startedAt := s.now()

	log.Info().Str("sync_type", syncType).Msg("starting sync run")

	if err := s.client.Authenticate(ctx); err != nil {
		completedAt := s.now()

		log.Error().Err(err).Str("sync_type", syncType).Msg("graph authentication failed")
		s.record(syncType, models.SyncStatusError, 0, err.Error(), startedAt, completedAt)
		syncRunsTotal.WithLabelValues(syncType, string(models.SyncStatusError)).Inc()

		return result, fmt.Errorf("graph authentication failed: %w", err)
	}

	var (
		total    int
		failures []string
	)

	for _, step := range steps {
		stepResult := s.runStep(ctx, step)
		result.Results[step.Type] = stepResult
		total += stepResult.RecordsSynced

		if !stepResult.Success {
			failures = append(failures, fmt.Sprintf("%s: %s", step.Type, stepResult.Error))
		}
	}

	completedAt := s.now()
	result.Success = len(failures) == 0

	// a full run writes one aggregate row on top of the per-step rows
	if syncType == TypeFull {
		status := models.SyncStatusSuccess
		if !result.Success {
			status = models.SyncStatusPartial
		}

		s.record(TypeFull, status, total, strings.Join(failures, "; "), startedAt, completedAt)
		syncRunsTotal.WithLabelValues(TypeFull, string(status)).Inc()
	}

	log.Info().
		Str("sync_type", syncType).
		Bool("success", result.Success).
		Int("records_synced", total).
		Dur("duration", completedAt.Sub(startedAt)).
		Msg("sync run finished")

	return result, nil
}

// selectSteps resolves a sync type to the steps it runs.
func (s *Service) selectSteps(syncType string) ([]Step, error) {
	if syncType == TypeFull {
		return pipeline, nil
	}

	for _, step := range pipeline {
		if step.Type == syncType {
			return []Step{step}, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSyncType, syncType)
}

// runStep executes one step, writes its sync log row and updates metrics.
// A fetch failure marks the step as failed; it never aborts the run.
func (s *Service) runStep(ctx context.Context, step Step) StepResult {
	startedAt := s.now()

	count, err := step.run(s, ctx)

	completedAt := s.now()

	if err != nil {
		log.Error().Err(err).Str("step", step.Type).Msg("sync step failed")
		s.record(step.Type, models.SyncStatusError, count, err.Error(), startedAt, completedAt)
		syncRunsTotal.WithLabelValues(step.Type, string(models.SyncStatusError)).Inc()

		return StepResult{Success: false, RecordsSynced: count, Error: err.Error()}
	}

	log.Info().
		Str("step", step.Type).
		Int("records_synced", count).
		Dur("duration", completedAt.Sub(startedAt)).
		Msg("sync step finished")

	s.record(step.Type, models.SyncStatusSuccess, count, "", startedAt, completedAt)
	syncRunsTotal.WithLabelValues(step.Type, string(models.SyncStatusSuccess)).Inc()
	syncRecordsTotal.WithLabelValues(step.Type).Add(float64(count))

	return StepResult{Success: true, RecordsSynced: count}
}

// record writes one sync log row. Logging failures are reported but never
// fail the run; the run history is advisory.
func (s *Service) record(
	syncType string,
	status models.SyncStatus,
	count int,
	errorMessage string,
	startedAt, completedAt time.Time,
) {
	if err := synclog.Record(s.db, syncType, status, count, errorMessage, startedAt, completedAt); err != nil {
		log.Error().Err(err).Str("sync_type", syncType).Msg("failed to write sync log row")
	}
}

// resolveName returns the display name for a SKU part number.
func (s *Service) resolveName(skuPartNumber string) string {
	if s.resolver == nil {
		return skuPartNumber
	}

	return s.resolver.Resolve(skuPartNumber)
}
