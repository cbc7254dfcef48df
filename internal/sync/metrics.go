package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// syncRunsTotal counts finished runs and steps by type and status.
	syncRunsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "m365_sync_runs_total",
			Help: "Number of finished sync runs and steps, differentiated by type and status.",
		},
		[]string{"type", "status"},
	)

	// syncRecordsTotal counts records written by successful steps.
	syncRecordsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "m365_sync_records_total",
			Help: "Number of records written by successful sync steps, differentiated by step.",
		},
		[]string{"step"},
	)
)
