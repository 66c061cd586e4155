// Package observability exposes Prometheus metrics for the ledger and its
// supporting infrastructure. Metrics are package-level promauto collectors
// registered on the default registry and served at /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// Acknowledgments counts acknowledgment transactions by outcome.
// Outcomes: committed, replayed, user_not_found, task_not_found,
// payscale_not_found, store_error.
var Acknowledgments = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "shiftdesk",
	Subsystem: "ledger",
	Name:      "acknowledgments_total",
	Help:      "Total task acknowledgment transactions by outcome.",
}, []string{"outcome"})

// AcknowledgeDuration tracks end-to-end acknowledgment latency, lock wait
// included.
var AcknowledgeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "shiftdesk",
	Subsystem: "ledger",
	Name:      "acknowledge_duration_seconds",
	Help:      "End-to-end acknowledgment transaction duration.",
	Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
})

// CommissionCredited accumulates total commission credited across all users.
var CommissionCredited = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "shiftdesk",
	Subsystem: "ledger",
	Name:      "commission_credited_total",
	Help:      "Total commission credited by committed acknowledgments.",
})

// SpendDebited accumulates total spend debited across all users.
var SpendDebited = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "shiftdesk",
	Subsystem: "ledger",
	Name:      "spend_debited_total",
	Help:      "Total spend debited by committed acknowledgments.",
})

// ─── Snapshot Cache Metrics ─────────────────────────────────────────────────

// CacheHits counts snapshot reads served within the freshness window.
var CacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "shiftdesk",
	Subsystem: "cache",
	Name:      "hits_total",
	Help:      "Snapshot reads served from the cached copy.",
})

// CacheRefreshes counts snapshot refetches from the backing store.
var CacheRefreshes = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "shiftdesk",
	Subsystem: "cache",
	Name:      "refreshes_total",
	Help:      "Snapshot refetches from the backing store.",
})

// CacheInvalidations counts explicit invalidations after writes.
var CacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "shiftdesk",
	Subsystem: "cache",
	Name:      "invalidations_total",
	Help:      "Snapshot invalidations triggered by writes.",
})

// ─── Import Metrics ─────────────────────────────────────────────────────────

// SheetRowsImported counts rows imported from the published spreadsheet,
// by logical table.
var SheetRowsImported = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "shiftdesk",
	Subsystem: "sheets",
	Name:      "rows_imported_total",
	Help:      "Rows imported from the published spreadsheet by table.",
}, []string{"table"})
