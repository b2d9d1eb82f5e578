// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LedgerOperations counts ledger operations by name and outcome. The outcome
// is "ok" or the error kind.
var LedgerOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "financas",
	Subsystem: "ledger",
	Name:      "operations_total",
	Help:      "Total ledger operations by operation and outcome.",
}, []string{"operation", "outcome"})

// LedgerDuration records how long each ledger operation took.
var LedgerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "financas",
	Subsystem: "ledger",
	Name:      "operation_duration_seconds",
	Help:      "Ledger operation latency, including storage round trips.",
	Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
}, []string{"operation"})

// RecordsRepaired counts stored records fixed on read.
var RecordsRepaired = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "financas",
	Subsystem: "ledger",
	Name:      "records_repaired_total",
	Help:      "Stored records repaired on read (missing id, inconsistent paid state).",
}, []string{"collection"})

// HTTPRequests counts API requests by route pattern and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "financas",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by method, route and status code.",
}, []string{"method", "route", "code"})

// ExportRuns counts spreadsheet exports by trigger and outcome.
var ExportRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "financas",
	Subsystem: "export",
	Name:      "runs_total",
	Help:      "Total spreadsheet exports by trigger (notification, periodic) and outcome.",
}, []string{"trigger", "outcome"})

// NotificationsPublished counts change notifications by outcome.
var NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "financas",
	Subsystem: "amqp",
	Name:      "notifications_published_total",
	Help:      "Total change notifications published by outcome.",
}, []string{"outcome"})

// ObserveLedger records one ledger operation.
func ObserveLedger(operation, outcome string, started time.Time) {
	LedgerOperations.WithLabelValues(operation, outcome).Inc()
	LedgerDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}
