// Package metrics provides Prometheus instrumentation for the pick tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PicksGraded counts settled picks, partitioned by terminal status.
	PicksGraded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "picktrack_picks_graded_total",
		Help: "Total number of picks graded to a terminal status",
	}, []string{"status"})

	// SettlementsUndone counts settlements reset back to pending.
	SettlementsUndone = promauto.NewCounter(prometheus.CounterOpts{
		Name: "picktrack_settlements_undone_total",
		Help: "Total number of settlements undone",
	})

	// LedgerWrites counts bankroll ledger rows, partitioned by type.
	LedgerWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "picktrack_ledger_writes_total",
		Help: "Total bankroll ledger rows written",
	}, []string{"type"})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "picktrack_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "picktrack_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)
