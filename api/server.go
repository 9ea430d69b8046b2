// Package api exposes the grading, ledger and stake-sizing operations over
// HTTP. Transport only: all domain rules live in the service layer.
package api

import (
	"net/http"
	"strconv"
	"time"

	"picktrack/config"
	"picktrack/database"
	"picktrack/metrics"
	"picktrack/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the HTTP handlers and their dependencies
type Server struct {
	cfg         *config.Config
	db          *database.DB
	picks       service.PickService
	settlements service.SettlementService
	bankroll    service.BankrollService
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, db *database.DB, picks service.PickService, settlements service.SettlementService, bankroll service.BankrollService) *Server {
	return &Server{
		cfg:         cfg,
		db:          db,
		picks:       picks,
		settlements: settlements,
		bankroll:    bankroll,
	}
}

// Router builds the chi router with all routes mounted
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/picks", s.handleCreatePick)
		r.Get("/picks", s.handleListPicks)
		r.Post("/picks/{id}/undo", s.handleUndo)

		r.Post("/grade", s.handleGrade)
		r.Post("/grade/bulk", s.handleGradeBulk)

		r.Get("/bankroll", s.handleBankroll)
		r.Get("/bankroll/ledger", s.handleLedger)
		r.Get("/stake/suggest", s.handleSuggestStake)
	})

	return r
}

// instrument records request counts and latency per route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(ww.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}
