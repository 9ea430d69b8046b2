package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"picktrack/api"
	"picktrack/config"
	"picktrack/database"
	"picktrack/events"
	"picktrack/metrics"
	"picktrack/repository"
	"picktrack/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.WithField("environment", cfg.Environment).Info("Starting pick tracker")

	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	eventBus := events.NewBus()
	registerMetricsSubscribers(eventBus)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	pickService := service.NewPickService(uowFactory)
	settlementService := service.NewSettlementService(uowFactory)
	bankrollService := service.NewBankrollService(uowFactory, cfg.StartingBankroll)

	server := api.NewServer(cfg, db, pickService, settlementService, bankrollService)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown error")
	}

	log.Info("Shutdown completed")
	return nil
}

// registerMetricsSubscribers wires settlement events into Prometheus counters.
func registerMetricsSubscribers(bus *events.Bus) {
	bus.Subscribe(events.EventTypePickSettled, func(ctx context.Context, e events.Event) {
		if settled, ok := e.(events.PickSettledEvent); ok {
			metrics.PicksGraded.WithLabelValues(string(settled.Status)).Inc()
		}
	})
	bus.Subscribe(events.EventTypePickUnsettled, func(ctx context.Context, e events.Event) {
		metrics.SettlementsUndone.Inc()
	})
	bus.Subscribe(events.EventTypeBankrollChange, func(ctx context.Context, e events.Event) {
		if change, ok := e.(events.BankrollChangeEvent); ok {
			metrics.LedgerWrites.WithLabelValues(string(change.TransactionType)).Inc()
		}
	})
}
