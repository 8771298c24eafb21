package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/konivrer/ranked/internal/alert"
	"github.com/konivrer/ranked/internal/config"
	"github.com/konivrer/ranked/internal/database"
	"github.com/konivrer/ranked/internal/engine"
	server "github.com/konivrer/ranked/internal/http"
	"github.com/konivrer/ranked/internal/metrics"
	"github.com/konivrer/ranked/internal/pubsub"
	"github.com/konivrer/ranked/internal/queue"
	"github.com/konivrer/ranked/internal/rating"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer dbTeardown()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	counters := metrics.NewStore(db)
	notifier := alert.NewClient(cfg.Slack.Token, cfg.Slack.ChannelID)
	events := pubsub.New(cfg.ProjectID)

	ratingStore := rating.NewStore(db)
	model := rating.NewModel(rating.DefaultConfig())

	poolCfg := queue.DefaultConfig()
	poolCfg.DryRun = cfg.DryRun
	pool := queue.New(poolCfg, metricsSvc, counters, notifier, events)
	poolCtx, poolCancel := context.WithCancel(context.Background())
	defer poolCancel()
	pool.Start(poolCtx)
	defer pool.Stop()

	eng := engine.New(ratingStore, model, pool, metricsSvc, counters, events)
	eng.OnMatchProposed(func(prop queue.MatchProposal) {
		log.Debug("Delivering match proposal", "proposalID", prop.ID, "playerA", prop.PlayerA, "playerB", prop.PlayerB, "quality", prop.QualityScore)
	})
	eng.OnMatchConfirmed(func(prop queue.MatchProposal) {
		log.Debug("Delivering match confirmation", "proposalID", prop.ID, "playerA", prop.PlayerA, "playerB", prop.PlayerB)
	})

	s := server.NewServer(
		eng,
		metricsSvc,
		metricsHandler,
		counters,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
