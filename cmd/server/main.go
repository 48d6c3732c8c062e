package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"log/slog"

	"github.com/wastewatch/wastewatch/internal/api"
	"github.com/wastewatch/wastewatch/internal/audit"
	"github.com/wastewatch/wastewatch/internal/auth"
	"github.com/wastewatch/wastewatch/internal/baseline"
	"github.com/wastewatch/wastewatch/internal/cloudsql"
	"github.com/wastewatch/wastewatch/internal/config"
	"github.com/wastewatch/wastewatch/internal/database"
	"github.com/wastewatch/wastewatch/internal/engine"
	"github.com/wastewatch/wastewatch/internal/events"
	"github.com/wastewatch/wastewatch/internal/logging"
	"github.com/wastewatch/wastewatch/internal/metrics"
	"github.com/wastewatch/wastewatch/internal/predictor"
	"github.com/wastewatch/wastewatch/internal/server"
)

func main() {
	// Load .env if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting wastewatch")

	// Static data loaded once at startup; each loader degrades gracefully
	// when its file is absent.
	calendar := events.LoadCalendar(cfg.Data.EventsFile, logger)
	baselines := baseline.Load(cfg.Data.BaselinesFile, logger)
	metadata, metadataLoaded := predictor.LoadMetadata(cfg.Data.MetadataFile, logger)

	// Model inference server. An empty URL leaves the models unloaded:
	// single predictions fail fast and batch items degrade.
	models := predictor.NewHTTPModelSet(cfg.Models.ServerURL, cfg.Models.Timeout)
	if !models.Loaded() {
		logger.Warn("MODEL_SERVER_URL not set, serving degraded predictions")
	}

	// Optional audit database. Without it the service still serves
	// predictions; only the admin audit API is disabled.
	dbURL, err := cloudsql.ResolveDatabaseURL(cfg.Database.URL)
	if err != nil {
		logger.Error("invalid database configuration", "error", err)
		os.Exit(1)
	}

	var auditLogger *audit.Logger
	var db *sql.DB
	if dbURL != "" {
		logger.Info("connecting to audit database", "url", cloudsql.RedactURL(dbURL))
		dbCfg := database.DefaultConfig()
		dbCfg.URL = dbURL
		db, err = database.Connect(context.Background(), dbCfg)
		if err != nil {
			logger.Error("failed to connect to audit database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		// Run pending migrations (non-fatal to allow the app to start
		// even if migrations fail)
		if err := database.RunMigrations(db, cfg.Database.MigrationsDir, logger); err != nil {
			logger.Warn("failed to run migrations, continuing anyway", "error", err)
		}

		auditLogger = audit.NewLogger(database.NewPredictionLogRepository(db), logger)
		logger.Info("prediction audit logging enabled")
	} else {
		logger.Info("DATABASE_URL not set, audit logging disabled")
	}

	collector, err := metrics.NewCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	eng := engine.New(engine.Deps{
		Models:         models,
		Calendar:       calendar,
		Baselines:      baselines,
		Metadata:       metadata,
		MetadataLoaded: metadataLoaded,
		Audit:          auditLogger,
		Metrics:        collector,
		Logger:         logger,
	})

	// Setup HTTP routes
	mux := http.NewServeMux()

	// Liveness endpoint, distinct from the richer /health
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", collector.Handler())

	// Load auth configuration
	authConfig := auth.LoadConfigFromEnv()
	logger.Info("auth configured", "jwt_secret_set", authConfig.JWTSecret != "change-this-secret")

	logger.Info("setting up REST API")
	api.SetupRoutes(mux, eng, auditLogger, authConfig, logger)

	// Start server
	srv := server.New(cfg.Server, logger, collector.InstrumentHandler(mux))

	go func() {
		logger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.Start(); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("wastewatch started successfully",
		"baselines", baselines.Len(),
		"events_configured", calendar.Configured(),
		"models_loaded", models.Loaded())
	logger.Info("API available", "url", fmt.Sprintf("http://localhost:%s", cfg.Server.Port))

	waitForSignal(logger)

	logger.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

func waitForSignal(logger *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	sig := <-c
	logger.Info("received signal", "signal", sig.String())
	signal.Stop(c)
	close(c)
}
