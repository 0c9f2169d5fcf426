package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/classical-poetry/internal/api/rest"
	"github.com/palemoky/classical-poetry/internal/config"
	"github.com/palemoky/classical-poetry/internal/database"
	"github.com/palemoky/classical-poetry/internal/logger"
	"github.com/palemoky/classical-poetry/internal/metrics"
	"github.com/palemoky/classical-poetry/internal/poetry"
	"github.com/palemoky/classical-poetry/internal/search"
)

func main() {
	// Initialize logger
	debug := os.Getenv("GIN_MODE") != "release"
	logger.Init(debug)
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		logger.Warn("Failed to load config file, using defaults", zap.Error(err))
		cfg = config.Default()
	}

	logger.Info("Starting classical poetry API server",
		zap.String("database", cfg.Database.Path),
		zap.Int("port", cfg.Server.Port),
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Open database with configured connection pool
	db, err := database.Open(cfg.Database.Path, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	if !db.HasFullTextIndex() {
		logger.Warn("Full-text index unavailable, search uses substring matching only")
	}

	var m *metrics.Metrics
	var queryMetrics *metrics.QueryMetrics
	if cfg.Metrics.Enabled {
		m, err = metrics.New()
		if err != nil {
			logger.Fatal("Failed to register metrics", zap.Error(err))
		}
		queryMetrics = m.Query
	}

	svc := poetry.NewService(database.NewRepository(db), search.NewEngine(db), poetry.Config{
		PoemsPerPage:   cfg.Pagination.PoemsPerPage,
		AuthorsPerPage: cfg.Pagination.AuthorsPerPage,
		SearchLimit:    cfg.Search.ResultsLimit,
	}, queryMetrics)

	router := rest.SetupRouter(cfg, db, svc, m)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server started",
			zap.Int("port", cfg.Server.Port),
			zap.String("rest_api", fmt.Sprintf("http://localhost:%d/api/v1", cfg.Server.Port)),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
