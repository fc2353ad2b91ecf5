package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/adapters/handler"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/config"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/services"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Initialize Repository
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer repo.Close()

	// Initialize Services
	shareService := services.NewShareService(repo, cfg.MaxEntries, logger)
	comparisonService := services.NewComparisonService(cfg.MaxEntries, logger)

	// Initialize Router
	mux, err := handler.NewRouter(cfg, shareService, comparisonService, logger)
	if err != nil {
		logger.Fatal("Failed to build router", zap.Error(err))
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info("Server starting", zap.String("port", cfg.Port), zap.Int("max_entries", cfg.MaxEntries))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
