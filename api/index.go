package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/adapters/handler"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/config"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/services"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/logging"
)

var mux http.Handler

func init() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	// Note: On Vercel, db.sqlite is ephemeral unless using a remote SQL/Turso URL in DATABASE_URL
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}

	shareService := services.NewShareService(repo, cfg.MaxEntries, logger)
	comparisonService := services.NewComparisonService(cfg.MaxEntries, logger)
	mux, err = handler.NewRouter(cfg, shareService, comparisonService, logger)
	if err != nil {
		panic(err)
	}
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
