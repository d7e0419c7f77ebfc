package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/tejas020317/KeyRushers/internal/api"
	"github.com/tejas020317/KeyRushers/internal/config"
	"github.com/tejas020317/KeyRushers/internal/database"
	"github.com/tejas020317/KeyRushers/internal/identity"
	"github.com/tejas020317/KeyRushers/internal/logger"
	"github.com/tejas020317/KeyRushers/internal/middleware"
	"github.com/tejas020317/KeyRushers/internal/storage/postgres"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		logger.Error("Database connection failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := postgres.NewStore(ctx, db)
	cancel()
	if err != nil {
		logger.Error("Store initialization failed: %v", err)
		os.Exit(1)
	}

	verifier := identity.NewHTTPVerifier(cfg.IdentityURL)

	// Initialize routes
	router := api.SetupRouter(store, verifier, cfg)

	// Wrap router with CORS middleware
	handler := middleware.CORS(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Success("Server starting on port %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}
