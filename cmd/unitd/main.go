package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/config"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/api"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/db"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/importer"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/metrics"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/registry"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "unit-service ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Registry.BaseURL == "" {
		logger.Fatalf("registry.base_url must be configured; imports cannot run without the customer registry")
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	metrics.Init()

	// Create the store layer and the import pipeline
	appStore := store.NewGormStore(gormDB)
	registryClient := registry.NewClient(&cfg.Registry)
	imp := importer.New(appStore, registryClient)
	logger.Println("import pipeline initialized")

	// Initialize router
	router := api.NewRouter(&cfg.Server, appStore, imp)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for. In-flight imports abort and roll back
	// when their request context is cancelled.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
