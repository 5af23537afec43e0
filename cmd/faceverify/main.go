package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fanloyalty/faceverify/internal/config"
	"github.com/fanloyalty/faceverify/internal/errortypes"
	"github.com/fanloyalty/faceverify/internal/logger"
	"github.com/fanloyalty/faceverify/internal/recognizer"
	"github.com/fanloyalty/faceverify/internal/server"
	"github.com/fanloyalty/faceverify/internal/templatestore"
)

func main() {
	// Initialize logging first thing
	appLogger := setupLogging()

	appLogger.Info("Face Verification Service - Starting...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		errortypes.LogError(appLogger, err)
		appLogger.Fatal("Failed to load configuration")
	}

	// Configure logging based on config
	configureLogging(appLogger, cfg)

	// Initialize the template store
	store := templatestore.NewSQLiteTemplateStore()
	if err := store.Initialize(cfg.Store.DBPath); err != nil {
		errortypes.LogError(appLogger, errortypes.StorageError(err, "Failed to initialize SQLite template store"))
		appLogger.Fatal("Failed to initialize SQLite template store")
	}
	defer store.Close()
	appLogger.Info("SQLite template store initialized at %s", cfg.Store.DBPath)

	// Initialize the face extractor
	extractor := recognizer.NewDlibExtractor(cfg.Recognition.ModelsDir)
	if err := extractor.Initialize(); err != nil {
		errortypes.LogError(appLogger, errortypes.ExtractionError(err, "Failed to initialize face extractor"))
		appLogger.Fatal("Failed to initialize face extractor")
	}
	defer extractor.Close()
	appLogger.Info("Face extractor initialized from %s", cfg.Recognition.ModelsDir)

	// Initialize the HTTP server
	srv := server.New(cfg, store, extractor, appLogger)
	if err := srv.Initialize(); err != nil {
		errortypes.LogError(appLogger, err)
		appLogger.Fatal("Failed to initialize HTTP server")
	}

	// Handle graceful shutdown
	setupSignalHandler(srv, store, appLogger)

	appLogger.Info("Similarity threshold: %g", cfg.Recognition.SimilarityThreshold)
	appLogger.Info("Database: %s", cfg.Store.DBPath)

	// Start the HTTP server (this will block until the server is terminated)
	if err := srv.Listen(); err != nil {
		errortypes.LogError(appLogger, errortypes.InternalError(err, "HTTP server failed"))
		appLogger.Fatal("Failed to start HTTP server")
	}
}

// setupLogging configures and returns the application logger
func setupLogging() *logger.Logger {
	config := logger.DefaultConfig()

	// Try to get log level from environment variable
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		config.Level = logger.ParseLevel(levelStr)
	}

	appLogger := logger.New(config)
	logger.SetDefaultLogger(appLogger)

	return appLogger
}

// configureLogging applies the loaded configuration to the logger
func configureLogging(appLogger *logger.Logger, cfg *config.Config) {
	if cfg.Logging.Level != "" {
		appLogger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	}
	if cfg.Server.Debug {
		appLogger.SetLevel(logger.DEBUG)
	}
	if cfg.Logging.Format == "json" {
		appLogger.SetFormat(logger.JSON)
	}
	if cfg.Logging.File != "" {
		out, err := logger.RotatingFileOutput(cfg.Logging.File)
		if err != nil {
			appLogger.Warn("Failed to open log file %s: %v", cfg.Logging.File, err)
			return
		}
		appLogger.SetOutput(out)
	}
}

// setupSignalHandler sets up a signal handler for graceful shutdown.
func setupSignalHandler(srv *server.Server, store templatestore.TemplateStore, log *logger.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Received shutdown signal, terminating gracefully...")

		if err := srv.Shutdown(); err != nil {
			errortypes.LogError(log, errortypes.InternalError(err, "Error shutting down HTTP server"))
		}

		// Close the store to ensure all data is flushed
		if err := store.Close(); err != nil {
			errortypes.LogError(log, errortypes.StorageError(err, "Error closing store during shutdown"))
		} else {
			log.Info("Database closed successfully")
		}

		log.Info("Shutdown complete")
		os.Exit(0)
	}()
}
