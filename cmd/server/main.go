package main

import (
	"course-payments/config"
	"course-payments/db"
	"course-payments/http"
	"course-payments/logger"
	"course-payments/services"
	netHttp "net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Load configuration and fail fast before accepting connections
	config.LoadConfig()
	if err := config.Validate(); err != nil {
		logger.Fatal("Configuration error: %v", err)
	}

	// Initialize Kafka producer (non-fatal, best-effort)
	services.InitProducer()

	// Initialize database
	if err := db.InitDB(); err != nil {
		logger.Fatal("Error initializing database: %v", err)
	}

	// Setup routes
	store := services.NewEntitlementStore()
	http.SetupRoutes(store)

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		addr := ":" + config.AppConfig.Port
		logger.Info("Server starting on %s", addr)
		if err := netHttp.ListenAndServe(addr, nil); err != nil {
			logger.Fatal("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	logger.Info("Shutdown signal received, closing Kafka producer...")

	if err := services.Close(); err != nil {
		logger.Error("Error closing Kafka producer: %v", err)
	}

	logger.Info("Server shutdown complete")
}
