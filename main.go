// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"bus-booking/cmd"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/wire"
	"bus-booking/pkg/database"
	"bus-booking/pkg/leasestore"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Connect the lease store
	store, err := newLeaseStore(config, logger)
	if err != nil {
		logger.Fatal("Failed to connect lease store", zap.Error(err))
	}
	defer store.Close()

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(db, repos, store, config, logger)

	// One cancellation signal drives the server, the hub and the sweeper
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.Hub.Run(ctx)
	go app.Sweeper.Run(ctx)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}

func newLeaseStore(config *utils.Config, logger *zap.Logger) (leasestore.Store, error) {
	if config.Hold.Store == "memory" {
		logger.Warn("Using in-memory lease store, holds do not survive restarts")
		return leasestore.NewMemory(), nil
	}
	return leasestore.NewRedis(config.Redis, logger)
}
