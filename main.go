// main.go
package main

import (
	"context"
	"log"
	"time"

	"library-lending/cmd"
	"library-lending/internal/data/repository"
	"library-lending/internal/wire"
	"library-lending/pkg/checkout"
	"library-lending/pkg/database"
	"library-lending/pkg/notify"
	"library-lending/pkg/utils"

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

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Checkout provider client
	checkoutClient, err := checkout.New(checkout.Config{
		SecretKey: config.Checkout.SecretKey,
		BaseURL:   config.Checkout.BaseURL,
		Timeout:   time.Duration(config.Checkout.TimeoutSeconds) * time.Second,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("Failed to init checkout client", zap.Error(err))
	}

	// Telegram notifier for the overdue sweep
	notifier, err := notify.NewTelegram(notify.TelegramConfig{
		BotToken: config.Telegram.BotToken,
		ChatID:   config.Telegram.ChatID,
		BaseURL:  config.Telegram.BaseURL,
	})
	if err != nil {
		logger.Fatal("Failed to init telegram notifier", zap.Error(err))
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger, checkoutClient, notifier)

	// Background sweeps
	sweepCtx, cancelSweeps := context.WithCancel(context.Background())
	defer cancelSweeps()
	cmd.StartSweeps(sweepCtx, app.Service.Sweep, config.Sweep, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
