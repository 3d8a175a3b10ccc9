package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tokano3/warikanbot/internal/api"
	"github.com/tokano3/warikanbot/internal/bot"
	"github.com/tokano3/warikanbot/internal/config"
	"github.com/tokano3/warikanbot/internal/ledger"
	"github.com/tokano3/warikanbot/internal/ledger/gsheets"
	"github.com/tokano3/warikanbot/internal/ledger/postgres"
	"github.com/tokano3/warikanbot/internal/meal"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Google Sheets ledger
	sheetsLedger, err := gsheets.New(ctx, cfg.GoogleCredentialsPath, cfg.SpreadsheetID)
	if err != nil {
		log.Fatalf("Failed to create sheets ledger: %v", err)
	}
	ledgers := ledger.Multi{sheetsLedger}

	// Optional Postgres mirror
	var store *postgres.Store
	if cfg.DatabaseURL != "" {
		store, err = postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer store.Close()

		if err := store.RunMigrations(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		ledgers = append(ledgers, store)
	}

	// Meal session service
	svc := meal.NewService(ledgers)

	// Initialize Telegram bot
	tgBot, err := bot.New(cfg.TelegramToken, svc)
	if err != nil {
		log.Fatalf("Failed to create telegram bot: %v", err)
	}

	// Start Telegram bot
	if err := tgBot.Start(); err != nil {
		log.Fatalf("Failed to start telegram bot: %v", err)
	}
	defer tgBot.Stop()

	// Start API server
	apiServer := api.New(cfg.WebBind, svc, store)
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Printf("API server error: %v", err)
		}
	}()

	// Wait for signal to stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
}
