package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Telegram Bot
	TelegramToken string

	// Google Sheets
	GoogleCredentialsPath string
	SpreadsheetID         string

	// Optional Postgres mirror
	DatabaseURL string

	// Ops API
	WebBind string
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:         os.Getenv("TELEGRAM_BOT_TOKEN"),
		GoogleCredentialsPath: getEnvDefault("GOOGLE_CREDENTIALS_PATH", "google_credential.json"),
		SpreadsheetID:         os.Getenv("GOOGLE_SPREADSHEET_ID"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		WebBind:               getEnvDefault("WEB_BIND", "0.0.0.0:3000"),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SPREADSHEET_ID is required")
	}

	return cfg, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
