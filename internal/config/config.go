package config

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port             string
	DatabaseURL      string
	ProviderAPIURL   string
	ProviderAPIToken string
	WebhookSecret    string
}

// Load reads the configuration surface once at startup. A missing webhook
// secret is a permitted development mode, not a fatal error.
func Load() *Config {
	cfg := &Config{
		Port:             getenv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ProviderAPIURL:   getenv("PROVIDER_API_URL", "https://api.provider.example"),
		ProviderAPIToken: os.Getenv("PROVIDER_API_TOKEN"),
		WebhookSecret:    os.Getenv("WEBHOOK_SECRET"),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=reconciliation port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	return db
}
