package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/vocalis-ai/vocalis/internal/api/v1/routes"
	"github.com/vocalis-ai/vocalis/internal/app"
	"github.com/vocalis-ai/vocalis/internal/db"
	"github.com/vocalis-ai/vocalis/internal/logger"
	"github.com/vocalis-ai/vocalis/internal/pricing"
	"github.com/vocalis-ai/vocalis/internal/providers"
	"github.com/vocalis-ai/vocalis/internal/storage"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	logger.Initialize()

	database, err := db.New(db.Options{
		Host:     os.Getenv("DB_HOST"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	artifacts, err := storage.NewArtifactStore(os.Getenv("VOCALIS_AUDIO_DIR"))
	if err != nil {
		logger.Fatalf("Failed to initialize artifact storage: %v", err)
	}

	registry := providers.FromEnv()
	if len(registry.List()) == 0 {
		logger.Warn("No providers configured; set VOCALIS_PROVIDERS to enable synthesis")
	}

	fiberApp := app.New(app.Options{
		DB:        database,
		Registry:  registry,
		Pricing:   pricing.NewTable(pricing.DefaultRules()),
		Artifacts: artifacts,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = routes.DefaultPort
	}

	logger.Infof("Vocalis API listening on :%s", port)
	if err := fiberApp.Listen(":" + port); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}
