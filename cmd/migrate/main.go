// This file is used to run database migrations
// How to run:
// go run cmd/migrate/main.go
package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/vocalis-ai/vocalis/internal/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port := 0
	if p := os.Getenv("DB_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			log.Fatalf("Invalid DB_PORT: %v", err)
		}
		port = parsed
	}

	// db.New runs AutoMigrate as part of connecting
	if _, err := db.New(db.Options{
		Host:     os.Getenv("DB_HOST"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		Port:     port,
	}); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations applied")
}
