package main

import (
	"log"

	"github.com/joho/godotenv"

	"bridge-kita.backend/internal/config"
	"bridge-kita.backend/internal/infrastructure/datasources/postgres"
	"bridge-kita.backend/internal/infrastructure/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	if err := db.AutoMigrate(&models.Token{}, &models.TransferAttempt{}); err != nil {
		log.Fatalf("❌ migration failed: %v", err)
	}
	log.Println("✅ Schema migrated")
}
