package main

import (
	"log"

	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/pkg/database"

	"github.com/joho/godotenv"
)

// One-shot tool: create default reorder point configurations for every
// product that does not have one yet. Safe to run repeatedly.
func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()

	// 3. Seed defaults
	reorderRepo := repository.NewReorderRepo(db)
	productRepo := repository.NewProductRepo(db)
	alerts := service.NewAlertService(reorderRepo, productRepo)

	created, err := alerts.SeedDefaults()
	if err != nil {
		log.Fatalf("Failed to seed reorder points: %v", err)
	}

	// 4. Report current alert state
	summary, err := alerts.Summary()
	if err != nil {
		log.Fatalf("Failed to compute alert summary: %v", err)
	}

	log.Printf("Created %d default reorder point configurations", created)
	log.Printf("Products currently needing attention: %d (critical=%d urgent=%d warning=%d)",
		summary.TotalActive, summary.Critical, summary.Urgent, summary.Warning)
}
