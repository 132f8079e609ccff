package main

import (
	"log"
	"os"

	"projectmeats-be/internal/model"
	"projectmeats-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting licensing schema migration (%s)...", database.DialectName(db))

	// 3. Pre-Migration: extensions GORM does not create
	if !database.IsSQLite(db) {
		color.Yellow("Step 1: Setting up extensions...")
		setupSQL := []string{
			`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
			`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		}
		for _, sql := range setupSQL {
			if err := db.Exec(sql).Error; err != nil {
				color.Red("Warn: Failed to execute setup SQL: %v. Continuing...", err)
			}
		}
	}

	// 4. AutoMigrate
	models := model.AllModels()
	color.Yellow("Step 2: Running AutoMigrate for %d tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("AutoMigrate failed: %v", err)
		log.Fatal(err)
	}

	color.Green("Migration complete.")
}
