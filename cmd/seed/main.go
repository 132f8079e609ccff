package main

import (
	"context"
	"errors"
	"log"
	"os"

	"projectmeats-be/internal/bootstrap"
	"projectmeats-be/internal/config"
	"projectmeats-be/internal/model"
	"projectmeats-be/internal/pkg/serverutils"
	"projectmeats-be/pkg/database"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	defer container.Close()
	ctx := context.Background()

	color.Cyan("Seeding subscription plans...")
	for _, plan := range defaultPlans() {
		created, err := container.PlanService.SavePlan(ctx, plan)
		if err != nil {
			color.Red("Error saving plan '%s': %v", plan.Name, err)
			os.Exit(1)
		}
		if created {
			color.Green("  created %s", plan.Name)
		} else {
			color.Yellow("  updated %s", plan.Name)
		}
	}

	plans, err := container.PlanService.ListActivePlans(ctx)
	if err != nil {
		log.Fatal(err)
	}
	color.Cyan("\nAvailable plans:")
	for _, p := range plans {
		line := "  " + p.Name + " - $" + p.MonthlyPrice.StringFixed(2) + "/month"
		if p.YearlyPrice.Valid && p.YearlyPrice.Decimal.IsPositive() {
			line += " ($" + p.YearlyPrice.Decimal.StringFixed(2) + "/year, " + p.YearlyDiscount().StringFixed(0) + "% discount)"
		}
		color.White(line)
	}

	admin, tenant, err := seedDefaultTenant(db, getEnv("SEED_ADMIN_EMAIL", "admin@projectmeats.local"), getEnv("SEED_TENANT_SUBDOMAIN", "demo"))
	if err != nil {
		color.Red("Error seeding default tenant: %v", err)
		os.Exit(1)
	}
	color.Green("\nTenant %s (%s) owned by %s", tenant.Subdomain, tenant.Id, admin.Email)

	if cfg.Auth.JwtSecret != "" {
		token, err := serverutils.GenerateToken(cfg.Auth.JwtSecret, admin.Id, jwt.MapClaims{"role": "admin"})
		if err != nil {
			log.Fatal(err)
		}
		color.Cyan("Admin bearer token:\n%s", token)
	}
}

// seedDefaultTenant creates the admin user and its tenant once; later runs
// return the existing rows.
func seedDefaultTenant(db *gorm.DB, email, subdomain string) (*model.User, *model.Tenant, error) {
	var admin model.User
	var tenant model.Tenant

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).First(&admin).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			admin = model.User{Email: email, FullName: "ProjectMeats Admin", IsActive: true}
			err = tx.Create(&admin).Error
		}
		if err != nil {
			return err
		}

		err = tx.Where("subdomain = ?", subdomain).First(&tenant).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tenant = model.Tenant{Name: "ProjectMeats Demo", Subdomain: subdomain, OwnerId: admin.Id, IsActive: true}
			err = tx.Create(&tenant).Error
		}
		if err != nil {
			return err
		}

		if admin.TenantId == nil {
			admin.TenantId = &tenant.Id
			return tx.Model(&admin).Update("tenant_id", tenant.Id).Error
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &admin, &tenant, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
