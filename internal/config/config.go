package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Billing  BillingConfig
	Stripe   StripeConfig
	Midtrans MidtransConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret string
}

type BillingConfig struct {
	TrialDays int
	// ScopeUserCountToTenant switches the users counter from a global count
	// to users attached to the subscription's tenant.
	ScopeUserCountToTenant bool
	// TenantDevFallback lets principals without a tenant use the first tenant.
	// Ignored in production.
	TenantDevFallback   bool
	PlanCacheTTLSeconds int
	EventTopic          string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type MidtransConfig struct {
	ServerKey    string
	IsProduction bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.json"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Billing: BillingConfig{
			TrialDays:              getEnvAsInt("BILLING_TRIAL_DAYS", 14),
			ScopeUserCountToTenant: getEnvAsBool("BILLING_SCOPE_USER_COUNT_TO_TENANT", false),
			TenantDevFallback:      getEnvAsBool("TENANT_DEV_FALLBACK", false),
			PlanCacheTTLSeconds:    getEnvAsInt("PLAN_CACHE_TTL_SECONDS", 300),
			EventTopic:             getEnv("BILLING_EVENT_TOPIC", "billing.events"),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Midtrans: MidtransConfig{
			ServerKey:    getEnv("MIDTRANS_SERVER_KEY", ""),
			IsProduction: getEnvAsBool("MIDTRANS_IS_PRODUCTION", false),
		},
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

// AllowTenantFallback reports whether the dev-only first-tenant fallback is on.
func (c *Config) AllowTenantFallback() bool {
	return c.Billing.TenantDevFallback && !c.IsProduction()
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
