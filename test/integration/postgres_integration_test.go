package integration

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"projectmeats-be/internal/config"
	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/model"
	"projectmeats-be/internal/pkg/logger"
	"projectmeats-be/internal/pkg/metrics"
	"projectmeats-be/internal/repository/cache"
	"projectmeats-be/internal/repository/unitofwork"
	"projectmeats-be/internal/service"
	"projectmeats-be/pkg/billing"
	"projectmeats-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresLicensingFlow(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)
	require.Equal(t, database.DialectPostgres, database.DialectName(db))
	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	ctx := context.Background()
	nop := logger.NewNopLogger()
	m := metrics.NewForTest()
	factory := unitofwork.NewRepositoryFactory(db)
	plans := service.NewPlanService(factory, cache.NewMemoryPlanCache(time.Minute), m, nop)
	subs := service.NewSubscriptionService(factory, plans, billing.NewNoopProvider(),
		service.NewEventPublisher(nil, "billing.events", nop), m, nop,
		config.BillingConfig{TrialDays: 14})

	suffix := uuid.NewString()[:8]
	plan := entity.NewPlan("Integration Free "+suffix, entity.PlanTierFree, decimal.Zero)
	_, err = plans.SavePlan(ctx, plan)
	require.NoError(t, err)

	owner := &model.User{Email: "it-" + suffix + "@example.com", FullName: "Integration Owner", IsActive: true}
	require.NoError(t, db.Create(owner).Error)
	tenant := &model.Tenant{Name: "Integration " + suffix, Subdomain: "it-" + suffix, OwnerId: owner.Id, IsActive: true}
	require.NoError(t, db.Create(tenant).Error)

	t.Cleanup(func() {
		db.Where("tenant_id = ?", tenant.Id).Delete(&model.Subscription{})
		db.Delete(tenant)
		db.Delete(owner)
		db.Delete(&model.SubscriptionPlan{}, "id = ?", plan.Id)
	})

	t.Run("concurrent trial creation yields one subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		ids := make([]uuid.UUID, 4)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sub, err := subs.GetOrCreateForTenant(ctx, tenant.Id)
				if assert.NoError(t, err) {
					ids[i] = sub.Id
				}
			}(i)
		}
		wg.Wait()

		for _, id := range ids[1:] {
			assert.Equal(t, ids[0], id)
		}

		var count int64
		require.NoError(t, db.Model(&model.Subscription{}).Where("tenant_id = ?", tenant.Id).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("usage refresh reads live counts", func(t *testing.T) {
		usage, err := subs.GetUsage(ctx, tenant.Id)
		require.NoError(t, err)
		assert.Equal(t, 0, usage.Usage.Suppliers)
		assert.Equal(t, "trialing", usage.Subscription.Status)
	})
}
