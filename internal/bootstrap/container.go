package bootstrap

import (
	"context"
	"log"
	"time"

	"projectmeats-be/internal/config"
	"projectmeats-be/internal/controller"
	"projectmeats-be/internal/pkg/logger"
	"projectmeats-be/internal/pkg/metrics"
	"projectmeats-be/internal/repository/cache"
	"projectmeats-be/internal/repository/unitofwork"
	"projectmeats-be/internal/service"
	"projectmeats-be/pkg/billing"

	pktNats "projectmeats-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	LicensingController controller.ILicensingController
	WebhookController   controller.IWebhookController

	// Services (exposed for the seed tool and tests)
	PlanService         service.PlanService
	SubscriptionService service.ISubscriptionService
	InvoiceService      service.IInvoiceService
	PaymentService      service.IPaymentService
	TenantResolver      service.ITenantResolver

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger  logger.ILogger
	Metrics *metrics.Metrics

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	c := &Container{Logger: sysLogger, Metrics: appMetrics}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS (optional relay target)
	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// Plan cache: Redis when reachable, otherwise in-process
	cacheTTL := time.Duration(cfg.Billing.PlanCacheTTLSeconds) * time.Second
	planCache := newPlanCache(cfg.App.RedisURL, cacheTTL, sysLogger, c)

	// Payment providers
	var provider billing.Provider = billing.NewNoopProvider()
	if cfg.Stripe.SecretKey != "" {
		provider = billing.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
		log.Printf("[INFO] Stripe billing provider enabled")
	} else {
		log.Printf("[WARN] STRIPE_SECRET_KEY not set, Stripe calls are disabled")
	}

	var snapClient service.SnapClient
	if cfg.Midtrans.ServerKey != "" {
		snapClient = service.NewSnapClient(cfg.Midtrans.ServerKey, cfg.Midtrans.IsProduction)
	}

	// 4. Services
	eventPublisher := service.NewEventPublisher(pubSub, cfg.Billing.EventTopic, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Billing.EventTopic, forwarder, appMetrics, sysLogger)

	c.PlanService = service.NewPlanService(uowFactory, planCache, appMetrics, sysLogger)
	c.SubscriptionService = service.NewSubscriptionService(
		uowFactory,
		c.PlanService,
		provider,
		eventPublisher,
		appMetrics,
		sysLogger,
		cfg.Billing,
	)
	c.InvoiceService = service.NewInvoiceService(uowFactory, eventPublisher, sysLogger)
	c.PaymentService = service.NewPaymentService(
		uowFactory,
		c.SubscriptionService,
		c.InvoiceService,
		provider,
		snapClient,
		cfg.Midtrans.ServerKey,
		eventPublisher,
		appMetrics,
		sysLogger,
	)
	c.TenantResolver = service.NewTenantResolver(uowFactory, cfg.AllowTenantFallback(), sysLogger)
	if cfg.Billing.TenantDevFallback && cfg.IsProduction() {
		log.Printf("[WARN] TENANT_DEV_FALLBACK is ignored in production")
	}

	// 5. Controllers
	c.LicensingController = controller.NewLicensingController(
		c.PlanService,
		c.SubscriptionService,
		c.InvoiceService,
		c.PaymentService,
		c.TenantResolver,
		cfg.Auth.JwtSecret,
	)
	c.WebhookController = controller.NewWebhookController(c.PaymentService, sysLogger)

	return c
}

func newPlanCache(redisURL string, ttl time.Duration, sysLogger logger.ILogger, c *Container) cache.PlanCache {
	if redisURL == "" {
		return cache.NewMemoryPlanCache(ttl)
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		sysLogger.Warn("CACHE", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{
			Addr: redisURL,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		sysLogger.Warn("CACHE", "Redis unreachable, using in-memory plan cache", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return cache.NewMemoryPlanCache(ttl)
	}

	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return cache.NewRedisPlanCache(rdb, ttl, sysLogger)
}

// Close releases bus, broker and cache connections and flushes the logger.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
