package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the licensing Prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	FeatureChecksTotal   *prometheus.CounterVec
	LimitsExceededTotal  *prometheus.CounterVec
	UsageRefreshesTotal  prometheus.Counter
	TrialsCreatedTotal   prometheus.Counter
	BillingEventsTotal   *prometheus.CounterVec
	WebhookEventsTotal   *prometheus.CounterVec
	PlanCacheLookupTotal *prometheus.CounterVec
}

// New creates and registers all collectors on the given registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "licensing_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "licensing_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		FeatureChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "licensing_feature_checks_total",
				Help: "Feature access decisions by feature and result",
			},
			[]string{"feature", "result"},
		),
		LimitsExceededTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "licensing_usage_limits_exceeded_total",
				Help: "Usage limit checks that found a resource over its plan limit",
			},
			[]string{"resource"},
		),
		UsageRefreshesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "licensing_usage_refreshes_total",
				Help: "Number of usage counter recomputations",
			},
		),
		TrialsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "licensing_trials_created_total",
				Help: "Number of trial subscriptions created",
			},
		),
		BillingEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "licensing_billing_events_total",
				Help: "Billing domain events relayed, by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		WebhookEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "licensing_webhook_events_total",
				Help: "Payment provider webhook deliveries by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		PlanCacheLookupTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "licensing_plan_cache_lookups_total",
				Help: "Plan catalog cache lookups by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.FeatureChecksTotal,
		m.LimitsExceededTotal,
		m.UsageRefreshesTotal,
		m.TrialsCreatedTotal,
		m.BillingEventsTotal,
		m.WebhookEventsTotal,
		m.PlanCacheLookupTotal,
	)

	return m
}

// NewForTest builds metrics on a private registry.
func NewForTest() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) RecordFeatureCheck(feature string, allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	m.FeatureChecksTotal.WithLabelValues(feature, result).Inc()
}

func (m *Metrics) RecordLimitExceeded(resource string) {
	m.LimitsExceededTotal.WithLabelValues(resource).Inc()
}

func (m *Metrics) RecordWebhook(provider, outcome string) {
	m.WebhookEventsTotal.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) RecordBillingEvent(eventType, outcome string) {
	m.BillingEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.PlanCacheLookupTotal.WithLabelValues(result).Inc()
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		route := ctx.Route().Path
		status := ctx.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		m.HTTPRequestsTotal.WithLabelValues(ctx.Method(), route, statusLabel(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(ctx.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
