package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"projectmeats-be/internal/config"
	"projectmeats-be/internal/pkg/logger"
	"projectmeats-be/internal/pkg/metrics"
	"projectmeats-be/internal/repository/cache"
	"projectmeats-be/internal/repository/unitofwork"
	"projectmeats-be/internal/testutil"
	"projectmeats-be/pkg/billing"

	"gorm.io/gorm"
)

type recordedEvent struct {
	Type string
	Data map[string]interface{}
}

type fakeEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeEvents) Publish(_ context.Context, eventType string, data map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{Type: eventType, Data: data})
}

func (f *fakeEvents) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeProvider struct {
	canceled  []string
	customers int
	webhook   *billing.WebhookEvent
	parseErr  error
}

func (p *fakeProvider) CreateCustomer(_ context.Context, _ string, _ string) (string, error) {
	p.customers++
	return "cus_test", nil
}

func (p *fakeProvider) CreateSubscription(_ context.Context, _ string, _ string) (string, error) {
	return "sub_test", nil
}

func (p *fakeProvider) CancelSubscription(_ context.Context, id string) error {
	p.canceled = append(p.canceled, id)
	return nil
}

func (p *fakeProvider) ParseWebhook(_ []byte, _ string) (*billing.WebhookEvent, error) {
	if p.parseErr != nil {
		return nil, p.parseErr
	}
	return p.webhook, nil
}

type fixture struct {
	db       *gorm.DB
	factory  unitofwork.RepositoryFactory
	events   *fakeEvents
	metrics  *metrics.Metrics
	provider *fakeProvider
	plans    PlanService
	subs     ISubscriptionService
	invoices IInvoiceService
}

func defaultBillingConfig() config.BillingConfig {
	return config.BillingConfig{TrialDays: 14, PlanCacheTTLSeconds: 60, EventTopic: "billing.events"}
}

func newFixture(t *testing.T, cfg config.BillingConfig) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	f := &fixture{
		db:       db,
		factory:  unitofwork.NewRepositoryFactory(db),
		events:   &fakeEvents{},
		metrics:  metrics.NewForTest(),
		provider: &fakeProvider{},
	}
	log := logger.NewNopLogger()
	f.plans = NewPlanService(f.factory, cache.NewMemoryPlanCache(time.Minute), f.metrics, log)
	f.subs = NewSubscriptionService(f.factory, f.plans, f.provider, f.events, f.metrics, log, cfg)
	f.invoices = NewInvoiceService(f.factory, f.events, log)
	return f
}

// freezeClock pins the service clock for the duration of the test.
func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	t.Cleanup(SetClock(func() time.Time { return at }))
}
