package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/dbtest"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/metrics"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox/payloads"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox/registry"
)

const (
	defaultTestWait = 2 * time.Second
	pollTick        = 10 * time.Millisecond
)

var topics = config.PubSubConfig{DomainTopic: "domain", SMSTopic: "sms", NotificationSubscription: "notify"}

type fakePublisher struct {
	mu       sync.Mutex
	topic    string
	fail     []error
	messages []*gcppubsub.Message
	stopped  bool
}

func (p *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.fail) > 0 {
		err := p.fail[0]
		p.fail = p.fail[1:]
		if err != nil {
			return "", err
		}
	}
	p.messages = append(p.messages, msg)
	return "msg-id", nil
}

func (p *fakePublisher) Stop() { p.stopped = true }

type fixture struct {
	client     *db.Client
	relay      *Relay
	publishers map[string]*fakePublisher
	opened     map[string]int
	jobs       *prometheus.Registry
}

func newFixture(t *testing.T, maxAttempts int, configured ...string) *fixture {
	t.Helper()
	client := dbtest.Open(t)
	eventRegistry, err := registry.NewEventRegistry(topics)
	require.NoError(t, err)

	f := &fixture{
		client:     client,
		publishers: map[string]*fakePublisher{},
		opened:     map[string]int{},
		jobs:       prometheus.NewRegistry(),
	}
	for _, topic := range configured {
		f.publishers[topic] = &fakePublisher{topic: topic}
	}
	relay, err := NewRelay(RelayParams{
		Outbox:     config.OutboxConfig{BatchSize: 10, MaxAttempts: maxAttempts},
		Logger:     logger.Nop(),
		DB:         client,
		Repository: outbox.NewRepository(client.DB()),
		DLQ:        outbox.NewDLQRepository(client.DB()),
		Registry:   eventRegistry,
		Publishers: func(topic string) topicPublisher {
			f.opened[topic]++
			if pub, ok := f.publishers[topic]; ok {
				return pub
			}
			return nil
		},
		Metrics: metrics.NewJobMetrics(f.jobs),
	})
	require.NoError(t, err)
	f.relay = relay
	return f
}

func (f *fixture) emit(t *testing.T, events ...outbox.DomainEvent) {
	t.Helper()
	emitter := outbox.NewService(outbox.NewRepository(f.client.DB()), logger.Nop())
	require.NoError(t, f.client.WithTx(context.Background(), func(tx *gorm.DB) error {
		for _, event := range events {
			if err := emitter.Emit(context.Background(), tx, event); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (f *fixture) rows(t *testing.T) []models.OutboxEvent {
	t.Helper()
	var rows []models.OutboxEvent
	require.NoError(t, f.client.DB().Order("created_at ASC").Find(&rows).Error)
	return rows
}

func orderPlaced(id string) outbox.DomainEvent {
	return outbox.DomainEvent{
		EventType:     enums.EventOrderPlaced,
		AggregateType: enums.AggregateOrder,
		AggregateID:   id,
		Data:          payloads.OrderPlacedEvent{OrderID: id, BuyerID: "buyer-1", TotalAmount: 25000, PaymentMethod: enums.PaymentMethodUPI, ItemCount: 1},
	}
}

func otpRequested(mobile string) outbox.DomainEvent {
	return outbox.DomainEvent{
		EventType:     enums.EventOtpRequested,
		AggregateType: enums.AggregateOtpChallenge,
		AggregateID:   mobile,
		Data:          payloads.OtpRequestedEvent{MobileNumber: mobile, Code: "482913", ExpiresAt: 99},
	}
}

func TestRelayRoutesEventsByTopic(t *testing.T) {
	f := newFixture(t, 3, "domain", "sms")
	f.emit(t, orderPlaced("ord-1"), otpRequested("9876543210"), orderPlaced("ord-2"))

	processed, err := f.relay.processBatch(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)

	require.Len(t, f.publishers["domain"].messages, 2)
	require.Len(t, f.publishers["sms"].messages, 1)
	sms := f.publishers["sms"].messages[0]
	assert.Equal(t, "otp_requested", sms.Attributes["event_type"])
	assert.Equal(t, "9876543210", sms.Attributes["aggregate_id"])
	assert.NotEmpty(t, sms.Attributes["event_id"])

	for _, row := range f.rows(t) {
		assert.NotNil(t, row.PublishedAt, "row %s should be published", row.ID)
	}
	assert.Equal(t, 1, f.opened["domain"], "publishers are reused across messages")

	processed, err = f.relay.processBatch(context.Background())
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestRelayRetriesTransientFailures(t *testing.T) {
	f := newFixture(t, 3, "domain", "sms")
	f.publishers["domain"].fail = []error{errors.New("unavailable"), nil}
	f.emit(t, orderPlaced("ord-1"), orderPlaced("ord-2"))

	_, err := f.relay.processBatch(context.Background())
	require.NoError(t, err)

	var failed, published []models.OutboxEvent
	for _, row := range f.rows(t) {
		if row.PublishedAt == nil {
			failed = append(failed, row)
		} else {
			published = append(published, row)
		}
	}
	require.Len(t, failed, 1)
	require.Len(t, published, 1)
	assert.Equal(t, 1, failed[0].AttemptCount)
	require.NotNil(t, failed[0].LastError)
	assert.Equal(t, "unavailable", *failed[0].LastError)

	_, err = f.relay.processBatch(context.Background())
	require.NoError(t, err)
	for _, row := range f.rows(t) {
		assert.NotNil(t, row.PublishedAt)
		assert.Nil(t, row.LastError)
	}
	assert.Len(t, f.publishers["domain"].messages, 2)
}

func TestRelayDeadLettersAfterMaxAttempts(t *testing.T) {
	f := newFixture(t, 2, "domain", "sms")
	f.publishers["domain"].fail = []error{errors.New("boom"), errors.New("boom again")}
	f.emit(t, orderPlaced("ord-1"))

	for i := 0; i < 2; i++ {
		_, err := f.relay.processBatch(context.Background())
		require.NoError(t, err)
	}

	var dlq []models.OutboxDLQ
	require.NoError(t, f.client.DB().Find(&dlq).Error)
	require.Len(t, dlq, 1)
	assert.Equal(t, enums.OutboxDLQReasonMaxAttempts, dlq[0].ErrorReason)
	assert.Equal(t, "ord-1", dlq[0].AggregateID)

	processed, err := f.relay.processBatch(context.Background())
	require.NoError(t, err)
	assert.False(t, processed, "terminal rows are not fetched again")
}

func TestRelayDeadLettersUnroutableEvents(t *testing.T) {
	f := newFixture(t, 5, "domain")
	f.emit(t, otpRequested("9876543210"))

	_, err := f.relay.processBatch(context.Background())
	require.NoError(t, err)

	var dlq []models.OutboxDLQ
	require.NoError(t, f.client.DB().Find(&dlq).Error)
	require.Len(t, dlq, 1)
	assert.Equal(t, enums.OutboxDLQReasonNonRetryable, dlq[0].ErrorReason)
	require.NotNil(t, dlq[0].ErrorMessage)
	assert.Contains(t, *dlq[0].ErrorMessage, "publisher not configured for topic sms")
}

func TestRelayRejectsMismatchedAggregate(t *testing.T) {
	f := newFixture(t, 5, "domain", "sms")
	event := orderPlaced("ord-1")
	event.AggregateType = enums.AggregateVendor
	f.emit(t, event)

	_, err := f.relay.processBatch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, f.publishers["domain"].messages)

	var count int64
	require.NoError(t, f.client.DB().Model(&models.OutboxDLQ{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRelayRunStopsPublishersOnCancel(t *testing.T) {
	f := newFixture(t, 3, "domain", "sms")
	f.emit(t, orderPlaced("ord-1"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.relay.Run(ctx) }()

	require.Eventually(t, func() bool {
		var published int64
		_ = f.client.DB().Model(&models.OutboxEvent{}).Where("published_at IS NOT NULL").Count(&published).Error
		return published == 1
	}, defaultTestWait, pollTick)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, f.publishers["domain"].stopped)
	assert.Equal(t, float64(1), counterValue(t, f.jobs, "sajavathub_job_runs_total", "ok"))
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var family *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == name {
			family = mf
		}
	}
	require.NotNil(t, family, "metric %s not registered", name)
	var total float64
	for _, m := range family.GetMetric() {
		for _, label := range m.GetLabel() {
			if label.GetName() == "outcome" && label.GetValue() == outcome {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}

func TestNextBackoffCaps(t *testing.T) {
	assert.Equal(t, 2*defaultPollInterval, nextBackoff(defaultPollInterval, defaultPollInterval, maxBackoff))
	assert.Equal(t, maxBackoff, nextBackoff(maxBackoff, defaultPollInterval, maxBackoff))
	assert.Equal(t, 2*defaultPollInterval, nextBackoff(0, defaultPollInterval, maxBackoff))
}
