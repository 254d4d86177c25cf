package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/mail"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox/idempotency"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox/payloads"
)

type fakeStore struct {
	keys map[string]struct{}
}

func (f *fakeStore) Get(context.Context, string) (string, error) { return "", nil }

func (f *fakeStore) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	if _, ok := f.keys[key]; ok {
		return false, nil
	}
	f.keys[key] = struct{}{}
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return "sh:idempotency:" + scope + ":" + id
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.keys, k)
	}
	return nil
}

type recordingSender struct {
	sent []mail.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg mail.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func newTestConsumer(t *testing.T, sender mail.Sender) *Consumer {
	t.Helper()
	manager, err := idempotency.NewManager(&fakeStore{keys: map[string]struct{}{}}, time.Hour)
	require.NoError(t, err)
	c, err := newConsumer(nil, sender, manager, logger.Nop())
	require.NoError(t, err)
	return c
}

func message(t *testing.T, eventType enums.OutboxEventType, eventID string, data any) *pubsub.Message {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	body, err := json.Marshal(outbox.PayloadEnvelope{Version: 1, EventID: eventID, Data: raw})
	require.NoError(t, err)
	return &pubsub.Message{
		ID:         "msg-" + eventID,
		Data:       body,
		Attributes: map[string]string{"event_type": string(eventType)},
	}
}

func orderEvent() payloads.OrderPlacedEvent {
	return payloads.OrderPlacedEvent{
		OrderID:       "ord-1",
		BuyerID:       "buyer",
		BuyerName:     "Asha",
		BuyerEmail:    "asha@example.com",
		TotalAmount:   125000,
		PaymentMethod: enums.PaymentMethodUPI,
		ItemCount:     3,
	}
}

func TestOrderPlacedSendsConfirmationOnce(t *testing.T) {
	sender := &recordingSender{}
	c := newTestConsumer(t, sender)
	ctx := context.Background()

	res := c.process(ctx, message(t, enums.EventOrderPlaced, "evt-1", orderEvent()))
	assert.True(t, res.ack)
	require.Len(t, sender.sent, 1)
	sent := sender.sent[0]
	assert.Equal(t, "asha@example.com", sent.ToEmail)
	assert.Equal(t, "Order ord-1 confirmed", sent.Subject)
	assert.Contains(t, sent.Body, "₹1,25,000")
	assert.Contains(t, sent.Body, "UPI")

	res = c.process(ctx, message(t, enums.EventOrderPlaced, "evt-1", orderEvent()))
	assert.True(t, res.ack)
	assert.Len(t, sender.sent, 1, "redelivery must not send twice")
}

func TestConsultationRequestedSendsAcknowledgement(t *testing.T) {
	sender := &recordingSender{}
	c := newTestConsumer(t, sender)
	project := "brief-9"
	event := payloads.ConsultationRequestedEvent{
		RequestID:     "c-1",
		UserID:        "u-1",
		ProjectID:     &project,
		RequestedTime: time.Date(2026, 3, 2, 5, 0, 0, 0, time.UTC).UnixNano(),
		ContactEmail:  "ravi@example.com",
	}
	res := c.process(context.Background(), message(t, enums.EventConsultationRequested, "evt-2", event))
	assert.True(t, res.ack)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Body, "Hi there")
	assert.Contains(t, sender.sent[0].Body, "10:30 IST")
	assert.Contains(t, sender.sent[0].Body, "brief-9")
}

func TestDeliveryFailureReleasesClaim(t *testing.T) {
	sender := &recordingSender{err: errors.New("sendgrid down")}
	c := newTestConsumer(t, sender)
	ctx := context.Background()

	res := c.process(ctx, message(t, enums.EventOrderPlaced, "evt-3", orderEvent()))
	assert.True(t, res.nack)

	sender.err = nil
	res = c.process(ctx, message(t, enums.EventOrderPlaced, "evt-3", orderEvent()))
	assert.True(t, res.ack)
	assert.Len(t, sender.sent, 1)
}

func TestUnhandledAndMalformedMessagesAreAcked(t *testing.T) {
	sender := &recordingSender{}
	c := newTestConsumer(t, sender)
	ctx := context.Background()

	assert.True(t, c.process(ctx, message(t, enums.EventVendorRegistered, "evt-4", map[string]string{})).ack)

	bad := &pubsub.Message{ID: "bad", Data: []byte("{"), Attributes: map[string]string{"event_type": string(enums.EventOrderPlaced)}}
	assert.True(t, c.process(ctx, bad).ack)

	noEmail := orderEvent()
	noEmail.BuyerEmail = ""
	assert.True(t, c.process(ctx, message(t, enums.EventOrderPlaced, "evt-5", noEmail)).ack)
	assert.Empty(t, sender.sent)
}

func TestUnknownEnvelopeVersionIsSkipped(t *testing.T) {
	sender := &recordingSender{}
	c := newTestConsumer(t, sender)

	raw, err := json.Marshal(orderEvent())
	require.NoError(t, err)
	body, err := json.Marshal(outbox.PayloadEnvelope{Version: 2, EventID: "evt-6", Data: raw})
	require.NoError(t, err)
	msg := &pubsub.Message{ID: "v2", Data: body, Attributes: map[string]string{"event_type": string(enums.EventOrderPlaced)}}

	assert.True(t, c.process(context.Background(), msg).ack)
	assert.Empty(t, sender.sent)
}
