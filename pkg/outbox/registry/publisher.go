package registry

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox/payloads"
)

// Route says which topic an event type is published to and which aggregate
// it must be attached to.
type Route struct {
	EventType     enums.OutboxEventType
	AggregateType enums.OutboxAggregateType
	Topic         string
	newPayload    func() any
}

func route[T any](event enums.OutboxEventType, aggregate enums.OutboxAggregateType, topic string) Route {
	return Route{
		EventType:     event,
		AggregateType: aggregate,
		Topic:         topic,
		newPayload:    func() any { return new(T) },
	}
}

// ResolvedEvent is an outbox row whose envelope and payload decoded cleanly.
type ResolvedEvent struct {
	Route    Route
	Envelope outbox.PayloadEnvelope
	Payload  any
}

// EventRegistry routes outbox rows to Pub/Sub topics.
type EventRegistry struct {
	routes map[enums.OutboxEventType]Route
}

// NonRetryableError marks a row that will fail the same way on every attempt.
type NonRetryableError struct {
	Err error
}

func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}

func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable"
	}
	return "non-retryable: " + e.Err.Error()
}

func (e NonRetryableError) Unwrap() error { return e.Err }

// NewEventRegistry sends OTP requests to the SMS topic and every other event
// to the domain topic.
func NewEventRegistry(cfg config.PubSubConfig) (*EventRegistry, error) {
	switch {
	case cfg.DomainTopic == "":
		return nil, fmt.Errorf("domain topic is required")
	case cfg.SMSTopic == "":
		return nil, fmt.Errorf("sms topic is required")
	}

	routes := []Route{
		route[payloads.OrderPlacedEvent](enums.EventOrderPlaced, enums.AggregateOrder, cfg.DomainTopic),
		route[payloads.VendorRegisteredEvent](enums.EventVendorRegistered, enums.AggregateVendor, cfg.DomainTopic),
		route[payloads.ProjectBriefCreatedEvent](enums.EventProjectBriefCreated, enums.AggregateProjectBrief, cfg.DomainTopic),
		route[payloads.ConsultationRequestedEvent](enums.EventConsultationRequested, enums.AggregateConsultation, cfg.DomainTopic),
		route[payloads.OtpRequestedEvent](enums.EventOtpRequested, enums.AggregateOtpChallenge, cfg.SMSTopic),
	}
	reg := &EventRegistry{routes: make(map[enums.OutboxEventType]Route, len(routes))}
	for _, r := range routes {
		reg.routes[r.EventType] = r
	}
	return reg, nil
}

// Topics lists every distinct topic, sorted.
func (r *EventRegistry) Topics() []string {
	set := map[string]struct{}{}
	for _, rt := range r.routes {
		set[rt.Topic] = struct{}{}
	}
	topics := make([]string, 0, len(set))
	for t := range set {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// Resolve checks the row against its route and decodes the typed payload.
// Every failure is a NonRetryableError.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	rt, ok := r.routes[event.EventType]
	switch {
	case !ok:
		return nil, NewNonRetryableError(fmt.Errorf("unsupported event type %s", event.EventType))
	case rt.AggregateType != event.AggregateType:
		return nil, NewNonRetryableError(fmt.Errorf("%s belongs to %s, row says %s", event.EventType, rt.AggregateType, event.AggregateType))
	case event.AggregateID == "":
		return nil, NewNonRetryableError(fmt.Errorf("%s row without aggregate id", event.EventType))
	}

	env, err := outbox.ParseEnvelope(event.Payload)
	if err != nil {
		return nil, NewNonRetryableError(err)
	}
	if !env.HasData() {
		return nil, NewNonRetryableError(fmt.Errorf("%s envelope without data", event.EventType))
	}
	payload := rt.newPayload()
	if err := json.Unmarshal(env.Data, payload); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode %s payload: %w", event.EventType, err))
	}
	return &ResolvedEvent{Route: rt, Envelope: env, Payload: payload}, nil
}
