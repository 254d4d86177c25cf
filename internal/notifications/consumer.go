package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/mail"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox/idempotency"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox/payloads"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox/registry"
)

const consumerName = "customer-notifications"

var istZone = time.FixedZone("IST", 5*60*60+30*60)

type receiver interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

// Consumer turns order and consultation events into customer emails.
type Consumer struct {
	subscription receiver
	mailer       mail.Sender
	handled      *idempotency.Ledger
	decoders     *registry.DecoderRegistry[*mail.Message]
	logg         *logger.Logger
}

func NewConsumer(subscription *pubsub.Subscriber, mailer mail.Sender, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, fmt.Errorf("notification subscription required")
	}
	return newConsumer(subscription, mailer, manager, logg)
}

func newConsumer(subscription receiver, mailer mail.Sender, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if mailer == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		subscription: subscription,
		mailer:       mailer,
		handled:      manager.For(consumerName),
		decoders:     messageDecoders(),
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": string(eventType),
	})

	envelope, err := outbox.ParseEnvelope(msg.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}
	if !c.decoders.Has(eventType, envelope.Version) {
		c.logg.Debug(c.logg.WithField(logCtx, "version", envelope.Version), "no notification for event")
		return processResult{ack: true}
	}
	logCtx = c.logg.WithField(logCtx, "event_id", envelope.EventID)

	claim, err := c.handled.Claim(ctx, envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if claim == nil {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	message, err := c.decoders.Decode(eventType, envelope.Version, envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to parse payload", err)
		return processResult{ack: true}
	}
	if message == nil {
		c.logg.Info(logCtx, "no contact email on event")
		return processResult{ack: true}
	}

	if err := c.mailer.Send(ctx, *message); err != nil {
		c.logg.Error(logCtx, "notification delivery failed", err)
		if releaseErr := claim.Release(ctx); releaseErr != nil {
			c.logg.Error(logCtx, "failed to release idempotency claim", releaseErr)
		}
		return processResult{nack: true}
	}
	c.logg.Info(logCtx, "customer notified")
	return processResult{ack: true}
}

// messageDecoders maps the v1 payloads that carry a contact email to the
// message sent for them.
func messageDecoders() *registry.DecoderRegistry[*mail.Message] {
	reg := registry.NewDecoderRegistry[*mail.Message]()
	reg.Register(enums.EventOrderPlaced, 1, registry.JSONDecoder(orderPlacedMessage))
	reg.Register(enums.EventConsultationRequested, 1, registry.JSONDecoder(consultationMessage))
	return reg
}

func orderPlacedMessage(p payloads.OrderPlacedEvent) *mail.Message {
	if strings.TrimSpace(p.BuyerEmail) == "" {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", greetingName(p.BuyerName))
	fmt.Fprintf(&b, "Thank you for shopping with SajavatHub. Your order %s has been received.\n\n", p.OrderID)
	fmt.Fprintf(&b, "Items: %d\n", p.ItemCount)
	fmt.Fprintf(&b, "Total: %s\n", mail.FormatINR(p.TotalAmount))
	fmt.Fprintf(&b, "Payment: %s\n\n", p.PaymentMethod.Label())
	b.WriteString("We will let you know once it ships.\n")
	return &mail.Message{
		ToName:  p.BuyerName,
		ToEmail: p.BuyerEmail,
		Subject: fmt.Sprintf("Order %s confirmed", p.OrderID),
		Body:    b.String(),
	}
}

func consultationMessage(p payloads.ConsultationRequestedEvent) *mail.Message {
	if strings.TrimSpace(p.ContactEmail) == "" {
		return nil
	}
	when := time.Unix(0, p.RequestedTime).In(istZone).Format("Mon, 02 Jan 2006 15:04 MST")
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", greetingName(p.ContactName))
	fmt.Fprintf(&b, "We have received your consultation request for %s.\n", when)
	if p.ProjectID != nil {
		fmt.Fprintf(&b, "Project: %s\n", *p.ProjectID)
	}
	b.WriteString("\nA SajavatHub designer will confirm the slot shortly.\n")
	return &mail.Message{
		ToName:  p.ContactName,
		ToEmail: p.ContactEmail,
		Subject: "Consultation request received",
		Body:    b.String(),
	}
}

func greetingName(name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return "there"
}
