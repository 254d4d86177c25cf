package main

import (
	"context"
	"errors"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/bootstrap"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/notifications"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/mail"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox/idempotency"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/pubsub"
)

func main() {
	proc := bootstrap.Start("notification-worker")
	ctx := context.Background()
	cfg := proc.Config

	redisClient := proc.Redis(ctx)

	ps, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, pubsub.RoleSubscriber, proc.Logger)
	proc.Must(ctx, "pubsub", err)
	proc.Defer("pubsub", ps.Close)

	subscription := ps.NotificationSubscription()
	if subscription == nil {
		proc.Must(ctx, "notification subscription", errors.New("subscription not configured"))
	}

	handled, err := idempotency.NewManager(redisClient, cfg.Eventing.ConsumerIdempotencyTTL)
	proc.Must(ctx, "idempotency", err)

	consumer, err := notifications.NewConsumer(subscription, mail.NewSender(cfg.Sendgrid, proc.Logger), handled, proc.Logger)
	proc.Must(ctx, "notification consumer", err)

	proc.Run(map[string]any{"metrics": cfg.Metrics.Addr}, true, consumer.Run)
}
