package main

import (
	"context"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/bootstrap"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/metrics"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox/registry"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/pubsub"
)

func main() {
	proc := bootstrap.Start("outbox-publisher")
	ctx := context.Background()
	cfg := proc.Config

	dbClient := proc.Database(ctx)

	ps, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, pubsub.RolePublisher, proc.Logger)
	proc.Must(ctx, "pubsub", err)
	proc.Defer("pubsub", ps.Close)

	routes, err := registry.NewEventRegistry(cfg.PubSub)
	proc.Must(ctx, "event registry", err)

	relay, err := NewRelay(RelayParams{
		Outbox:     cfg.Outbox,
		Logger:     proc.Logger,
		DB:         dbClient,
		Pinger:     ps.Ping,
		Repository: outbox.NewRepository(dbClient.DB()),
		DLQ:        outbox.NewDLQRepository(dbClient.DB()),
		Registry:   routes,
		Publishers: func(topic string) topicPublisher {
			if pub := ps.Publisher(topic); pub != nil {
				return gcpPublisher{pub: pub}
			}
			return nil
		},
		Metrics: metrics.NewJobMetrics(proc.Registry),
	})
	proc.Must(ctx, "relay", err)

	proc.Run(map[string]any{"topics": routes.Topics(), "metrics": cfg.Metrics.Addr}, true, relay.Run)
}
