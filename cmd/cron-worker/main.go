package main

import (
	"context"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/bootstrap"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/cron"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/vendors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/clock"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/metrics"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox"
)

func main() {
	proc := bootstrap.Start("cron-worker")
	ctx := context.Background()
	cfg := proc.Config

	dbClient := proc.Database(ctx)
	redisClient := proc.Redis(ctx)

	mutex, err := cron.NewMutex(redisClient, cron.MutexKey(cfg.App.Env), 0)
	proc.Must(ctx, "cron mutex", err)

	retention, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:        proc.Logger,
		DB:            dbClient,
		Repository:    outbox.NewRepository(dbClient.DB()),
		RetentionDays: cfg.Cron.OutboxRetentionDays,
	})
	proc.Must(ctx, "outbox retention job", err)

	otpExpiry, err := cron.NewOTPExpiryJob(proc.Logger, vendors.NewRepository(dbClient.DB()), clock.NewMonotonic())
	proc.Must(ctx, "otp expiry job", err)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   proc.Logger,
		Jobs:     []cron.Job{retention, otpExpiry},
		Lock:     mutex,
		Metrics:  metrics.NewJobMetrics(proc.Registry),
		Interval: cfg.Cron.Interval,
	})
	proc.Must(ctx, "cron service", err)

	proc.Run(map[string]any{"interval": cfg.Cron.Interval.String()}, true, service.Run)
}
