package cron

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/dbtest"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox"
)

func TestOutboxRetentionDeletesOnlyOldPublishedRows(t *testing.T) {
	client := dbtest.Open(t)
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -45)
	recent := now.AddDate(0, 0, -2)

	rows := []models.OutboxEvent{
		{AggregateID: "old-published", PublishedAt: &old},
		{AggregateID: "recent-published", PublishedAt: &recent},
		{AggregateID: "pending"},
	}
	for i := range rows {
		rows[i].EventType = enums.EventOrderPlaced
		rows[i].AggregateType = enums.AggregateOrder
		rows[i].Payload = []byte(`{}`)
		require.NoError(t, client.DB().Create(&rows[i]).Error)
	}

	job, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:     logger.Nop(),
		DB:         client,
		Repository: outbox.NewRepository(client.DB()),
	})
	require.NoError(t, err)
	job.(*outboxRetentionJob).now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))

	var left []string
	require.NoError(t, client.DB().Model(&models.OutboxEvent{}).Order("aggregate_id").Pluck("aggregate_id", &left).Error)
	assert.Equal(t, []string{"pending", "recent-published"}, left)
}

func TestOutboxRetentionRequiresRepository(t *testing.T) {
	_, err := NewOutboxRetentionJob(OutboxRetentionJobParams{Logger: logger.Nop(), DB: dbtest.Open(t)})
	assert.Error(t, err)
}
