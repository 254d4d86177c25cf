package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/vendors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/clock"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/dbtest"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

func TestOTPExpiryKeepsLiveAndVerifiedChallenges(t *testing.T) {
	client := dbtest.Open(t)
	challenges := []models.OtpChallenge{
		{MobileNumber: "9000000001", Status: enums.OtpStatusPending, IssuedAt: 100, ExpiresAt: 500},
		{MobileNumber: "9000000002", Status: enums.OtpStatusPending, IssuedAt: 900, ExpiresAt: 5_000},
		{MobileNumber: "9000000003", Status: enums.OtpStatusVerified, IssuedAt: 100, ExpiresAt: 500},
	}
	for i := range challenges {
		challenges[i].CodeHash = "hash"
		require.NoError(t, client.DB().Create(&challenges[i]).Error)
	}

	job, err := NewOTPExpiryJob(logger.Nop(), vendors.NewRepository(client.DB()), clock.NewFixed(1_000))
	require.NoError(t, err)
	require.NoError(t, job.Run(context.Background()))

	var left []string
	require.NoError(t, client.DB().Model(&models.OtpChallenge{}).Order("mobile_number").Pluck("mobile_number", &left).Error)
	assert.Equal(t, []string{"9000000002", "9000000003"}, left)
}
