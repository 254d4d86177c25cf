package cron

import (
	"context"
	"fmt"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/clock"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

type challengePurger interface {
	DeleteExpiredPending(ctx context.Context, now int64) (int64, error)
}

// NewOTPExpiryJob clears pending OTP challenges whose code already expired.
func NewOTPExpiryJob(logg *logger.Logger, repo challengePurger, clk clock.Clock) (Job, error) {
	switch {
	case logg == nil:
		return nil, fmt.Errorf("logger required")
	case repo == nil:
		return nil, fmt.Errorf("vendor repository required")
	case clk == nil:
		return nil, fmt.Errorf("clock required")
	}
	return &otpExpiryJob{logg: logg, repo: repo, clock: clk}, nil
}

type otpExpiryJob struct {
	logg  *logger.Logger
	repo  challengePurger
	clock clock.Clock
}

func (j *otpExpiryJob) Name() string { return "otp_expiry" }

func (j *otpExpiryJob) Run(ctx context.Context) error {
	deleted, err := j.repo.DeleteExpiredPending(ctx, j.clock.Now())
	if err != nil {
		return fmt.Errorf("otp expiry: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "rows_deleted", deleted), "expired otp challenges cleared")
	return nil
}
