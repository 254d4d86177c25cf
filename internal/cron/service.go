package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/metrics"
)

// Job is one maintenance task run on every cycle.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type ServiceParams struct {
	Logger   *logger.Logger
	Jobs     []Job
	Lock     Lock
	Metrics  *metrics.JobMetrics
	Interval time.Duration
}

// Service runs every job once per interval on whichever replica holds the
// lock. A failing job does not stop the ones after it.
type Service struct {
	logg     *logger.Logger
	jobs     []Job
	lock     Lock
	metrics  *metrics.JobMetrics
	interval time.Duration
}

func NewService(p ServiceParams) (*Service, error) {
	if p.Logger == nil || p.Lock == nil {
		return nil, errors.New("cron: logger and lock are required")
	}
	s := &Service{
		logg:     p.Logger,
		lock:     p.Lock,
		metrics:  p.Metrics,
		interval: p.Interval,
	}
	if s.interval <= 0 {
		s.interval = time.Hour
	}
	names := make(map[string]bool, len(p.Jobs))
	for _, job := range p.Jobs {
		if job == nil {
			continue
		}
		if names[job.Name()] {
			return nil, fmt.Errorf("cron: job %q registered twice", job.Name())
		}
		names[job.Name()] = true
		s.jobs = append(s.jobs, job)
	}
	return s, nil
}

// Jobs returns the registered jobs in run order.
func (s *Service) Jobs() []Job {
	return append([]Job(nil), s.jobs...)
}

// Run starts a cycle now and then once per interval until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		if err := s.runCycle(ctx); err != nil {
			s.logg.Error(ctx, "cron.cycle_failed", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// runCycle returns the lock error, or every job failure combined.
func (s *Service) runCycle(ctx context.Context) (err error) {
	unlock, err := s.lock.TryLock(ctx)
	if err != nil {
		return err
	}
	if unlock == nil {
		s.logg.Info(ctx, "cron.cycle_skipped")
		return nil
	}
	defer func() {
		err = multierr.Append(err, unlock(ctx))
	}()

	for _, job := range s.jobs {
		err = multierr.Append(err, s.runJob(ctx, job))
	}
	return err
}

func (s *Service) runJob(ctx context.Context, job Job) error {
	ctx = s.logg.WithField(ctx, "job", job.Name())
	started := time.Now()
	err := job.Run(ctx)
	took := time.Since(started)
	s.metrics.Record(job.Name(), took, err)

	ctx = s.logg.WithField(ctx, "duration_ms", took.Milliseconds())
	if err != nil {
		return fmt.Errorf("job %s: %w", job.Name(), err)
	}
	s.logg.Info(ctx, "cron.job_done")
	return nil
}
