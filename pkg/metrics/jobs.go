package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for job runs.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// JobMetrics counts runs of the background workers (outbox relay batches,
// maintenance jobs) by outcome and times them.
type JobMetrics struct {
	runs    *prometheus.CounterVec
	seconds *prometheus.HistogramVec
}

// NewJobMetrics registers on reg. With a nil reg every method is a no-op.
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return nil
	}
	m := &JobMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Background job runs by outcome.",
		}, []string{"job", "outcome"}),
		seconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Background job run time.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 30, 120},
		}, []string{"job"}),
	}
	reg.MustRegister(m.runs, m.seconds)
	return m
}

// Record counts one run of job and its duration. A non-nil err marks the run
// failed.
func (m *JobMetrics) Record(job string, took time.Duration, err error) {
	if m == nil {
		return
	}
	job = normalizeLabel(job)
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.runs.WithLabelValues(job, outcome).Inc()
	m.seconds.WithLabelValues(job).Observe(took.Seconds())
}

func normalizeLabel(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return "unknown"
	}
	return v
}
