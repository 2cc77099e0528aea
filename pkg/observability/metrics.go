// Package observability turns the kernel's lifecycle hooks into
// Prometheus metrics and structured logs.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"synod/pkg/domain"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
	verdicts      *prometheus.CounterVec
	retries       prometheus.Counter
	merges        prometheus.Counter
}

// NewMetrics creates the collectors and registers them with the given
// registerer. Pass prometheus.DefaultRegisterer for the usual global
// registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "synod_stage_duration_seconds",
				Help: "Duration of stage executions",
			},
			[]string{"unit", "stage"},
		),
		stageFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synod_stage_failures_total",
				Help: "Total number of failed stage executions",
			},
			[]string{"unit", "stage"},
		),
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synod_verdicts_total",
				Help: "Gate verdicts by outcome",
			},
			[]string{"outcome"},
		),
		retries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "synod_retries_total",
				Help: "Total number of feedback-loop reruns",
			},
		),
		merges: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "synod_context_merges_total",
				Help: "Total number of context merges",
			},
		),
	}
	reg.MustRegister(m.stageDuration, m.stageFailures, m.verdicts, m.retries, m.merges)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnd: func(_ context.Context, e *domain.StageEvent) {
			m.stageDuration.WithLabelValues(e.Unit, e.Stage).Observe(e.Duration.Seconds())
		},
		OnStageFailure: func(_ context.Context, e *domain.StageEvent) {
			m.stageFailures.WithLabelValues(e.Unit, e.Stage).Inc()
		},
		OnMerge: func(_ context.Context, _ *domain.MergeEvent) {
			m.merges.Inc()
		},
		OnVerdict: func(_ context.Context, e *domain.VerdictEvent) {
			m.verdicts.WithLabelValues(string(e.Verdict.Outcome)).Inc()
		},
		OnRetry: func(_ context.Context, _ *domain.RetryEvent) {
			m.retries.Inc()
		},
	}
}
