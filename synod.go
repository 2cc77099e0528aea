package synod

import (
	"context"
	"log/slog"
	"time"

	"synod/internal/presentation/graph"
	"synod/internal/runtime"
	"synod/pkg/domain"
	"synod/pkg/ports"
	"synod/pkg/stages"
)

// Pipeline is the high-level entry point for the library. It wires the
// standard topology — four concurrent analysts, the bull/bear debate
// with judge and risk synthesis, and the reviewed decision loop — around
// the caller's Analyzer, Trader and ReflectionOracle implementations.
type Pipeline struct {
	driver *runtime.Driver

	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	cache        ports.ReportCache
	maxAttempts  int
	stageTimeout time.Duration
	debateRounds int
}

// Option defines a functional option for configuring the Pipeline.
type Option func(*Pipeline)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Pipeline) {
		p.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithReportCache caches analyst reports between runs.
func WithReportCache(cache ports.ReportCache) Option {
	return func(p *Pipeline) {
		p.cache = cache
	}
}

// WithMaxAttempts bounds the decision feedback loop (default 3).
func WithMaxAttempts(n int) Option {
	return func(p *Pipeline) {
		p.maxAttempts = n
	}
}

// WithStageTimeout bounds every stage invocation (default none).
func WithStageTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.stageTimeout = d
	}
}

// WithDebateRounds sets the number of bull/bear rounds (default 2).
func WithDebateRounds(n int) Option {
	return func(p *Pipeline) {
		p.debateRounds = n
	}
}

// New builds a pipeline around the given analysis, decision and review
// implementations. Configuration problems are reported here, before
// anything runs.
func New(analyzer ports.Analyzer, trader ports.Trader, oracle ports.ReflectionOracle, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		maxAttempts:  3,
		debateRounds: 2,
	}
	for _, opt := range opts {
		opt(p)
	}

	var analystOpts []stages.AnalystOption
	if p.cache != nil {
		analystOpts = append(analystOpts, stages.WithReportCache(p.cache))
	}

	driver, err := runtime.NewDriver(runtime.Config{
		Analysts:     stages.Analysts(analyzer, analystOpts...),
		Deliberation: stages.Deliberation(analyzer, p.debateRounds),
		Trader:       stages.NewTrader(trader),
		Gate:         stages.NewReflectionGate(oracle),
		MaxAttempts:  p.maxAttempts,
		StageTimeout: p.stageTimeout,
		Hooks:        p.hooks,
		Logger:       p.logger,
	})
	if err != nil {
		return nil, err
	}
	p.driver = driver
	return p, nil
}

// Run executes the pipeline once for the given instrument. The optional
// seed provides initial context fields visible to every stage. Each call
// is independent: nothing carries over between runs.
func (p *Pipeline) Run(ctx context.Context, instrument string, seed map[string]any) (*domain.Outcome, error) {
	return p.driver.Run(ctx, instrument, seed)
}

// Describe returns a one-line summary of the wired topology.
func (p *Pipeline) Describe() string {
	return p.driver.Describe()
}

// Mermaid renders the wired topology as a Mermaid flowchart.
func (p *Pipeline) Mermaid() string {
	return graph.GenerateMermaid(p.driver.Topology())
}
