package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"synod/pkg/domain"
)

// Config describes the fixed topology the driver composes: the fan-out
// analysts, the sequential deliberation chain, and the gated decision
// subsequence.
type Config struct {
	// Analysts run concurrently against the seeded context.
	Analysts []domain.Stage

	// Deliberation runs sequentially after the fan-in merge: debate
	// participants in fixed argument order, then judge, then the
	// synthesis stages.
	Deliberation []domain.Stage

	// Trader is the decision stage rerun by the feedback loop.
	Trader domain.Stage

	// Gate is the verdict stage evaluated after every trader run.
	Gate domain.Stage

	// MaxAttempts bounds the feedback loop. Must be positive.
	MaxAttempts int

	// StageTimeout, when non-zero, bounds every stage invocation.
	// A timeout surfaces as that stage's failure.
	StageTimeout time.Duration

	Hooks  domain.LifecycleHooks
	Logger *slog.Logger
}

// Driver composes the topology and exposes the single run entry point.
// It is stateless across invocations: every Run builds a fresh context
// store and retry state.
type Driver struct {
	analysts     *Group
	deliberation *Chain
	controller   *Controller
	logger       *slog.Logger
}

// NewDriver validates the configuration and wires the topology.
// Configuration problems (empty stage lists, bad retry budget,
// overlapping analyst write-sets, malformed gate contract) are fatal
// here, before anything executes.
func NewDriver(cfg Config) (*Driver, error) {
	if len(cfg.Analysts) == 0 {
		return nil, &domain.ConfigError{Field: "analysts", Reason: "at least one analyst stage is required"}
	}
	if len(cfg.Deliberation) == 0 {
		return nil, &domain.ConfigError{Field: "deliberation", Reason: "at least one deliberation stage is required"}
	}
	if cfg.Trader == nil {
		return nil, &domain.ConfigError{Field: "trader", Reason: "trader stage is required"}
	}
	if cfg.Gate == nil {
		return nil, &domain.ConfigError{Field: "gate", Reason: "gate stage is required"}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	runner := &stageRunner{
		timeout: cfg.StageTimeout,
		hooks:   cfg.Hooks,
		logger:  logger,
	}

	analysts, err := newGroup("analysts", cfg.Analysts, runner)
	if err != nil {
		return nil, err
	}
	gate, err := newGate(cfg.Gate, runner)
	if err != nil {
		return nil, err
	}
	controller, err := newController(
		newChain("decision", []domain.Stage{cfg.Trader}, runner),
		gate,
		cfg.MaxAttempts,
		runner,
	)
	if err != nil {
		return nil, err
	}

	return &Driver{
		analysts:     analysts,
		deliberation: newChain("deliberation", cfg.Deliberation, runner),
		controller:   controller,
		logger:       logger,
	}, nil
}

// Run executes the pipeline for one instrument: fan-out analysts,
// sequential deliberation, then the gated decision loop. It returns
// either an outcome or a structured pipeline error identifying the
// phase and stage(s) that failed.
func (d *Driver) Run(ctx context.Context, instrument string, seed map[string]any) (*domain.Outcome, error) {
	if instrument == "" {
		return nil, &domain.ConfigError{Field: "instrument", Reason: "must not be empty"}
	}

	store := domain.NewStore(seed)
	if _, err := store.Merge(domain.Update{
		Stage:  "driver",
		Values: map[string]any{domain.KeyInstrument: instrument},
	}); err != nil {
		return nil, &domain.PipelineError{Phase: "seed", Err: err}
	}

	d.logger.Info("pipeline start", "instrument", instrument)

	if _, err := d.analysts.Run(ctx, store); err != nil {
		return nil, &domain.PipelineError{Phase: "analysts", Err: err}
	}
	if _, err := d.deliberation.Run(ctx, store, 0); err != nil {
		return nil, &domain.PipelineError{Phase: "deliberation", Err: err}
	}
	outcome, err := d.controller.Run(ctx, store)
	if err != nil {
		return nil, &domain.PipelineError{Phase: "decision", Err: err}
	}

	outcome.Final = store.Snapshot()
	d.logger.Info("pipeline done",
		"instrument", instrument,
		"action", outcome.Decision.Action,
		"state", outcome.State,
		"attempts", outcome.Retry.Attempt,
	)
	return outcome, nil
}

// Describe returns a short human-readable summary of the topology,
// useful for logs and the CLI.
func (d *Driver) Describe() string {
	return fmt.Sprintf("analysts=%d deliberation=%d max_attempts=%d",
		len(d.analysts.stages), len(d.deliberation.stages), d.controller.maxAttempts)
}

// Topology lists the composed stage names in execution order.
type Topology struct {
	Analysts     []string
	Deliberation []string
	Trader       string
	Gate         string
	MaxAttempts  int
}

// Topology reports the wired stages, for diagrams and diagnostics.
func (d *Driver) Topology() Topology {
	topo := Topology{
		Trader:      d.controller.subsequence.stages[0].Name(),
		Gate:        d.controller.gate.stage.Name(),
		MaxAttempts: d.controller.maxAttempts,
	}
	for _, s := range d.analysts.stages {
		topo.Analysts = append(topo.Analysts, s.Name())
	}
	for _, s := range d.deliberation.stages {
		topo.Deliberation = append(topo.Deliberation, s.Name())
	}
	return topo
}
