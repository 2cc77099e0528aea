package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"synod/pkg/domain"
)

// stubStage is a configurable stage for kernel tests.
type stubStage struct {
	name    string
	reads   []string
	writes  []string
	execute func(ctx context.Context, view domain.Context) (domain.StageResult, error)
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Contract() domain.Contract {
	return domain.Contract{Reads: s.reads, Writes: s.writes}
}

func (s *stubStage) Execute(ctx context.Context, view domain.Context) (domain.StageResult, error) {
	return s.execute(ctx, view)
}

// writerStage writes a single fixed field.
func writerStage(name, key, value string) *stubStage {
	return &stubStage{
		name:   name,
		writes: []string{key},
		execute: func(_ context.Context, _ domain.Context) (domain.StageResult, error) {
			return domain.StageResult{Updates: map[string]any{key: value}}, nil
		},
	}
}

// failingStage always fails with err.
func failingStage(name string, err error) *stubStage {
	return &stubStage{
		name: name,
		execute: func(_ context.Context, _ domain.Context) (domain.StageResult, error) {
			return domain.StageResult{}, err
		},
	}
}

// slowStage blocks until its context is done, then reports the cause.
func slowStage(name string, limit time.Duration) *stubStage {
	return &stubStage{
		name: name,
		execute: func(ctx context.Context, _ domain.Context) (domain.StageResult, error) {
			select {
			case <-ctx.Done():
				return domain.StageResult{}, ctx.Err()
			case <-time.After(limit):
				return domain.StageResult{Updates: map[string]any{}}, nil
			}
		},
	}
}

func testRunner(hooks domain.LifecycleHooks, timeout time.Duration) *stageRunner {
	return &stageRunner{
		timeout: timeout,
		hooks:   hooks,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// gateStage emits the verdicts in sequence, one per invocation.
func gateStage(verdicts ...domain.Verdict) *stubStage {
	i := 0
	return &stubStage{
		name:   "reflection",
		reads:  []string{domain.KeyDecision},
		writes: []string{domain.KeyVerdict},
		execute: func(_ context.Context, _ domain.Context) (domain.StageResult, error) {
			v := verdicts[len(verdicts)-1]
			if i < len(verdicts) {
				v = verdicts[i]
			}
			i++
			return domain.StageResult{Updates: map[string]any{domain.KeyVerdict: v}}, nil
		},
	}
}

// traderStage records the critique it saw on each run and emits a
// deterministic decision.
func traderStage(critiques *[]string) *stubStage {
	return &stubStage{
		name:   "trader",
		reads:  []string{domain.KeyInstrument, domain.KeyPriorCritique},
		writes: []string{domain.KeyDecision},
		execute: func(_ context.Context, view domain.Context) (domain.StageResult, error) {
			if critiques != nil {
				*critiques = append(*critiques, view.String(domain.KeyPriorCritique))
			}
			return domain.StageResult{Updates: map[string]any{
				domain.KeyDecision: domain.FinalDecision{
					Action:     domain.ActionBuy,
					Rationale:  "test decision",
					Confidence: 0.8,
				},
			}}, nil
		},
	}
}
