package domain

import (
	"context"
	"time"
)

// StageEvent describes one stage execution boundary.
type StageEvent struct {
	Stage    string        `json:"stage"`
	Unit     string        `json:"unit"` // enclosing group or chain name
	Attempt  int           `json:"attempt,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// MergeEvent describes a completed context merge.
type MergeEvent struct {
	Keys    []string `json:"keys"`
	Version int      `json:"version"`
}

// VerdictEvent is emitted every time the gate produces a verdict.
type VerdictEvent struct {
	Verdict Verdict `json:"verdict"`
	Attempt int     `json:"attempt"`
}

// RetryEvent is emitted when the feedback controller schedules a rerun.
type RetryEvent struct {
	NextAttempt int      `json:"next_attempt"`
	MaxAttempts int      `json:"max_attempts"`
	Reasons     []string `json:"reasons"`
}

// LifecycleHooks are optional observability callbacks invoked by the
// kernel at stage and controller boundaries. Any field may be nil.
// Hooks run synchronously on the kernel's goroutines and must be cheap.
type LifecycleHooks struct {
	OnStageStart   func(context.Context, *StageEvent)
	OnStageEnd     func(context.Context, *StageEvent)
	OnStageFailure func(context.Context, *StageEvent)
	OnMerge        func(context.Context, *MergeEvent)
	OnVerdict      func(context.Context, *VerdictEvent)
	OnRetry        func(context.Context, *RetryEvent)
}

// Merge combines two hook sets, running the receiver's callbacks first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStageStart:   chainHooks(h.OnStageStart, other.OnStageStart),
		OnStageEnd:     chainHooks(h.OnStageEnd, other.OnStageEnd),
		OnStageFailure: chainHooks(h.OnStageFailure, other.OnStageFailure),
		OnMerge:        chainHooks(h.OnMerge, other.OnMerge),
		OnVerdict:      chainHooks(h.OnVerdict, other.OnVerdict),
		OnRetry:        chainHooks(h.OnRetry, other.OnRetry),
	}
}

func chainHooks[E any](first, second func(context.Context, E)) func(context.Context, E) {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	default:
		return func(ctx context.Context, event E) {
			first(ctx, event)
			second(ctx, event)
		}
	}
}
