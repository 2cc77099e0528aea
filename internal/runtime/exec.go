package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"synod/pkg/domain"
)

// now is overridden in tests to provide deterministic timings.
var now = time.Now

// stageRunner executes a single stage invocation: snapshot in, validated
// update out. It applies the per-stage timeout, fires lifecycle hooks,
// and enforces the write side of the stage contract.
type stageRunner struct {
	timeout time.Duration
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

func (r *stageRunner) run(ctx context.Context, unit string, attempt int, stage domain.Stage, view domain.Context) (domain.Update, error) {
	name := stage.Name()
	event := &domain.StageEvent{Stage: name, Unit: unit, Attempt: attempt}

	if r.hooks.OnStageStart != nil {
		r.hooks.OnStageStart(ctx, event)
	}
	r.logger.Debug("stage start", "stage", name, "unit", unit, "attempt", attempt)

	execCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	started := now()
	result, err := stage.Execute(execCtx, view)
	event.Duration = now().Sub(started)

	if err == nil {
		// A stage may only write what its contract declares.
		contract := stage.Contract()
		for key := range result.Updates {
			if !contract.WritesField(key) {
				err = &domain.ContractError{
					Stage:  name,
					Reason: fmt.Sprintf("wrote undeclared field %q", key),
				}
				break
			}
		}
	}

	if err != nil {
		stageErr := &domain.StageError{Stage: name, Err: err}
		event.Err = stageErr
		if r.hooks.OnStageFailure != nil {
			r.hooks.OnStageFailure(ctx, event)
		}
		r.logger.Error("stage failed", "stage", name, "unit", unit, "err", err)
		return domain.Update{}, stageErr
	}

	if r.hooks.OnStageEnd != nil {
		r.hooks.OnStageEnd(ctx, event)
	}
	r.logger.Debug("stage done", "stage", name, "unit", unit, "duration", event.Duration)

	return domain.Update{Stage: name, Values: result.Updates}, nil
}

// notifyMerge reports a completed merge to the hooks.
func (r *stageRunner) notifyMerge(ctx context.Context, merged domain.Context, updates ...domain.Update) {
	if r.hooks.OnMerge == nil {
		return
	}
	var keys []string
	for _, u := range updates {
		for k := range u.Values {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	r.hooks.OnMerge(ctx, &domain.MergeEvent{Keys: keys, Version: merged.Version()})
}
