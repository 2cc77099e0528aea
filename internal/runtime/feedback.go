package runtime

import (
	"context"
	"fmt"
	"strings"

	"synod/pkg/domain"
)

// controllerState enumerates the feedback state machine.
type controllerState string

const (
	stateRunning   controllerState = "running"
	stateAccepted  controllerState = "accepted"
	stateExhausted controllerState = "exhausted"
)

// Controller drives the bounded feedback loop: run the decision
// subsequence, run the verdict gate, and either stop (accept), rerun
// with the critique fed back into the context (revise, budget left), or
// return the last decision marked unverified (revise, budget spent).
// It always terminates in exactly one of Accepted or Exhausted.
type Controller struct {
	subsequence *Chain
	gate        *Gate
	maxAttempts int
	runner      *stageRunner
}

func newController(subsequence *Chain, gate *Gate, maxAttempts int, runner *stageRunner) (*Controller, error) {
	if maxAttempts < 1 {
		return nil, &domain.ConfigError{Field: "max_attempts", Reason: fmt.Sprintf("must be positive, got %d", maxAttempts)}
	}
	return &Controller{
		subsequence: subsequence,
		gate:        gate,
		maxAttempts: maxAttempts,
		runner:      runner,
	}, nil
}

// Run executes the loop to a terminal state. Raw stage failures are
// never retried; only an explicit revise verdict triggers a rerun.
func (c *Controller) Run(ctx context.Context, store *domain.Store) (*domain.Outcome, error) {
	retry := domain.RetryState{MaxAttempts: c.maxAttempts}
	state := stateRunning

	for state == stateRunning {
		retry.Attempt++

		if _, err := c.subsequence.Run(ctx, store, retry.Attempt); err != nil {
			return nil, err
		}

		verdict, err := c.gate.Run(ctx, store, retry.Attempt)
		if err != nil {
			return nil, err
		}
		retry.History = append(retry.History, verdict)

		if c.runner.hooks.OnVerdict != nil {
			c.runner.hooks.OnVerdict(ctx, &domain.VerdictEvent{Verdict: verdict, Attempt: retry.Attempt})
		}
		c.runner.logger.Info("verdict",
			"outcome", verdict.Outcome,
			"attempt", retry.Attempt,
			"max_attempts", c.maxAttempts,
		)

		switch {
		case verdict.Outcome == domain.VerdictAccept:
			state = stateAccepted

		case retry.Attempt >= c.maxAttempts:
			state = stateExhausted

		default:
			// Feed the critique back so the rerun can condition on why
			// it was rejected; an identical rerun would just produce an
			// identical rejection.
			critique := domain.Update{
				Stage:  c.gate.stage.Name(),
				Values: map[string]any{domain.KeyPriorCritique: strings.Join(verdict.Reasons, "\n")},
			}
			merged, err := store.Merge(critique)
			if err != nil {
				return nil, err
			}
			c.runner.notifyMerge(ctx, merged, critique)
			if c.runner.hooks.OnRetry != nil {
				c.runner.hooks.OnRetry(ctx, &domain.RetryEvent{
					NextAttempt: retry.Attempt + 1,
					MaxAttempts: c.maxAttempts,
					Reasons:     verdict.Reasons,
				})
			}
		}
	}

	decision, err := extractDecision(store.Snapshot())
	if err != nil {
		return nil, err
	}

	outcome := &domain.Outcome{Decision: decision, Retry: retry}
	if state == stateExhausted {
		outcome.State = domain.RunExhausted
		outcome.Decision.Unverified = true
	} else {
		outcome.State = domain.RunAccepted
	}
	return outcome, nil
}

func extractDecision(view domain.Context) (domain.FinalDecision, error) {
	raw, ok := view.Value(domain.KeyDecision)
	if !ok {
		return domain.FinalDecision{}, &domain.ContractError{
			Reason: fmt.Sprintf("context has no %q field after decision subsequence", domain.KeyDecision),
		}
	}
	decision, ok := raw.(domain.FinalDecision)
	if !ok {
		return domain.FinalDecision{}, &domain.ContractError{
			Reason: fmt.Sprintf("decision field holds %T, want domain.FinalDecision", raw),
		}
	}
	return decision, nil
}
