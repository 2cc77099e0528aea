package runtime

import (
	"context"
	"fmt"

	"synod/pkg/domain"
)

// Gate wraps the verdict stage. Its output contract is distinguished:
// the stage must write exactly the verdict field, and a revise verdict
// must carry reasons. The verdict is handed to the feedback controller
// and never merged into the shared context.
type Gate struct {
	stage  domain.Stage
	runner *stageRunner
}

func newGate(stage domain.Stage, runner *stageRunner) (*Gate, error) {
	writes := stage.Contract().Writes
	if len(writes) != 1 || writes[0] != domain.KeyVerdict {
		return nil, &domain.ContractError{
			Stage:  stage.Name(),
			Reason: fmt.Sprintf("gate must declare exactly one write, %q, got %v", domain.KeyVerdict, writes),
		}
	}
	return &Gate{stage: stage, runner: runner}, nil
}

// Run executes the gate against the current context and returns the
// validated verdict.
func (g *Gate) Run(ctx context.Context, store *domain.Store, attempt int) (domain.Verdict, error) {
	update, err := g.runner.run(ctx, "gate", attempt, g.stage, store.Snapshot())
	if err != nil {
		return domain.Verdict{}, err
	}

	raw, ok := update.Values[domain.KeyVerdict]
	if !ok {
		return domain.Verdict{}, &domain.ContractError{
			Stage:  g.stage.Name(),
			Reason: "gate produced no verdict",
		}
	}
	verdict, ok := raw.(domain.Verdict)
	if !ok {
		return domain.Verdict{}, &domain.ContractError{
			Stage:  g.stage.Name(),
			Reason: fmt.Sprintf("verdict field holds %T, want domain.Verdict", raw),
		}
	}
	if err := verdict.Validate(); err != nil {
		return domain.Verdict{}, err
	}
	return verdict, nil
}
