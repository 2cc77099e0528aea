package runtime

import (
	"context"

	"synod/pkg/domain"
)

// Chain runs an ordered list of stages, each against the context merged
// after the previous one. The first failure aborts the chain; nothing
// after the failure point executes.
type Chain struct {
	name   string
	stages []domain.Stage
	runner *stageRunner
}

func newChain(name string, stages []domain.Stage, runner *stageRunner) *Chain {
	return &Chain{name: name, stages: stages, runner: runner}
}

// Run executes the chain against the store. The attempt number is
// threaded through for the feedback loop's reruns; the driver's main
// chain passes 0.
func (c *Chain) Run(ctx context.Context, store *domain.Store, attempt int) (domain.Context, error) {
	view := store.Snapshot()
	for _, stage := range c.stages {
		update, err := c.runner.run(ctx, c.name, attempt, stage, view)
		if err != nil {
			return domain.Context{}, err
		}
		view, err = store.Merge(update)
		if err != nil {
			return domain.Context{}, err
		}
		c.runner.notifyMerge(ctx, view, update)
	}
	return view, nil
}
