package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"synod/pkg/domain"
)

// Group runs a set of independent stages concurrently against one
// context snapshot and merges their results deterministically. If any
// member fails, the whole group fails: downstream deliberation needs a
// complete set of analyst reports, so the kernel never proceeds with a
// subset, and successful members' work is discarded.
type Group struct {
	name   string
	stages []domain.Stage
	runner *stageRunner
}

// newGroup validates the composition invariant: write-sets of member
// stages must be pairwise disjoint, otherwise the fan-in merge could
// depend on completion order.
func newGroup(name string, stages []domain.Stage, runner *stageRunner) (*Group, error) {
	owners := make(map[string]string)
	for _, stage := range stages {
		for _, key := range stage.Contract().Writes {
			if prev, taken := owners[key]; taken {
				return nil, &domain.ContractError{
					Stage:  stage.Name(),
					Reason: fmt.Sprintf("write-set overlaps stage %q on field %q", prev, key),
				}
			}
			owners[key] = stage.Name()
		}
	}
	return &Group{name: name, stages: stages, runner: runner}, nil
}

type memberResult struct {
	update domain.Update
	err    error
}

// Run launches every member concurrently, waits for all of them, and
// merges the updates in declaration order. The first failure cancels
// still-running siblings promptly; their results would be discarded
// anyway, so there is no point waiting them out.
func (g *Group) Run(ctx context.Context, store *domain.Store) (domain.Context, error) {
	view := store.Snapshot()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]memberResult, len(g.stages))
	var wg sync.WaitGroup
	for i, stage := range g.stages {
		wg.Add(1)
		go func(i int, stage domain.Stage) {
			defer wg.Done()
			update, err := g.runner.run(runCtx, g.name, 0, stage, view)
			results[i] = memberResult{update: update, err: err}
			if err != nil {
				cancel()
			}
		}(i, stage)
	}
	wg.Wait()

	var failures []*domain.StageError
	var aborted []*domain.StageError
	updates := make([]domain.Update, 0, len(g.stages))
	for _, res := range results {
		if res.err == nil {
			updates = append(updates, res.update)
			continue
		}
		var stageErr *domain.StageError
		if !errors.As(res.err, &stageErr) {
			stageErr = &domain.StageError{Stage: "unknown", Err: res.err}
		}
		// Siblings torn down by our own cancel are an artifact of the
		// abort, not a diagnosis; keep them separate.
		if ctx.Err() == nil && errors.Is(res.err, context.Canceled) {
			aborted = append(aborted, stageErr)
		} else {
			failures = append(failures, stageErr)
		}
	}

	if len(failures) == 0 && len(aborted) > 0 {
		failures = aborted
	}
	if len(failures) > 0 {
		return domain.Context{}, &domain.GroupError{Group: g.name, Errors: failures}
	}

	merged, err := store.Merge(updates...)
	if err != nil {
		return domain.Context{}, err
	}
	g.runner.notifyMerge(ctx, merged, updates...)
	return merged, nil
}
