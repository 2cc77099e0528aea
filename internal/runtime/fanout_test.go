package runtime

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synod/pkg/domain"
)

func fourAnalysts() []domain.Stage {
	return []domain.Stage{
		writerStage("technical", domain.KeyTechnical, "uptrend, RSI 70"),
		writerStage("sentiment", domain.KeySentiment, "75% bullish"),
		writerStage("news", domain.KeyNews, "cloud partnership"),
		writerStage("fundamentals", domain.KeyFundamentals, "P/E 25, +30% yoy"),
	}
}

func TestGroup_AllSucceed_MergesAllFields(t *testing.T) {
	group, err := newGroup("analysts", fourAnalysts(), testRunner(domain.LifecycleHooks{}, 0))
	require.NoError(t, err)

	store := domain.NewStore(map[string]any{domain.KeyInstrument: "NVDA"})
	merged, err := group.Run(context.Background(), store)
	require.NoError(t, err)

	for _, key := range []string{domain.KeyTechnical, domain.KeySentiment, domain.KeyNews, domain.KeyFundamentals} {
		assert.True(t, merged.Has(key), "merged context missing %s", key)
	}
	assert.Equal(t, 2, merged.Version())
}

func TestGroup_OverlappingWriteSetsRejectedAtComposition(t *testing.T) {
	stages := []domain.Stage{
		writerStage("a", "report", "x"),
		writerStage("b", "report", "y"),
	}

	_, err := newGroup("analysts", stages, testRunner(domain.LifecycleHooks{}, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrContractViolation)
}

func TestGroup_MemberFailure_DiscardsSiblingWork(t *testing.T) {
	boom := errors.New("feed unavailable")
	stages := []domain.Stage{
		writerStage("technical", domain.KeyTechnical, "t"),
		failingStage("news", boom),
		writerStage("sentiment", domain.KeySentiment, "s"),
	}
	group, err := newGroup("analysts", stages, testRunner(domain.LifecycleHooks{}, 0))
	require.NoError(t, err)

	store := domain.NewStore(nil)
	_, err = group.Run(context.Background(), store)
	require.Error(t, err)

	var groupErr *domain.GroupError
	require.ErrorAs(t, err, &groupErr)
	assert.ErrorIs(t, err, boom)

	names := make([]string, 0, len(groupErr.Errors))
	for _, se := range groupErr.Errors {
		names = append(names, se.Stage)
	}
	assert.Contains(t, names, "news")

	// No partial analyst output may appear in the context.
	view := store.Snapshot()
	assert.False(t, view.Has(domain.KeyTechnical))
	assert.False(t, view.Has(domain.KeySentiment))
	assert.Equal(t, 1, view.Version())
}

func TestGroup_FailureCancelsSlowSiblingsPromptly(t *testing.T) {
	started := time.Now()
	stages := []domain.Stage{
		failingStage("news", errors.New("boom")),
		slowStage("technical", 30*time.Second),
	}
	group, err := newGroup("analysts", stages, testRunner(domain.LifecycleHooks{}, 0))
	require.NoError(t, err)

	_, err = group.Run(context.Background(), domain.NewStore(nil))
	require.Error(t, err)
	assert.Less(t, time.Since(started), 5*time.Second, "slow sibling should have been cancelled, not waited out")
}

func TestGroup_TimeoutSurfacesAsStageFailure(t *testing.T) {
	stages := []domain.Stage{
		writerStage("technical", domain.KeyTechnical, "t"),
		slowStage("news", 30*time.Second),
	}
	group, err := newGroup("analysts", stages, testRunner(domain.LifecycleHooks{}, 20*time.Millisecond))
	require.NoError(t, err)

	_, err = group.Run(context.Background(), domain.NewStore(nil))
	require.Error(t, err)

	var groupErr *domain.GroupError
	require.ErrorAs(t, err, &groupErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	found := false
	for _, se := range groupErr.Errors {
		if se.Stage == "news" {
			found = true
		}
	}
	assert.True(t, found, "timeout error should name the timed-out stage, got %v", err)
}

func TestGroup_UndeclaredWriteIsContractViolation(t *testing.T) {
	rogue := &stubStage{
		name:   "rogue",
		writes: []string{domain.KeyNews},
		execute: func(_ context.Context, _ domain.Context) (domain.StageResult, error) {
			return domain.StageResult{Updates: map[string]any{
				domain.KeyNews:      "fine",
				domain.KeySentiment: "not declared",
			}}, nil
		},
	}
	group, err := newGroup("analysts", []domain.Stage{rogue}, testRunner(domain.LifecycleHooks{}, 0))
	require.NoError(t, err)

	_, err = group.Run(context.Background(), domain.NewStore(nil))
	assert.ErrorIs(t, err, domain.ErrContractViolation)
}

func TestGroup_RunsMembersConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	barrier := make(chan struct{})

	concurrent := func(name, key string) *stubStage {
		return &stubStage{
			name:   name,
			writes: []string{key},
			execute: func(ctx context.Context, _ domain.Context) (domain.StageResult, error) {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				<-barrier
				inFlight.Add(-1)
				return domain.StageResult{Updates: map[string]any{key: "r"}}, nil
			},
		}
	}

	group, err := newGroup("analysts", []domain.Stage{
		concurrent("a", "ka"),
		concurrent("b", "kb"),
		concurrent("c", "kc"),
	}, testRunner(domain.LifecycleHooks{}, 0))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := group.Run(context.Background(), domain.NewStore(nil))
		done <- err
	}()

	// All three members must be in flight at once before any completes.
	require.Eventually(t, func() bool { return inFlight.Load() == 3 }, 5*time.Second, time.Millisecond)
	close(barrier)
	require.NoError(t, <-done)
	assert.EqualValues(t, 3, peak.Load())
}
