package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SnapshotIsImmutable(t *testing.T) {
	store := NewStore(map[string]any{"instrument": "NVDA"})

	before := store.Snapshot()
	_, err := store.Merge(Update{Stage: "technical", Values: map[string]any{"technical_report": "uptrend"}})
	require.NoError(t, err)

	// The snapshot captured before the merge must not see the new field.
	assert.False(t, before.Has("technical_report"))
	assert.Equal(t, 1, before.Version())

	after := store.Snapshot()
	assert.True(t, after.Has("technical_report"))
	assert.Equal(t, 2, after.Version())
}

func TestStore_MergeRejectsDuplicateKeyWithinOneMerge(t *testing.T) {
	store := NewStore(nil)

	_, err := store.Merge(
		Update{Stage: "a", Values: map[string]any{"report": "x"}},
		Update{Stage: "b", Values: map[string]any{"report": "y"}},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContractViolation)

	// The failed merge must not have advanced the store.
	assert.Equal(t, 1, store.Snapshot().Version())
	assert.False(t, store.Snapshot().Has("report"))
}

func TestStore_LaterMergeOverwritesEarlierValue(t *testing.T) {
	store := NewStore(nil)

	_, err := store.Merge(Update{Stage: "trader", Values: map[string]any{"decision": "hold"}})
	require.NoError(t, err)
	_, err = store.Merge(Update{Stage: "trader", Values: map[string]any{"decision": "buy"}})
	require.NoError(t, err)

	v, ok := store.Snapshot().Value("decision")
	require.True(t, ok)
	assert.Equal(t, "buy", v)
}

func TestStore_MergeOrderIrrelevantForDisjointUpdates(t *testing.T) {
	updates := []Update{
		{Stage: "technical", Values: map[string]any{"technical_report": "t"}},
		{Stage: "sentiment", Values: map[string]any{"sentiment_report": "s"}},
		{Stage: "news", Values: map[string]any{"news_report": "n"}},
		{Stage: "fundamentals", Values: map[string]any{"fundamentals_report": "f"}},
	}

	permutations := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
	}

	var contexts []Context
	for _, perm := range permutations {
		store := NewStore(map[string]any{"instrument": "NVDA"})
		ordered := make([]Update, len(perm))
		for i, idx := range perm {
			ordered[i] = updates[idx]
		}
		merged, err := store.Merge(ordered...)
		require.NoError(t, err)
		contexts = append(contexts, merged)
	}

	for _, c := range contexts[1:] {
		assert.Equal(t, contexts[0].Keys(), c.Keys())
		for _, k := range contexts[0].Keys() {
			want, _ := contexts[0].Value(k)
			got, _ := c.Value(k)
			assert.Equal(t, want, got, "key %s", k)
		}
	}
}

func TestContext_Accessors(t *testing.T) {
	store := NewStore(map[string]any{"instrument": "AAPL", "count": 3})
	view := store.Snapshot()

	assert.Equal(t, "AAPL", view.String("instrument"))
	assert.Equal(t, "", view.String("count"), "non-string value reads as empty string")
	assert.Equal(t, "", view.String("missing"))
	assert.Equal(t, []string{"count", "instrument"}, view.Keys())
}

func TestDebateRecord_AppendDoesNotMutate(t *testing.T) {
	base := DebateRecord{}.Append("bull", "growth is strong")
	longer := base.Append("bear", "valuation is stretched")

	assert.Len(t, base, 1)
	assert.Len(t, longer, 2)
	assert.Contains(t, longer.Transcript(), "Turn 1 [BULL]")
	assert.Contains(t, longer.Transcript(), "Turn 2 [BEAR]")
}

func TestVerdict_Validate(t *testing.T) {
	tests := []struct {
		name    string
		verdict Verdict
		wantErr bool
	}{
		{"accept without reasons", Verdict{Outcome: VerdictAccept}, false},
		{"revise with reasons", Verdict{Outcome: VerdictRevise, Reasons: []string{"unsupported claim"}}, false},
		{"revise without reasons", Verdict{Outcome: VerdictRevise}, true},
		{"unknown outcome", Verdict{Outcome: "maybe"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.verdict.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrContractViolation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLifecycleHooks_MergeChainsInOrder(t *testing.T) {
	var calls []string
	first := LifecycleHooks{
		OnStageStart: func(context.Context, *StageEvent) { calls = append(calls, "first") },
	}
	second := LifecycleHooks{
		OnStageStart: func(context.Context, *StageEvent) { calls = append(calls, "second") },
	}

	merged := first.Merge(second)
	merged.OnStageStart(context.Background(), &StageEvent{Stage: "x"})

	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Nil(t, merged.OnVerdict, "unset hooks stay nil after merge")
}
