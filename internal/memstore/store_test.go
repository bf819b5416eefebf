package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridframe/internal/store"
)

func TestStore_ReplaceSwapsWholeSlice(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	key := store.ScenarioKey{Scenario: "base", Subproblem: 1, Stage: 1}

	first := []store.ResultRow{
		{Component: "capacity_mw", Entity: "Coal", Index: 2030, Value: 6},
		{Component: "capacity_mw", Entity: "Coal", Index: 2040, Value: 6},
	}
	require.NoError(t, s.ReplaceResults(ctx, key, "capacity/spec", first))

	second := []store.ResultRow{
		{Component: "capacity_mw", Entity: "Coal", Index: 2030, Value: 4},
	}
	require.NoError(t, s.ReplaceResults(ctx, key, "capacity/spec", second))

	got, err := s.Results(ctx, key, "capacity/spec")
	require.NoError(t, err)
	assert.Equal(t, second, got, "a second export replaces, never appends")
}

func TestStore_KeysAndModulesAreIsolated(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	keyA := store.ScenarioKey{Scenario: "base", Subproblem: 1, Stage: 1}
	keyB := store.ScenarioKey{Scenario: "base", Subproblem: 2, Stage: 1}

	rowsA := []store.ResultRow{{Component: "power_mw", Entity: "Wind", Index: 1, Value: 3}}
	require.NoError(t, s.ReplaceResults(ctx, keyA, "operational/variable", rowsA))
	require.NoError(t, s.ReplaceResults(ctx, keyB, "operational/variable", nil))

	got, err := s.Results(ctx, keyA, "operational/variable")
	require.NoError(t, err)
	assert.Equal(t, rowsA, got, "a replace under another subproblem never touches this slice")

	got, err = s.Results(ctx, keyA, "capacity/spec")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_FindingsAppendWithinBuild(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	key := store.ScenarioKey{Scenario: "base"}

	f1 := store.Finding{Module: "capacity/spec", Severity: store.SeverityHigh, Message: "missing capacity"}
	f2 := store.Finding{Module: "operational/variable", Severity: store.SeverityMid, Message: "cap factor out of range"}
	require.NoError(t, s.WriteFindings(ctx, key, []store.Finding{f1}))
	require.NoError(t, s.WriteFindings(ctx, key, []store.Finding{f2}))

	got, err := s.Findings(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []store.Finding{f1, f2}, got)
}

func TestStore_ConcurrentBuildsDoNotInterfere(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(sub int) {
			defer wg.Done()
			key := store.ScenarioKey{Scenario: "base", Subproblem: sub, Stage: 1}
			rows := []store.ResultRow{{Component: "capacity_mw", Entity: "Coal", Index: sub, Value: float64(sub)}}
			for j := 0; j < 20; j++ {
				_ = s.ReplaceResults(ctx, key, "capacity/spec", rows)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		key := store.ScenarioKey{Scenario: "base", Subproblem: i, Stage: 1}
		got, err := s.Results(ctx, key, "capacity/spec")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, float64(i), got[0].Value)
	}
}
