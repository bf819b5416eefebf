package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridframe/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RoundTripPreservesExportOrder(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	key := store.ScenarioKey{Scenario: "base", Subproblem: 1, Stage: 1}

	// Deliberately not sorted by entity or index; order must survive.
	rows := []store.ResultRow{
		{Component: "capacity_mw", Entity: "Gas", Index: 2040, Value: 4},
		{Component: "capacity_mw", Entity: "Coal", Index: 2030, Value: 6},
		{Component: "retired_mw", Entity: "Coal", Index: 2030, Value: 1.5},
	}
	require.NoError(t, s.ReplaceResults(ctx, key, "capacity/retire-linear", rows))

	got, err := s.Results(ctx, key, "capacity/retire-linear")
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestStore_DoubleExportLeavesExactlyNewRows(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	key := store.ScenarioKey{Scenario: "base", Subproblem: 1, Stage: 1}

	first := []store.ResultRow{
		{Component: "capacity_mw", Entity: "Coal", Index: 2030, Value: 6},
		{Component: "capacity_mw", Entity: "Coal", Index: 2040, Value: 6},
		{Component: "capacity_mw", Entity: "Gas", Index: 2030, Value: 4},
	}
	require.NoError(t, s.ReplaceResults(ctx, key, "capacity/spec", first))

	second := []store.ResultRow{
		{Component: "capacity_mw", Entity: "Coal", Index: 2030, Value: 5},
	}
	require.NoError(t, s.ReplaceResults(ctx, key, "capacity/spec", second))

	got, err := s.Results(ctx, key, "capacity/spec")
	require.NoError(t, err)
	assert.Equal(t, second, got, "re-export replaces the slice; stale rows must not survive")
}

func TestStore_ReplaceScopedToKeyAndModule(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	keyA := store.ScenarioKey{Scenario: "base", Subproblem: 1, Stage: 1}
	keyB := store.ScenarioKey{Scenario: "base", Subproblem: 1, Stage: 2}

	rowsA := []store.ResultRow{{Component: "power_mw", Entity: "Wind", Index: 1, Value: 2}}
	rowsOther := []store.ResultRow{{Component: "capacity_mw", Entity: "Wind", Index: 2030, Value: 9}}
	require.NoError(t, s.ReplaceResults(ctx, keyA, "operational/variable", rowsA))
	require.NoError(t, s.ReplaceResults(ctx, keyA, "capacity/spec", rowsOther))
	require.NoError(t, s.ReplaceResults(ctx, keyB, "operational/variable", nil))

	got, err := s.Results(ctx, keyA, "operational/variable")
	require.NoError(t, err)
	assert.Equal(t, rowsA, got)

	got, err = s.Results(ctx, keyA, "capacity/spec")
	require.NoError(t, err)
	assert.Equal(t, rowsOther, got, "another module's slice under the same key is untouched")
}

func TestStore_ConsecutiveReplacesReuseTheConnection(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	key := store.ScenarioKey{Scenario: "base", Subproblem: 1, Stage: 1}

	// The staging table is created and dropped per replace on a single
	// connection; many replaces in a row must not collide.
	for i := 0; i < 5; i++ {
		rows := []store.ResultRow{{Component: "capacity_mw", Entity: "Coal", Index: 2030, Value: float64(i)}}
		require.NoError(t, s.ReplaceResults(ctx, key, "capacity/spec", rows))
	}

	got, err := s.Results(ctx, key, "capacity/spec")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4.0, got[0].Value)
}

func TestStore_FindingsRoundTrip(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	key := store.ScenarioKey{Scenario: "base", Subproblem: 1, Stage: 1}

	findings := []store.Finding{
		{Module: "capacity/spec", Severity: store.SeverityHigh, Message: "missing capacity"},
		{Module: "operational/variable", Severity: store.SeverityMid, Message: "cap factor out of range"},
	}
	require.NoError(t, s.WriteFindings(ctx, key, findings))

	got, err := s.Findings(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, findings, got)

	other, err := s.Findings(ctx, store.ScenarioKey{Scenario: "other"})
	require.NoError(t, err)
	assert.Empty(t, other)
}
