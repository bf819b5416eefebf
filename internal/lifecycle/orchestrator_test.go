package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/components"
	"github.com/vk/gridframe/internal/memstore"
	"github.com/vk/gridframe/internal/model"
	"github.com/vk/gridframe/internal/scenario"
	"github.com/vk/gridframe/internal/store"
)

func newBuildContext(sc *scenario.Scenario) *catalog.BuildContext {
	if sc == nil {
		sc = &scenario.Scenario{Name: "test"}
	}
	return &catalog.BuildContext{
		Key:        store.ScenarioKey{Scenario: sc.Name, Subproblem: 1, Stage: 1},
		Model:      model.New(),
		Components: components.New(),
		Scenario:   sc,
	}
}

func TestOrchestrator_RegisterRunsHooksInOrderAndSeals(t *testing.T) {
	t.Parallel()
	b := newBuildContext(nil)
	sink := memstore.New()

	var order []string
	hook := func(name string) func(ctx context.Context, b *catalog.BuildContext) error {
		return func(ctx context.Context, b *catalog.BuildContext) error {
			order = append(order, name)
			return nil
		}
	}

	orch := New(b, []*catalog.ModuleSpec{
		{Category: catalog.Capacity, TypeName: "a", Hooks: catalog.Hooks{Register: hook("a")}},
		{Category: catalog.Capacity, TypeName: "b", Hooks: catalog.Hooks{Register: hook("b")}},
		{Category: catalog.Operational, TypeName: "c", Hooks: catalog.Hooks{Register: hook("c")}},
	}, sink, sink)

	require.NoError(t, orch.Register(context.Background()))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.True(t, b.Components.Sealed())
}

func TestOrchestrator_RegisterFailureIsFatal(t *testing.T) {
	t.Parallel()
	b := newBuildContext(nil)
	sink := memstore.New()

	boom := errors.New("set collision")
	orch := New(b, []*catalog.ModuleSpec{
		{Category: catalog.Capacity, TypeName: "bad", Hooks: catalog.Hooks{
			Register: func(ctx context.Context, b *catalog.BuildContext) error { return boom },
		}},
	}, sink, sink)

	err := orch.Register(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"capacity/bad"`)
}

func TestOrchestrator_LoadDataRequiresSealedRegistry(t *testing.T) {
	t.Parallel()
	b := newBuildContext(nil)
	sink := memstore.New()
	orch := New(b, nil, sink, sink)

	err := orch.LoadData(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before register phase completed")
}

func TestOrchestrator_ExportCollectsPerModuleFailures(t *testing.T) {
	t.Parallel()
	b := newBuildContext(nil)
	sink := memstore.New()

	okRows := []store.ResultRow{{Component: "capacity_mw", Entity: "Coal", Index: 2030, Value: 6}}
	orch := New(b, []*catalog.ModuleSpec{
		{Category: catalog.Capacity, TypeName: "good", Hooks: catalog.Hooks{
			ExportResults: func(ctx context.Context, b *catalog.BuildContext) ([]store.ResultRow, error) {
				return okRows, nil
			},
		}},
		{Category: catalog.Capacity, TypeName: "broken", Hooks: catalog.Hooks{
			ExportResults: func(ctx context.Context, b *catalog.BuildContext) ([]store.ResultRow, error) {
				return nil, errors.New("no solution values")
			},
		}},
	}, sink, sink)

	report := orch.ExportResults(context.Background())
	require.True(t, report.Failed())
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "capacity/broken", report.Failures[0].Module)
	assert.Equal(t, "export_results: 1 of 2 modules failed", report.Summary())

	// The good module's rows were still committed.
	rows, err := sink.Results(context.Background(), b.Key, "capacity/good")
	require.NoError(t, err)
	assert.Equal(t, okRows, rows)
}

func TestOrchestrator_MissingExportHookIsFlaggedNotFailed(t *testing.T) {
	t.Parallel()
	sc := &scenario.Scenario{
		Name:     "test",
		Projects: []*scenario.ProjectRow{{Name: "Coal", CapacityType: "hookless"}},
	}
	b := newBuildContext(sc)
	sink := memstore.New()

	orch := New(b, []*catalog.ModuleSpec{
		{Category: catalog.Capacity, TypeName: "hookless"},
	}, sink, sink)

	report := orch.ExportResults(context.Background())
	assert.False(t, report.Failed(), "a missing hook is a defect, not a phase failure")
	require.Len(t, report.Flagged, 1)
	assert.Contains(t, report.Flagged[0], `"capacity/hookless"`)
}

func TestOrchestrator_ImportHandsBackCommittedRows(t *testing.T) {
	t.Parallel()
	b := newBuildContext(nil)
	sink := memstore.New()

	committed := []store.ResultRow{{Component: "retired_mw", Entity: "Coal", Index: 2030, Value: 2}}
	require.NoError(t, sink.ReplaceResults(context.Background(), b.Key, "capacity/retire-linear", committed))

	var received []store.ResultRow
	orch := New(b, []*catalog.ModuleSpec{
		{Category: catalog.Capacity, TypeName: "retire-linear", Hooks: catalog.Hooks{
			ImportResults: func(ctx context.Context, b *catalog.BuildContext, rows []store.ResultRow) error {
				received = rows
				return nil
			},
		}},
	}, sink, sink)

	report := orch.ImportResults(context.Background())
	assert.False(t, report.Failed())
	assert.Equal(t, committed, received)
}

func TestOrchestrator_ValidateAggregatesFindings(t *testing.T) {
	t.Parallel()
	b := newBuildContext(nil)
	sink := memstore.New()

	orch := New(b, []*catalog.ModuleSpec{
		{Category: catalog.Capacity, TypeName: "a", Hooks: catalog.Hooks{
			Validate: func(ctx context.Context, b *catalog.BuildContext) ([]store.Finding, error) {
				return []store.Finding{{Module: "capacity/a", Severity: store.SeverityHigh, Message: "missing capacity"}}, nil
			},
		}},
		{Category: catalog.Operational, TypeName: "b", Hooks: catalog.Hooks{
			Validate: func(ctx context.Context, b *catalog.BuildContext) ([]store.Finding, error) {
				return nil, errors.New("validator crashed")
			},
		}},
		{Category: catalog.Operational, TypeName: "c", Hooks: catalog.Hooks{
			Validate: func(ctx context.Context, b *catalog.BuildContext) ([]store.Finding, error) {
				return []store.Finding{{Module: "operational/c", Severity: store.SeverityLow, Message: "zero cost"}}, nil
			},
		}},
	}, sink, sink)

	report, findings := orch.Validate(context.Background())
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "operational/b", report.Failures[0].Module)
	require.Len(t, findings, 2, "one module's crash never hides its siblings' findings")

	stored, err := sink.Findings(context.Background(), b.Key)
	require.NoError(t, err)
	assert.Equal(t, findings, stored)
}
