package genretlin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/components"
	"github.com/vk/gridframe/internal/model"
	"github.com/vk/gridframe/internal/scenario"
	"github.com/vk/gridframe/internal/store"
)

func loadedBuild(t *testing.T) (*catalog.BuildContext, *catalog.ModuleSpec) {
	t.Helper()
	b := &catalog.BuildContext{
		Key:        store.ScenarioKey{Scenario: "test", Subproblem: 1, Stage: 1},
		Model:      model.New(),
		Components: components.New(),
		Scenario: &scenario.Scenario{
			Name: "test",
			Projects: []*scenario.ProjectRow{{
				Name:         "Gas",
				CapacityType: TypeName,
				Attrs: map[string]cty.Value{
					attrCapacityMW: cty.ObjectVal(map[string]cty.Value{
						"2030": cty.NumberFloatVal(4),
					}),
					attrFixedCostPerMWYr: cty.ObjectVal(map[string]cty.Value{
						"2030": cty.NumberFloatVal(50),
					}),
				},
			}},
		},
	}

	cat := catalog.New()
	Module{}.Register(cat)
	spec, ok := cat.Lookup(catalog.Capacity, TypeName)
	require.True(t, ok)

	ctx := context.Background()
	require.NoError(t, spec.Hooks.Register(ctx, b))
	b.Components.Seal()
	require.NoError(t, spec.Hooks.LoadData(ctx, b))
	return b, spec
}

func TestModule_CapacityNetOfRetirement(t *testing.T) {
	t.Parallel()
	b, spec := loadedBuild(t)

	// Pre-solve: the retirement variable reads as zero.
	capacity, err := spec.Rules[catalog.OpCapacity](b.Model, "Gas", 2030)
	require.NoError(t, err)
	assert.Equal(t, 4.0, capacity)

	b.Model.SetValue(VarRetireMW, model.Pair{Entity: "Gas", Index: 2030}, 1.5)

	capacity, err = spec.Rules[catalog.OpCapacity](b.Model, "Gas", 2030)
	require.NoError(t, err)
	assert.Equal(t, 2.5, capacity)

	cost, err := spec.Rules[catalog.OpCapacityCost](b.Model, "Gas", 2030)
	require.NoError(t, err)
	assert.Equal(t, 125.0, cost, "fixed cost applies only to the capacity left online")
}

func TestModule_ImportRestoresRetirement(t *testing.T) {
	t.Parallel()
	b, spec := loadedBuild(t)
	ctx := context.Background()

	b.Model.SetValue(VarRetireMW, model.Pair{Entity: "Gas", Index: 2030}, 1.0)
	rows, err := spec.Hooks.ExportResults(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []store.ResultRow{
		{Component: "capacity_mw", Entity: "Gas", Index: 2030, Value: 3},
		{Component: "retired_mw", Entity: "Gas", Index: 2030, Value: 1},
	}, rows)

	// A fresh build importing those rows reproduces the retirement state.
	fresh, freshSpec := loadedBuild(t)
	require.NoError(t, freshSpec.Hooks.ImportResults(ctx, fresh, rows))
	assert.Equal(t, 1.0, fresh.Model.Value(VarRetireMW, model.Pair{Entity: "Gas", Index: 2030}))

	capacity, err := freshSpec.Rules[catalog.OpCapacity](fresh.Model, "Gas", 2030)
	require.NoError(t, err)
	assert.Equal(t, 3.0, capacity)
}
