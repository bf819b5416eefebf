package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/model"
)

// fullCapacitySpec returns a spec satisfying the capacity contract.
func fullCapacitySpec(typeName string) *catalog.ModuleSpec {
	zero := func(m *model.Model, g string, p int) (float64, error) { return 0, nil }
	return &catalog.ModuleSpec{
		Category: catalog.Capacity,
		TypeName: typeName,
		Rules: map[string]model.Rule{
			catalog.OpCapacity:     zero,
			catalog.OpCapacityCost: zero,
			catalog.OpNewCapacity:  zero,
		},
	}
}

func TestLoad_ResolvesRequiredTypesInOrder(t *testing.T) {
	t.Parallel()
	cat := catalog.New()
	cat.Add(fullCapacitySpec("spec"))
	cat.Add(fullCapacitySpec("retire-linear"))

	lm, err := Load(context.Background(), cat, catalog.Capacity, []string{"retire-linear", "spec", "retire-linear"})
	require.NoError(t, err)

	assert.Equal(t, 2, lm.Len(), "duplicates in the required list load once")
	assert.Equal(t, []string{"retire-linear", "spec"}, lm.Names())

	spec, ok := lm.Get("spec")
	require.True(t, ok)
	assert.Equal(t, "capacity/spec", spec.ModuleName())

	specs := lm.Specs()
	require.Len(t, specs, 2)
	assert.Equal(t, "capacity/retire-linear", specs[0].ModuleName())
}

func TestLoad_UnknownTypeFails(t *testing.T) {
	t.Parallel()
	cat := catalog.New()
	cat.Add(fullCapacitySpec("spec"))

	_, err := Load(context.Background(), cat, catalog.Capacity, []string{"no-such-type"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "no-such-type"`)
	assert.Contains(t, err.Error(), `"capacity"`)
}

func TestLoad_ContractViolationNamesModuleAndOps(t *testing.T) {
	t.Parallel()
	cat := catalog.New()
	incomplete := fullCapacitySpec("half-built")
	delete(incomplete.Rules, catalog.OpCapacityCost)
	delete(incomplete.Rules, catalog.OpNewCapacity)
	cat.Add(incomplete)

	_, err := Load(context.Background(), cat, catalog.Capacity, []string{"half-built"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"capacity/half-built"`)
	assert.Contains(t, err.Error(), catalog.OpCapacityCost)
	assert.Contains(t, err.Error(), catalog.OpNewCapacity)
}

func TestLoad_AllProblemsReportedInOneBatch(t *testing.T) {
	t.Parallel()
	cat := catalog.New()
	incomplete := fullCapacitySpec("half-built")
	delete(incomplete.Rules, catalog.OpCapacity)
	cat.Add(incomplete)

	_, err := Load(context.Background(), cat, catalog.Capacity, []string{"missing-a", "half-built", "missing-b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "missing-a"`)
	assert.Contains(t, err.Error(), `unknown type "missing-b"`)
	assert.Contains(t, err.Error(), `"capacity/half-built"`)
}

func TestLoad_SameRequiredSetIsDeterministic(t *testing.T) {
	t.Parallel()
	cat := catalog.New()
	cat.Add(fullCapacitySpec("spec"))
	cat.Add(fullCapacitySpec("retire-linear"))

	required := []string{"spec", "retire-linear"}
	first, err := Load(context.Background(), cat, catalog.Capacity, required)
	require.NoError(t, err)
	second, err := Load(context.Background(), cat, catalog.Capacity, required)
	require.NoError(t, err)

	assert.Equal(t, first.Names(), second.Names())
}
