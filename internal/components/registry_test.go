package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridframe/internal/model"
)

func TestRegistry_RegisterIsIdempotent(t *testing.T) {
	t.Parallel()
	r := New()

	require.NoError(t, r.Register("capacity_type_operational_periods", "gen_spec_operational_periods", "spec"))
	require.NoError(t, r.Register("capacity_type_operational_periods", "gen_spec_operational_periods", "spec"),
		"re-registering the identical contribution is a no-op")

	assert.Equal(t, []string{"capacity_type_operational_periods"}, r.Keys())
}

func TestRegistry_AmbiguousMembershipFails(t *testing.T) {
	t.Parallel()
	r := New()

	require.NoError(t, r.Register("capacity_type_operational_periods", "shared_set", "spec"))
	err := r.Register("capacity_type_operational_periods", "shared_set", "retire-linear")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous membership")
	assert.Contains(t, err.Error(), `"spec"`)
	assert.Contains(t, err.Error(), `"retire-linear"`)
}

func TestRegistry_SealedRejectsWrites(t *testing.T) {
	t.Parallel()
	r := New()
	r.Seal()

	require.True(t, r.Sealed())
	require.Error(t, r.Register("key", "set", "type"))
	require.Error(t, r.RegisterGroup("GroupA", "type"))
}

func TestRegistry_Groups(t *testing.T) {
	t.Parallel()
	r := New()

	require.NoError(t, r.RegisterGroup("ELCC_Zone1", "energy-only-allowed"))
	require.NoError(t, r.RegisterGroup("ELCC_Zone1", "energy-only-allowed"),
		"same type twice is a no-op")

	err := r.RegisterGroup("ELCC_Zone1", "some-other-type")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicting types")

	typ, ok := r.GroupType("ELCC_Zone1")
	require.True(t, ok)
	assert.Equal(t, "energy-only-allowed", typ)
	assert.Equal(t, []string{"ELCC_Zone1"}, r.Groups())
}

func TestRegistry_JoinUnionsDisjointSets(t *testing.T) {
	t.Parallel()
	m := model.New()
	r := New()

	specSet, err := m.NewSet("gen_spec_operational_periods")
	require.NoError(t, err)
	retSet, err := m.NewSet("gen_ret_lin_operational_periods")
	require.NoError(t, err)

	specSet.Add(model.Pair{Entity: "Coal", Index: 2030})
	specSet.Add(model.Pair{Entity: "Coal", Index: 2040})
	retSet.Add(model.Pair{Entity: "Gas", Index: 2030})

	require.NoError(t, r.Register("capacity_type_operational_periods", "gen_spec_operational_periods", "spec"))
	require.NoError(t, r.Register("capacity_type_operational_periods", "gen_ret_lin_operational_periods", "retire-linear"))
	r.Seal()

	joined, err := r.Join(m, "capacity_type_operational_periods", "project_operational_periods")
	require.NoError(t, err)

	assert.Equal(t, []model.Pair{
		{Entity: "Coal", Index: 2030},
		{Entity: "Coal", Index: 2040},
		{Entity: "Gas", Index: 2030},
	}, joined.Pairs(), "the join is the union in contribution order")

	declared, ok := m.Set("project_operational_periods")
	require.True(t, ok)
	assert.Same(t, joined, declared, "the joined set is declared on the model")
}

func TestRegistry_JoinBeforeSealFails(t *testing.T) {
	t.Parallel()
	m := model.New()
	r := New()

	_, err := r.Join(m, "capacity_type_operational_periods", "project_operational_periods")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registration phase")
}

func TestRegistry_JoinDetectsOverlap(t *testing.T) {
	t.Parallel()
	m := model.New()
	r := New()

	specSet, err := m.NewSet("gen_spec_operational_periods")
	require.NoError(t, err)
	retSet, err := m.NewSet("gen_ret_lin_operational_periods")
	require.NoError(t, err)

	// The same project-period pair claimed by two types within one category.
	specSet.Add(model.Pair{Entity: "Coal", Index: 2030})
	retSet.Add(model.Pair{Entity: "Coal", Index: 2030})

	require.NoError(t, r.Register("capacity_type_operational_periods", "gen_spec_operational_periods", "spec"))
	require.NoError(t, r.Register("capacity_type_operational_periods", "gen_ret_lin_operational_periods", "retire-linear"))
	r.Seal()

	_, err = r.Join(m, "capacity_type_operational_periods", "project_operational_periods")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "integrity violation")
	assert.Contains(t, err.Error(), `"Coal"`)
	assert.Contains(t, err.Error(), "2030")
	assert.Contains(t, err.Error(), `"spec"`)
	assert.Contains(t, err.Error(), `"retire-linear"`)
}

func TestRegistry_JoinEmptyKeyYieldsEmptySet(t *testing.T) {
	t.Parallel()
	m := model.New()
	r := New()
	r.Seal()

	joined, err := r.Join(m, "reserve_type_timepoints", "reserve_project_timepoints")
	require.NoError(t, err)
	assert.Zero(t, joined.Len())
}
