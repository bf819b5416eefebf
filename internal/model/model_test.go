package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_SetsAreUniqueAndOrdered(t *testing.T) {
	t.Parallel()
	m := New()

	_, err := m.NewSet("alpha")
	require.NoError(t, err)
	_, err = m.NewSet("beta")
	require.NoError(t, err)

	_, err = m.NewSet("alpha")
	require.Error(t, err, "declaring the same set twice must fail")
	assert.Contains(t, err.Error(), `"alpha"`)

	assert.Equal(t, []string{"alpha", "beta"}, m.SetNames())
}

func TestModel_DeclaredType(t *testing.T) {
	t.Parallel()
	m := New()

	require.NoError(t, m.AddProject(&Project{
		Name:  "Coal",
		Types: map[string]string{"capacity": "spec", "operational": "must-run"},
	}))
	require.NoError(t, m.AddTxLine(&TxLine{
		Name:  "Tx1",
		Types: map[string]string{"tx-capacity": "specified"},
	}))

	typ, ok := m.DeclaredType("capacity", "Coal")
	require.True(t, ok)
	assert.Equal(t, "spec", typ)

	typ, ok = m.DeclaredType("tx-capacity", "Tx1")
	require.True(t, ok)
	assert.Equal(t, "specified", typ)

	_, ok = m.DeclaredType("reserve", "Coal")
	assert.False(t, ok, "a category the project does not participate in has no type")

	_, ok = m.DeclaredType("capacity", "NoSuchEntity")
	assert.False(t, ok)
}

func TestModel_DuplicateEntities(t *testing.T) {
	t.Parallel()
	m := New()

	require.NoError(t, m.AddProject(&Project{Name: "Coal"}))
	err := m.AddProject(&Project{Name: "Coal"})
	require.Error(t, err)

	require.NoError(t, m.AddTxLine(&TxLine{Name: "Tx1"}))
	err = m.AddTxLine(&TxLine{Name: "Tx1"})
	require.Error(t, err)
}

func TestModel_ParamsAndValues(t *testing.T) {
	t.Parallel()
	m := New()
	pair := Pair{Entity: "Coal", Index: 2030}

	_, ok := m.Param("capacity_mw", pair)
	assert.False(t, ok)

	m.SetParam("capacity_mw", pair, 6.0)
	v, ok := m.Param("capacity_mw", pair)
	require.True(t, ok)
	assert.Equal(t, 6.0, v)

	got, err := m.MustParam("capacity_mw", pair)
	require.NoError(t, err)
	assert.Equal(t, 6.0, got)

	_, err = m.MustParam("capacity_mw", Pair{Entity: "Coal", Index: 2040})
	require.Error(t, err, "MustParam fails on an index load-data never filled")

	// Solution values default to zero before any solve or import.
	assert.Zero(t, m.Value("retire_mw", pair))
	m.SetValue("retire_mw", pair, 2.5)
	assert.Equal(t, 2.5, m.Value("retire_mw", pair))
}

func TestModel_TemporalStructure(t *testing.T) {
	t.Parallel()
	m := New()

	assert.Zero(t, m.FirstPeriod())

	m.SetPeriods([]int{2040, 2030})
	m.SetTimepoints([]int{3, 1, 2})

	assert.Equal(t, []int{2030, 2040}, m.Periods())
	assert.Equal(t, []int{1, 2, 3}, m.Timepoints())
	assert.Equal(t, 2030, m.FirstPeriod())
}

func TestPairSet_OrderAndMembership(t *testing.T) {
	t.Parallel()
	s := newPairSet("test_set")

	a := Pair{Entity: "A", Index: 1}
	b := Pair{Entity: "B", Index: 1}

	assert.True(t, s.Add(a))
	assert.True(t, s.Add(b))
	assert.False(t, s.Add(a), "re-adding an existing pair reports false")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(a))
	assert.False(t, s.Contains(Pair{Entity: "A", Index: 2}))
	assert.Equal(t, []Pair{a, b}, s.Pairs(), "pairs keep insertion order")
	assert.Equal(t, []string{"A", "B"}, s.Entities())
}
