package model

import (
	"fmt"
	"sort"
)

// Rule is the shared signature for every operation a type module contributes.
// The index argument is a period or a timepoint depending on the operation.
type Rule func(m *Model, entity string, idx int) (float64, error)

// Pair is a single (entity, period) or (entity, timepoint) element of an
// index set.
type Pair struct {
	Entity string
	Index  int
}

func (p Pair) String() string {
	return fmt.Sprintf("(%s, %d)", p.Entity, p.Index)
}

// Project is a generation or storage entity with a declared type per module
// category. Declared types come straight from scenario input data.
type Project struct {
	Name     string
	LoadZone string
	// Types maps a category name (e.g. "capacity") to the declared type
	// name (e.g. "spec"). Categories the project does not participate in
	// are simply absent.
	Types map[string]string
	// CostGroup is the optional reliability cost group this project
	// belongs to.
	CostGroup string
}

// TxLine is a transmission line entity with declared tx-capacity and
// tx-operational types.
type TxLine struct {
	Name     string
	FromZone string
	ToZone   string
	Types    map[string]string
}

// Model is the shared surface type modules contribute components into during
// one scenario build. It is created fresh per build and never shared across
// concurrent builds.
type Model struct {
	periods    []int
	timepoints []int

	projects  []*Project
	projByKey map[string]*Project
	txLines   []*TxLine
	txByKey   map[string]*TxLine

	sets     map[string]*PairSet
	setOrder []string

	pairParams   map[string]map[Pair]float64
	entityParams map[string]map[string]float64

	// values holds solution values for decision variables and imported
	// result components. A value that was never set reads as zero, which
	// is the pre-solve state of every decision variable.
	values map[string]map[Pair]float64
}

// New returns an empty model.
func New() *Model {
	return &Model{
		projByKey:    make(map[string]*Project),
		txByKey:      make(map[string]*TxLine),
		sets:         make(map[string]*PairSet),
		pairParams:   make(map[string]map[Pair]float64),
		entityParams: make(map[string]map[string]float64),
		values:       make(map[string]map[Pair]float64),
	}
}

// SetPeriods installs the investment periods, sorted ascending.
func (m *Model) SetPeriods(periods []int) {
	m.periods = append([]int(nil), periods...)
	sort.Ints(m.periods)
}

// Periods returns the investment periods in ascending order.
func (m *Model) Periods() []int { return m.periods }

// FirstPeriod returns the earliest period, or 0 if none are defined.
func (m *Model) FirstPeriod() int {
	if len(m.periods) == 0 {
		return 0
	}
	return m.periods[0]
}

// SetTimepoints installs the operational timepoints, sorted ascending.
func (m *Model) SetTimepoints(tmps []int) {
	m.timepoints = append([]int(nil), tmps...)
	sort.Ints(m.timepoints)
}

// Timepoints returns the operational timepoints in ascending order.
func (m *Model) Timepoints() []int { return m.timepoints }

// AddProject adds a project entity. Project names are unique within a model.
func (m *Model) AddProject(p *Project) error {
	if _, exists := m.projByKey[p.Name]; exists {
		return fmt.Errorf("project %q already defined", p.Name)
	}
	m.projects = append(m.projects, p)
	m.projByKey[p.Name] = p
	return nil
}

// Project looks up a project by name.
func (m *Model) Project(name string) (*Project, bool) {
	p, ok := m.projByKey[name]
	return p, ok
}

// Projects returns all projects in input order.
func (m *Model) Projects() []*Project { return m.projects }

// AddTxLine adds a transmission line entity. Line names are unique.
func (m *Model) AddTxLine(tx *TxLine) error {
	if _, exists := m.txByKey[tx.Name]; exists {
		return fmt.Errorf("transmission line %q already defined", tx.Name)
	}
	m.txLines = append(m.txLines, tx)
	m.txByKey[tx.Name] = tx
	return nil
}

// TxLine looks up a transmission line by name.
func (m *Model) TxLine(name string) (*TxLine, bool) {
	tx, ok := m.txByKey[name]
	return tx, ok
}

// TxLines returns all transmission lines in input order.
func (m *Model) TxLines() []*TxLine { return m.txLines }

// DeclaredType returns the type an entity declared for the given category.
// Both projects and transmission lines are searched; entity ids are unique
// within their kind.
func (m *Model) DeclaredType(category, entity string) (string, bool) {
	if p, ok := m.projByKey[entity]; ok {
		t, ok := p.Types[category]
		return t, ok
	}
	if tx, ok := m.txByKey[entity]; ok {
		t, ok := tx.Types[category]
		return t, ok
	}
	return "", false
}

// NewSet declares a named pair set on the model. Set names are unique; a
// module declaring a set that already exists is a registration defect.
func (m *Model) NewSet(name string) (*PairSet, error) {
	if _, exists := m.sets[name]; exists {
		return nil, fmt.Errorf("set %q already declared", name)
	}
	s := newPairSet(name)
	m.sets[name] = s
	m.setOrder = append(m.setOrder, name)
	return s, nil
}

// Set looks up a declared set by name.
func (m *Model) Set(name string) (*PairSet, bool) {
	s, ok := m.sets[name]
	return s, ok
}

// SetNames returns all declared set names in declaration order.
func (m *Model) SetNames() []string { return m.setOrder }

// SetParam records a parameter value indexed by (entity, period/timepoint).
func (m *Model) SetParam(name string, p Pair, v float64) {
	vals, ok := m.pairParams[name]
	if !ok {
		vals = make(map[Pair]float64)
		m.pairParams[name] = vals
	}
	vals[p] = v
}

// Param reads a pair-indexed parameter value.
func (m *Model) Param(name string, p Pair) (float64, bool) {
	v, ok := m.pairParams[name][p]
	return v, ok
}

// MustParam reads a pair-indexed parameter that load-data guarantees present.
func (m *Model) MustParam(name string, p Pair) (float64, error) {
	v, ok := m.pairParams[name][p]
	if !ok {
		return 0, fmt.Errorf("parameter %q has no value at %s", name, p)
	}
	return v, nil
}

// SetEntityParam records a parameter value indexed by entity only.
func (m *Model) SetEntityParam(name, entity string, v float64) {
	vals, ok := m.entityParams[name]
	if !ok {
		vals = make(map[string]float64)
		m.entityParams[name] = vals
	}
	vals[entity] = v
}

// EntityParam reads an entity-indexed parameter value.
func (m *Model) EntityParam(name, entity string) (float64, bool) {
	v, ok := m.entityParams[name][entity]
	return v, ok
}

// SetValue records a solution value for a variable or imported component.
func (m *Model) SetValue(component string, p Pair, v float64) {
	vals, ok := m.values[component]
	if !ok {
		vals = make(map[Pair]float64)
		m.values[component] = vals
	}
	vals[p] = v
}

// Value reads a solution value. Components that were never assigned read as
// zero, matching the pre-solve state of a decision variable.
func (m *Model) Value(component string, p Pair) float64 {
	return m.values[component][p]
}
