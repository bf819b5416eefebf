package scenario

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Scenario is the loaded input data for one scenario build: the temporal
// structure plus every entity row with its declared types and the raw
// module-specific attributes.
type Scenario struct {
	Name       string
	Subproblem int
	Stage      int

	Periods    []int
	Timepoints []int

	Projects []*ProjectRow
	TxLines  []*TxLineRow
}

// ProjectRow is one project entity as declared in scenario input. Attrs holds
// every attribute the core schema does not claim; type modules pull their own
// data out of it during the load-data phase.
type ProjectRow struct {
	Name            string
	LoadZone        string
	CapacityType    string
	OperationalType string
	ReliabilityType string
	ReserveType     string
	CostGroup       string

	Attrs map[string]cty.Value
}

// TxLineRow is one transmission line entity as declared in scenario input.
type TxLineRow struct {
	Name              string
	FromZone          string
	ToZone            string
	TxCapacityType    string
	TxOperationalType string

	Attrs map[string]cty.Value
}

// DeclaredType returns the project's declared type for a category name, or
// "" if the project does not participate in that category.
func (p *ProjectRow) DeclaredType(category string) string {
	switch category {
	case "capacity":
		return p.CapacityType
	case "operational":
		return p.OperationalType
	case "reliability":
		return p.ReliabilityType
	case "reserve":
		return p.ReserveType
	}
	return ""
}

// DeclaredType returns the line's declared type for a category name.
func (tx *TxLineRow) DeclaredType(category string) string {
	switch category {
	case "tx-capacity":
		return tx.TxCapacityType
	case "tx-operational":
		return tx.TxOperationalType
	}
	return ""
}

// RequiredTypes returns the distinct declared types for a category across all
// entity rows, in order of first appearance. This is what decides which type
// modules a build actually needs.
func (s *Scenario) RequiredTypes(category string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(t string) {
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, p := range s.Projects {
		add(p.DeclaredType(category))
	}
	for _, tx := range s.TxLines {
		add(tx.DeclaredType(category))
	}
	return out
}

// ProjectsOfType returns the projects that declared the given type for a
// category, in input order. Load-data hooks use this so each module only ever
// sees its own entities.
func (s *Scenario) ProjectsOfType(category, typeName string) []*ProjectRow {
	var out []*ProjectRow
	for _, p := range s.Projects {
		if p.DeclaredType(category) == typeName {
			out = append(out, p)
		}
	}
	return out
}

// TxLinesOfType returns the transmission lines that declared the given type
// for a category, in input order.
func (s *Scenario) TxLinesOfType(category, typeName string) []*TxLineRow {
	var out []*TxLineRow
	for _, tx := range s.TxLines {
		if tx.DeclaredType(category) == typeName {
			out = append(out, tx)
		}
	}
	return out
}

// --- typed access to module-specific attributes ---

// AttrFloat reads a single numeric attribute. The second return is false when
// the attribute is absent.
func AttrFloat(attrs map[string]cty.Value, name string) (float64, bool, error) {
	v, ok := attrs[name]
	if !ok {
		return 0, false, nil
	}
	n, err := convert.Convert(v, cty.Number)
	if err != nil {
		return 0, true, fmt.Errorf("attribute %q: %w", name, err)
	}
	f, _ := n.AsBigFloat().Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, true, fmt.Errorf("attribute %q: value is not a finite number", name)
	}
	return f, true, nil
}

// AttrString reads a single string attribute.
func AttrString(attrs map[string]cty.Value, name string) (string, bool, error) {
	v, ok := attrs[name]
	if !ok {
		return "", false, nil
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", true, fmt.Errorf("attribute %q: %w", name, err)
	}
	return s.AsString(), true, nil
}

// AttrIndexedFloat reads an attribute written as a map from period or
// timepoint (as a string key, since HCL object keys are strings) to a number,
// e.g. `capacity_mw = { "2030" = 6.0 }`. Keys are returned sorted ascending.
func AttrIndexedFloat(attrs map[string]cty.Value, name string) (map[int]float64, []int, error) {
	v, ok := attrs[name]
	if !ok {
		return nil, nil, nil
	}
	if !v.CanIterateElements() {
		return nil, nil, fmt.Errorf("attribute %q: expected an object keyed by period or timepoint", name)
	}
	out := make(map[int]float64)
	var keys []int
	for it := v.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		ks, err := convert.Convert(k, cty.String)
		if err != nil {
			return nil, nil, fmt.Errorf("attribute %q: key: %w", name, err)
		}
		idx, err := strconv.Atoi(ks.AsString())
		if err != nil {
			return nil, nil, fmt.Errorf("attribute %q: key %q is not an integer index", name, ks.AsString())
		}
		n, err := convert.Convert(ev, cty.Number)
		if err != nil {
			return nil, nil, fmt.Errorf("attribute %q at index %d: %w", name, idx, err)
		}
		f, _ := n.AsBigFloat().Float64()
		out[idx] = f
		keys = append(keys, idx)
	}
	sort.Ints(keys)
	return out, keys, nil
}
