// Package genspec implements the "spec" capacity type: generators whose
// capacity is specified exogenously per period and carries a fixed cost that
// never affects optimization decisions.
package genspec

import (
	"context"
	"fmt"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/model"
	"github.com/vk/gridframe/internal/scenario"
	"github.com/vk/gridframe/internal/store"
)

// TypeName is the declared type this module governs.
const TypeName = "spec"

const (
	setOperationalPeriods = "gen_spec_operational_periods"
	paramCapacityMW       = "gen_spec_capacity_mw"
	paramFixedCostPerMWYr = "gen_spec_fixed_cost_per_mw_yr"

	attrCapacityMW       = "specified_capacity_mw"
	attrFixedCostPerMWYr = "fixed_cost_per_mw_yr"
)

// Module registers the spec capacity type in the catalog.
type Module struct{}

func (Module) Register(c *catalog.Catalog) {
	c.Add(&catalog.ModuleSpec{
		Category: catalog.Capacity,
		TypeName: TypeName,
		Rules: map[string]model.Rule{
			catalog.OpCapacity:     capacityRule,
			catalog.OpCapacityCost: capacityCostRule,
			catalog.OpNewCapacity:  newCapacityRule,
		},
		Hooks: catalog.Hooks{
			Register:      register,
			LoadData:      loadData,
			ExportResults: exportResults,
			ImportResults: importResults,
			Validate:      validate,
		},
	})
}

func register(ctx context.Context, b *catalog.BuildContext) error {
	if _, err := b.Model.NewSet(setOperationalPeriods); err != nil {
		return err
	}
	return b.Components.Register(catalog.AggCapacityOperationalPeriods, setOperationalPeriods, TypeName)
}

func loadData(ctx context.Context, b *catalog.BuildContext) error {
	s, _ := b.Model.Set(setOperationalPeriods)
	for _, row := range b.Scenario.ProjectsOfType(string(catalog.Capacity), TypeName) {
		capByPrd, periods, err := scenario.AttrIndexedFloat(row.Attrs, attrCapacityMW)
		if err != nil {
			return fmt.Errorf("project %q: %w", row.Name, err)
		}
		if capByPrd == nil {
			return fmt.Errorf("project %q: required attribute %q is missing", row.Name, attrCapacityMW)
		}
		costByPrd, _, err := scenario.AttrIndexedFloat(row.Attrs, attrFixedCostPerMWYr)
		if err != nil {
			return fmt.Errorf("project %q: %w", row.Name, err)
		}
		for _, prd := range periods {
			pair := model.Pair{Entity: row.Name, Index: prd}
			s.Add(pair)
			b.Model.SetParam(paramCapacityMW, pair, capByPrd[prd])
			b.Model.SetParam(paramFixedCostPerMWYr, pair, costByPrd[prd])
		}
	}
	return nil
}

// capacityRule: specified capacity is a fixed input for each operational
// period.
func capacityRule(m *model.Model, g string, p int) (float64, error) {
	return m.MustParam(paramCapacityMW, model.Pair{Entity: g, Index: p})
}

// capacityCostRule: capacity times the per-MW fixed cost; a constant in the
// objective.
func capacityCostRule(m *model.Model, g string, p int) (float64, error) {
	pair := model.Pair{Entity: g, Index: p}
	capacity, err := m.MustParam(paramCapacityMW, pair)
	if err != nil {
		return 0, err
	}
	cost, err := m.MustParam(paramFixedCostPerMWYr, pair)
	if err != nil {
		return 0, err
	}
	return capacity * cost, nil
}

// newCapacityRule: spec projects never build new capacity.
func newCapacityRule(m *model.Model, g string, p int) (float64, error) {
	return 0, nil
}

func exportResults(ctx context.Context, b *catalog.BuildContext) ([]store.ResultRow, error) {
	s, _ := b.Model.Set(setOperationalPeriods)
	var rows []store.ResultRow
	for _, pair := range s.Pairs() {
		capacity, err := b.Model.MustParam(paramCapacityMW, pair)
		if err != nil {
			return nil, err
		}
		rows = append(rows, store.ResultRow{
			Component: "capacity_mw",
			Entity:    pair.Entity,
			Index:     pair.Index,
			Value:     capacity,
		})
	}
	return rows, nil
}

func importResults(ctx context.Context, b *catalog.BuildContext, rows []store.ResultRow) error {
	for _, r := range rows {
		b.Model.SetValue(r.Component, model.Pair{Entity: r.Entity, Index: r.Index}, r.Value)
	}
	return nil
}

func validate(ctx context.Context, b *catalog.BuildContext) ([]store.Finding, error) {
	name := string(catalog.Capacity) + "/" + TypeName
	var findings []store.Finding
	for _, row := range b.Scenario.ProjectsOfType(string(catalog.Capacity), TypeName) {
		capByPrd, _, err := scenario.AttrIndexedFloat(row.Attrs, attrCapacityMW)
		if err != nil {
			findings = append(findings, store.Finding{
				Module:   name,
				Severity: store.SeverityHigh,
				Message:  fmt.Sprintf("project %q: %v", row.Name, err),
			})
			continue
		}
		if capByPrd == nil {
			findings = append(findings, store.Finding{
				Module:   name,
				Severity: store.SeverityHigh,
				Message:  fmt.Sprintf("project %q is missing required attribute %q", row.Name, attrCapacityMW),
			})
			continue
		}
		for prd, v := range capByPrd {
			if v < 0 {
				findings = append(findings, store.Finding{
					Module:   name,
					Severity: store.SeverityHigh,
					Message:  fmt.Sprintf("project %q: negative capacity %.4f in period %d", row.Name, v, prd),
				})
			}
		}
	}
	return findings, nil
}
