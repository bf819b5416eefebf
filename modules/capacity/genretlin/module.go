// Package genretlin implements the "retire-linear" capacity type: existing
// generators whose capacity may be linearly and permanently retired to avoid
// fixed costs.
package genretlin

import (
	"context"
	"fmt"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/model"
	"github.com/vk/gridframe/internal/scenario"
	"github.com/vk/gridframe/internal/store"
)

// TypeName is the declared type this module governs.
const TypeName = "retire-linear"

// VarRetireMW is the retirement decision variable an external solve fills in.
const VarRetireMW = "gen_ret_lin_retire_mw"

const (
	setOperationalPeriods = "gen_ret_lin_operational_periods"
	paramCapacityMW       = "gen_ret_lin_capacity_mw"
	paramFixedCostPerMWYr = "gen_ret_lin_fixed_cost_per_mw_yr"

	attrCapacityMW       = "specified_capacity_mw"
	attrFixedCostPerMWYr = "fixed_cost_per_mw_yr"
)

// Module registers the retire-linear capacity type in the catalog.
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

// capacityRule: specified capacity net of retirements. Before a solve the
// retirement variable reads as zero, so this degrades to the specified
// capacity.
func capacityRule(m *model.Model, g string, p int) (float64, error) {
	pair := model.Pair{Entity: g, Index: p}
	capacity, err := m.MustParam(paramCapacityMW, pair)
	if err != nil {
		return 0, err
	}
	return capacity - m.Value(VarRetireMW, pair), nil
}

// capacityCostRule: fixed cost applies only to capacity that stays online.
func capacityCostRule(m *model.Model, g string, p int) (float64, error) {
	pair := model.Pair{Entity: g, Index: p}
	remaining, err := capacityRule(m, g, p)
	if err != nil {
		return 0, err
	}
	cost, err := m.MustParam(paramFixedCostPerMWYr, pair)
	if err != nil {
		return 0, err
	}
	return remaining * cost, nil
}

// newCapacityRule: retirement candidates never build new capacity.
func newCapacityRule(m *model.Model, g string, p int) (float64, error) {
	return 0, nil
}

func exportResults(ctx context.Context, b *catalog.BuildContext) ([]store.ResultRow, error) {
	s, _ := b.Model.Set(setOperationalPeriods)
	var rows []store.ResultRow
	for _, pair := range s.Pairs() {
		remaining, err := capacityRule(b.Model, pair.Entity, pair.Index)
		if err != nil {
			return nil, err
		}
		rows = append(rows,
			store.ResultRow{Component: "capacity_mw", Entity: pair.Entity, Index: pair.Index, Value: remaining},
			store.ResultRow{Component: "retired_mw", Entity: pair.Entity, Index: pair.Index, Value: b.Model.Value(VarRetireMW, pair)},
		)
	}
	return rows, nil
}

func importResults(ctx context.Context, b *catalog.BuildContext, rows []store.ResultRow) error {
	for _, r := range rows {
		pair := model.Pair{Entity: r.Entity, Index: r.Index}
		if r.Component == "retired_mw" {
			b.Model.SetValue(VarRetireMW, pair, r.Value)
			continue
		}
		b.Model.SetValue(r.Component, pair, r.Value)
	}
	return nil
}

func validate(ctx context.Context, b *catalog.BuildContext) ([]store.Finding, error) {
	name := string(catalog.Capacity) + "/" + TypeName
	var findings []store.Finding
	for _, row := range b.Scenario.ProjectsOfType(string(catalog.Capacity), TypeName) {
		capByPrd, _, err := scenario.AttrIndexedFloat(row.Attrs, attrCapacityMW)
		if err != nil || capByPrd == nil {
			findings = append(findings, store.Finding{
				Module:   name,
				Severity: store.SeverityHigh,
				Message:  fmt.Sprintf("project %q is missing a usable %q attribute", row.Name, attrCapacityMW),
			})
			continue
		}
		costByPrd, _, err := scenario.AttrIndexedFloat(row.Attrs, attrFixedCostPerMWYr)
		if err != nil {
			findings = append(findings, store.Finding{
				Module:   name,
				Severity: store.SeverityMid,
				Message:  fmt.Sprintf("project %q: %v", row.Name, err),
			})
		}
		// Retirement is only meaningful when staying online costs
		// something.
		allZero := true
		for _, c := range costByPrd {
			if c != 0 {
				allZero = false
				break
			}
		}
		if len(costByPrd) == 0 || allZero {
			findings = append(findings, store.Finding{
				Module:   name,
				Severity: store.SeverityLow,
				Message:  fmt.Sprintf("project %q declares retire-linear but has no fixed cost to avoid", row.Name),
			})
		}
	}
	return findings, nil
}
