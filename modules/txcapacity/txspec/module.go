// Package txspec implements the "specified" tx-capacity type: transmission
// lines whose directional capacity limits are fixed inputs per period.
package txspec

import (
	"context"
	"fmt"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/model"
	"github.com/vk/gridframe/internal/scenario"
	"github.com/vk/gridframe/internal/store"
)

// TypeName is the declared type this module governs.
const TypeName = "specified"

const (
	setOperationalPeriods = "tx_spec_operational_periods"
	paramMinMW            = "tx_spec_min_mw"
	paramMaxMW            = "tx_spec_max_mw"
	paramFixedCostPerYr   = "tx_spec_fixed_cost_per_yr"

	attrMinMW          = "min_mw"
	attrMaxMW          = "max_mw"
	attrFixedCostPerYr = "fixed_cost_per_yr"
)

// Module registers the specified tx-capacity type in the catalog.
type Module struct{}

func (Module) Register(c *catalog.Catalog) {
	c.Add(&catalog.ModuleSpec{
		Category: catalog.TxCapacity,
		TypeName: TypeName,
		Rules: map[string]model.Rule{
			catalog.OpTxMinCapacity:  minCapacityRule,
			catalog.OpTxMaxCapacity:  maxCapacityRule,
			catalog.OpTxCapacityCost: capacityCostRule,
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
	return b.Components.Register(catalog.AggTxCapacityOperationalPeriods, setOperationalPeriods, TypeName)
}

func loadData(ctx context.Context, b *catalog.BuildContext) error {
	s, _ := b.Model.Set(setOperationalPeriods)
	for _, row := range b.Scenario.TxLinesOfType(string(catalog.TxCapacity), TypeName) {
		maxByPrd, periods, err := scenario.AttrIndexedFloat(row.Attrs, attrMaxMW)
		if err != nil {
			return fmt.Errorf("tx_line %q: %w", row.Name, err)
		}
		if maxByPrd == nil {
			return fmt.Errorf("tx_line %q: required attribute %q is missing", row.Name, attrMaxMW)
		}
		minByPrd, _, err := scenario.AttrIndexedFloat(row.Attrs, attrMinMW)
		if err != nil {
			return fmt.Errorf("tx_line %q: %w", row.Name, err)
		}
		costByPrd, _, err := scenario.AttrIndexedFloat(row.Attrs, attrFixedCostPerYr)
		if err != nil {
			return fmt.Errorf("tx_line %q: %w", row.Name, err)
		}
		for _, prd := range periods {
			pair := model.Pair{Entity: row.Name, Index: prd}
			s.Add(pair)
			b.Model.SetParam(paramMaxMW, pair, maxByPrd[prd])
			// Absent min defaults to the negative of max: a
			// symmetric bidirectional line.
			if v, ok := minByPrd[prd]; ok {
				b.Model.SetParam(paramMinMW, pair, v)
			} else {
				b.Model.SetParam(paramMinMW, pair, -maxByPrd[prd])
			}
			b.Model.SetParam(paramFixedCostPerYr, pair, costByPrd[prd])
		}
	}
	return nil
}

func minCapacityRule(m *model.Model, tx string, p int) (float64, error) {
	return m.MustParam(paramMinMW, model.Pair{Entity: tx, Index: p})
}

func maxCapacityRule(m *model.Model, tx string, p int) (float64, error) {
	return m.MustParam(paramMaxMW, model.Pair{Entity: tx, Index: p})
}

// capacityCostRule: specified lines carry only their fixed cost, a constant
// in the objective.
func capacityCostRule(m *model.Model, tx string, p int) (float64, error) {
	cost, ok := m.Param(paramFixedCostPerYr, model.Pair{Entity: tx, Index: p})
	if !ok {
		return 0, nil
	}
	return cost, nil
}

func exportResults(ctx context.Context, b *catalog.BuildContext) ([]store.ResultRow, error) {
	s, _ := b.Model.Set(setOperationalPeriods)
	var rows []store.ResultRow
	for _, pair := range s.Pairs() {
		maxMW, err := maxCapacityRule(b.Model, pair.Entity, pair.Index)
		if err != nil {
			return nil, err
		}
		minMW, err := minCapacityRule(b.Model, pair.Entity, pair.Index)
		if err != nil {
			return nil, err
		}
		rows = append(rows,
			store.ResultRow{Component: "max_mw", Entity: pair.Entity, Index: pair.Index, Value: maxMW},
			store.ResultRow{Component: "min_mw", Entity: pair.Entity, Index: pair.Index, Value: minMW},
		)
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
	name := string(catalog.TxCapacity) + "/" + TypeName
	var findings []store.Finding
	for _, row := range b.Scenario.TxLinesOfType(string(catalog.TxCapacity), TypeName) {
		maxByPrd, _, err := scenario.AttrIndexedFloat(row.Attrs, attrMaxMW)
		if err != nil || maxByPrd == nil {
			findings = append(findings, store.Finding{
				Module:   name,
				Severity: store.SeverityHigh,
				Message:  fmt.Sprintf("tx_line %q is missing a usable %q attribute", row.Name, attrMaxMW),
			})
			continue
		}
		minByPrd, _, _ := scenario.AttrIndexedFloat(row.Attrs, attrMinMW)
		for prd, maxMW := range maxByPrd {
			if minMW, ok := minByPrd[prd]; ok && minMW > maxMW {
				findings = append(findings, store.Finding{
					Module:   name,
					Severity: store.SeverityHigh,
					Message:  fmt.Sprintf("tx_line %q: min %.4f exceeds max %.4f in period %d", row.Name, minMW, maxMW, prd),
				})
			}
		}
	}
	return findings, nil
}
