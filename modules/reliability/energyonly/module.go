// Package energyonly implements the "energy-only-allowed" reliability type:
// projects that may count toward the planning reserve margin only up to their
// ELCC-eligible capacity, with deliverability costs accounted per cost group.
package energyonly

import (
	"context"
	"fmt"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/model"
	"github.com/vk/gridframe/internal/scenario"
	"github.com/vk/gridframe/internal/store"
)

// TypeName is the declared type this module governs.
const TypeName = "energy-only-allowed"

const (
	setPRMPeriods            = "energy_only_allowed_prm_periods"
	paramELCCEligibleMW      = "energy_only_elcc_eligible_capacity_mw"
	paramELCCFraction        = "energy_only_elcc_fraction"
	paramDeliverabilityCosts = "energy_only_deliverability_cost_per_yr"

	attrELCCEligibleMW      = "elcc_eligible_capacity_mw"
	attrELCCFraction        = "elcc_fraction"
	attrDeliverabilityCosts = "deliverability_cost_per_yr"
)

// Module registers the energy-only-allowed reliability type in the catalog.
type Module struct{}

func (Module) Register(c *catalog.Catalog) {
	c.Add(&catalog.ModuleSpec{
		Category: catalog.Reliability,
		TypeName: TypeName,
		Rules: map[string]model.Rule{
			catalog.OpPRMContribution: prmContributionRule,
			catalog.OpGroupCost:       groupCostRule,
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
	if _, err := b.Model.NewSet(setPRMPeriods); err != nil {
		return err
	}
	if err := b.Components.Register(catalog.AggPRMProjectPeriods, setPRMPeriods, TypeName); err != nil {
		return err
	}
	// Cost groups are cross-cutting; the group's type is declared here so
	// generic group-cost components can dispatch on it.
	for _, row := range b.Scenario.ProjectsOfType(string(catalog.Reliability), TypeName) {
		if row.CostGroup == "" {
			continue
		}
		if err := b.Components.RegisterGroup(row.CostGroup, TypeName); err != nil {
			return err
		}
	}
	return nil
}

func loadData(ctx context.Context, b *catalog.BuildContext) error {
	s, _ := b.Model.Set(setPRMPeriods)
	for _, row := range b.Scenario.ProjectsOfType(string(catalog.Reliability), TypeName) {
		elcc, periods, err := scenario.AttrIndexedFloat(row.Attrs, attrELCCEligibleMW)
		if err != nil {
			return fmt.Errorf("project %q: %w", row.Name, err)
		}
		if elcc == nil {
			return fmt.Errorf("project %q: required attribute %q is missing", row.Name, attrELCCEligibleMW)
		}
		frac, ok, err := scenario.AttrFloat(row.Attrs, attrELCCFraction)
		if err != nil {
			return fmt.Errorf("project %q: %w", row.Name, err)
		}
		if !ok {
			frac = 1
		}
		delivCost, _, err := scenario.AttrIndexedFloat(row.Attrs, attrDeliverabilityCosts)
		if err != nil {
			return fmt.Errorf("project %q: %w", row.Name, err)
		}
		b.Model.SetEntityParam(paramELCCFraction, row.Name, frac)
		for _, prd := range periods {
			pair := model.Pair{Entity: row.Name, Index: prd}
			s.Add(pair)
			b.Model.SetParam(paramELCCEligibleMW, pair, elcc[prd])
			b.Model.SetParam(paramDeliverabilityCosts, pair, delivCost[prd])
		}
	}
	return nil
}

// prmContributionRule: ELCC-eligible capacity derated by the ELCC fraction.
func prmContributionRule(m *model.Model, g string, p int) (float64, error) {
	pair := model.Pair{Entity: g, Index: p}
	elcc, err := m.MustParam(paramELCCEligibleMW, pair)
	if err != nil {
		return 0, err
	}
	frac, ok := m.EntityParam(paramELCCFraction, g)
	if !ok {
		frac = 1
	}
	return elcc * frac, nil
}

// groupCostRule: the group's deliverability cost is the sum over its member
// projects of this type. The entity argument is the group key, not a project.
func groupCostRule(m *model.Model, group string, p int) (float64, error) {
	var total float64
	for _, prj := range m.Projects() {
		if prj.CostGroup != group || prj.Types[string(catalog.Reliability)] != TypeName {
			continue
		}
		cost, ok := m.Param(paramDeliverabilityCosts, model.Pair{Entity: prj.Name, Index: p})
		if !ok {
			continue
		}
		total += cost
	}
	return total, nil
}

func exportResults(ctx context.Context, b *catalog.BuildContext) ([]store.ResultRow, error) {
	s, _ := b.Model.Set(setPRMPeriods)
	var rows []store.ResultRow
	for _, pair := range s.Pairs() {
		contribution, err := prmContributionRule(b.Model, pair.Entity, pair.Index)
		if err != nil {
			return nil, err
		}
		rows = append(rows, store.ResultRow{
			Component: "prm_contribution_mw",
			Entity:    pair.Entity,
			Index:     pair.Index,
			Value:     contribution,
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
	name := string(catalog.Reliability) + "/" + TypeName
	var findings []store.Finding
	for _, row := range b.Scenario.ProjectsOfType(string(catalog.Reliability), TypeName) {
		frac, ok, err := scenario.AttrFloat(row.Attrs, attrELCCFraction)
		if err != nil {
			findings = append(findings, store.Finding{
				Module:   name,
				Severity: store.SeverityMid,
				Message:  fmt.Sprintf("project %q: %v", row.Name, err),
			})
			continue
		}
		if ok && (frac < 0 || frac > 1) {
			findings = append(findings, store.Finding{
				Module:   name,
				Severity: store.SeverityMid,
				Message:  fmt.Sprintf("project %q: ELCC fraction %.4f is outside [0, 1]", row.Name, frac),
			})
		}
	}
	return findings, nil
}
