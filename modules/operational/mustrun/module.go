// Package mustrun implements the "must-run" operational type: projects that
// run flat out at a fixed output in every timepoint and never cycle.
package mustrun

import (
	"context"
	"fmt"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/model"
	"github.com/vk/gridframe/internal/scenario"
	"github.com/vk/gridframe/internal/store"
)

// TypeName is the declared type this module governs.
const TypeName = "must-run"

const (
	setOperationalTimepoints = "gen_must_run_operational_timepoints"
	paramPowerMW             = "gen_must_run_power_mw"
	paramVariableOMPerMWh    = "gen_must_run_variable_om_cost_per_mwh"

	attrPowerMW          = "power_mw"
	attrVariableOMPerMWh = "variable_om_cost_per_mwh"
)

// Module registers the must-run operational type in the catalog.
type Module struct{}

func (Module) Register(c *catalog.Catalog) {
	c.Add(&catalog.ModuleSpec{
		Category: catalog.Operational,
		TypeName: TypeName,
		Rules: map[string]model.Rule{
			catalog.OpPowerProvision: powerProvisionRule,
			catalog.OpVariableOMCost: variableOMCostRule,
			catalog.OpStartupCost:    zeroRule,
			catalog.OpShutdownCost:   zeroRule,
			catalog.OpStartupFuel:    zeroRule,
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
	if _, err := b.Model.NewSet(setOperationalTimepoints); err != nil {
		return err
	}
	return b.Components.Register(catalog.AggOperationalTimepoints, setOperationalTimepoints, TypeName)
}

func loadData(ctx context.Context, b *catalog.BuildContext) error {
	s, _ := b.Model.Set(setOperationalTimepoints)
	for _, row := range b.Scenario.ProjectsOfType(string(catalog.Operational), TypeName) {
		power, ok, err := scenario.AttrFloat(row.Attrs, attrPowerMW)
		if err != nil {
			return fmt.Errorf("project %q: %w", row.Name, err)
		}
		if !ok {
			return fmt.Errorf("project %q: required attribute %q is missing", row.Name, attrPowerMW)
		}
		vom, _, err := scenario.AttrFloat(row.Attrs, attrVariableOMPerMWh)
		if err != nil {
			return fmt.Errorf("project %q: %w", row.Name, err)
		}
		b.Model.SetEntityParam(paramPowerMW, row.Name, power)
		b.Model.SetEntityParam(paramVariableOMPerMWh, row.Name, vom)
		for _, tmp := range b.Scenario.Timepoints {
			s.Add(model.Pair{Entity: row.Name, Index: tmp})
		}
	}
	return nil
}

// powerProvisionRule: must-run output is the same fixed number in every
// timepoint.
func powerProvisionRule(m *model.Model, g string, tmp int) (float64, error) {
	power, ok := m.EntityParam(paramPowerMW, g)
	if !ok {
		return 0, fmt.Errorf("project %q has no must-run power level loaded", g)
	}
	return power, nil
}

func variableOMCostRule(m *model.Model, g string, tmp int) (float64, error) {
	power, err := powerProvisionRule(m, g, tmp)
	if err != nil {
		return 0, err
	}
	vom, _ := m.EntityParam(paramVariableOMPerMWh, g)
	return power * vom, nil
}

// zeroRule covers the cycling-cost operations: must-run projects never start
// or stop.
func zeroRule(m *model.Model, g string, tmp int) (float64, error) {
	return 0, nil
}

func exportResults(ctx context.Context, b *catalog.BuildContext) ([]store.ResultRow, error) {
	s, _ := b.Model.Set(setOperationalTimepoints)
	var rows []store.ResultRow
	for _, pair := range s.Pairs() {
		power, err := powerProvisionRule(b.Model, pair.Entity, pair.Index)
		if err != nil {
			return nil, err
		}
		rows = append(rows, store.ResultRow{
			Component: "power_mw",
			Entity:    pair.Entity,
			Index:     pair.Index,
			Value:     power,
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
	name := string(catalog.Operational) + "/" + TypeName
	var findings []store.Finding
	for _, row := range b.Scenario.ProjectsOfType(string(catalog.Operational), TypeName) {
		power, ok, err := scenario.AttrFloat(row.Attrs, attrPowerMW)
		if err != nil || !ok {
			findings = append(findings, store.Finding{
				Module:   name,
				Severity: store.SeverityHigh,
				Message:  fmt.Sprintf("project %q is missing a usable %q attribute", row.Name, attrPowerMW),
			})
			continue
		}
		if power < 0 {
			findings = append(findings, store.Finding{
				Module:   name,
				Severity: store.SeverityHigh,
				Message:  fmt.Sprintf("project %q: negative must-run power %.4f", row.Name, power),
			})
		}
	}
	return findings, nil
}
