// Package lfdown implements the "lf-reserves-down" reserve type: projects that
// can hold back output to provide downward load-following reserves.
package lfdown

import (
	"context"
	"fmt"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/model"
	"github.com/vk/gridframe/internal/scenario"
	"github.com/vk/gridframe/internal/store"
)

// TypeName is the declared type this module governs.
const TypeName = "lf-reserves-down"

// VarProvideMW is the reserve-provision decision variable an external solve
// fills in.
const VarProvideMW = "provide_lf_reserves_down_mw"

const (
	setReserveTimepoints = "lf_reserves_down_timepoints"
	paramMaxReserveMW    = "lf_reserves_down_max_mw"

	attrMaxReserveMW = "max_reserve_mw"
)

// Module registers the lf-reserves-down reserve type in the catalog.
type Module struct{}

func (Module) Register(c *catalog.Catalog) {
	c.Add(&catalog.ModuleSpec{
		Category: catalog.Reserve,
		TypeName: TypeName,
		Rules: map[string]model.Rule{
			catalog.OpReserveProvided: reserveProvisionRule,
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
	if _, err := b.Model.NewSet(setReserveTimepoints); err != nil {
		return err
	}
	return b.Components.Register(catalog.AggReserveTimepoints, setReserveTimepoints, TypeName)
}

func loadData(ctx context.Context, b *catalog.BuildContext) error {
	s, _ := b.Model.Set(setReserveTimepoints)
	for _, row := range b.Scenario.ProjectsOfType(string(catalog.Reserve), TypeName) {
		maxMW, ok, err := scenario.AttrFloat(row.Attrs, attrMaxReserveMW)
		if err != nil {
			return fmt.Errorf("project %q: %w", row.Name, err)
		}
		if ok {
			b.Model.SetEntityParam(paramMaxReserveMW, row.Name, maxMW)
		}
		for _, tmp := range b.Scenario.Timepoints {
			s.Add(model.Pair{Entity: row.Name, Index: tmp})
		}
	}
	return nil
}

// reserveProvisionRule: the provision variable as last solved, zero before any
// solve.
func reserveProvisionRule(m *model.Model, g string, tmp int) (float64, error) {
	return m.Value(VarProvideMW, model.Pair{Entity: g, Index: tmp}), nil
}

func exportResults(ctx context.Context, b *catalog.BuildContext) ([]store.ResultRow, error) {
	s, _ := b.Model.Set(setReserveTimepoints)
	var rows []store.ResultRow
	for _, pair := range s.Pairs() {
		provided, err := reserveProvisionRule(b.Model, pair.Entity, pair.Index)
		if err != nil {
			return nil, err
		}
		rows = append(rows, store.ResultRow{
			Component: "reserve_provision_mw",
			Entity:    pair.Entity,
			Index:     pair.Index,
			Value:     provided,
		})
	}
	return rows, nil
}

func importResults(ctx context.Context, b *catalog.BuildContext, rows []store.ResultRow) error {
	for _, r := range rows {
		pair := model.Pair{Entity: r.Entity, Index: r.Index}
		if r.Component == "reserve_provision_mw" {
			b.Model.SetValue(VarProvideMW, pair, r.Value)
			continue
		}
		b.Model.SetValue(r.Component, pair, r.Value)
	}
	return nil
}

func validate(ctx context.Context, b *catalog.BuildContext) ([]store.Finding, error) {
	name := string(catalog.Reserve) + "/" + TypeName
	var findings []store.Finding
	for _, row := range b.Scenario.ProjectsOfType(string(catalog.Reserve), TypeName) {
		maxMW, ok, err := scenario.AttrFloat(row.Attrs, attrMaxReserveMW)
		if err != nil {
			findings = append(findings, store.Finding{
				Module:   name,
				Severity: store.SeverityMid,
				Message:  fmt.Sprintf("project %q: %v", row.Name, err),
			})
			continue
		}
		if ok && maxMW < 0 {
			findings = append(findings, store.Finding{
				Module:   name,
				Severity: store.SeverityHigh,
				Message:  fmt.Sprintf("project %q: negative reserve limit %.4f", row.Name, maxMW),
			})
		}
	}
	return findings, nil
}
