// Package txsimple implements the "simple" tx-operational type: transmission
// lines whose hourly flow is a free decision variable bounded elsewhere by the
// line's capacity limits.
package txsimple

import (
	"context"
	"fmt"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/model"
	"github.com/vk/gridframe/internal/store"
)

// TypeName is the declared type this module governs.
const TypeName = "simple"

// VarTransmitPowerMW is the flow decision variable an external solve fills in.
const VarTransmitPowerMW = "tx_simple_transmit_power_mw"

const setOperationalTimepoints = "tx_simple_operational_timepoints"

// Module registers the simple tx-operational type in the catalog.
type Module struct{}

func (Module) Register(c *catalog.Catalog) {
	c.Add(&catalog.ModuleSpec{
		Category: catalog.TxOperational,
		TypeName: TypeName,
		Rules: map[string]model.Rule{
			catalog.OpTransmitPower: transmitPowerRule,
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
	return b.Components.Register(catalog.AggTxOperationalTimepoints, setOperationalTimepoints, TypeName)
}

// loadData has no per-line parameters: simple lines operate in every timepoint
// of the scenario.
func loadData(ctx context.Context, b *catalog.BuildContext) error {
	s, _ := b.Model.Set(setOperationalTimepoints)
	for _, row := range b.Scenario.TxLinesOfType(string(catalog.TxOperational), TypeName) {
		for _, tmp := range b.Scenario.Timepoints {
			s.Add(model.Pair{Entity: row.Name, Index: tmp})
		}
	}
	return nil
}

// transmitPowerRule: the flow variable as last solved, zero before any solve.
func transmitPowerRule(m *model.Model, tx string, tmp int) (float64, error) {
	return m.Value(VarTransmitPowerMW, model.Pair{Entity: tx, Index: tmp}), nil
}

func exportResults(ctx context.Context, b *catalog.BuildContext) ([]store.ResultRow, error) {
	s, _ := b.Model.Set(setOperationalTimepoints)
	var rows []store.ResultRow
	for _, pair := range s.Pairs() {
		flow, err := transmitPowerRule(b.Model, pair.Entity, pair.Index)
		if err != nil {
			return nil, err
		}
		rows = append(rows, store.ResultRow{
			Component: "transmit_power_mw",
			Entity:    pair.Entity,
			Index:     pair.Index,
			Value:     flow,
		})
	}
	return rows, nil
}

func importResults(ctx context.Context, b *catalog.BuildContext, rows []store.ResultRow) error {
	for _, r := range rows {
		pair := model.Pair{Entity: r.Entity, Index: r.Index}
		if r.Component == "transmit_power_mw" {
			b.Model.SetValue(VarTransmitPowerMW, pair, r.Value)
			continue
		}
		b.Model.SetValue(r.Component, pair, r.Value)
	}
	return nil
}

func validate(ctx context.Context, b *catalog.BuildContext) ([]store.Finding, error) {
	name := string(catalog.TxOperational) + "/" + TypeName
	var findings []store.Finding
	if len(b.Scenario.Timepoints) == 0 {
		for _, row := range b.Scenario.TxLinesOfType(string(catalog.TxOperational), TypeName) {
			findings = append(findings, store.Finding{
				Module:   name,
				Severity: store.SeverityMid,
				Message:  fmt.Sprintf("tx_line %q declares simple operations but the scenario has no timepoints", row.Name),
			})
		}
	}
	return findings, nil
}
