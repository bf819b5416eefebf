package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/components"
	"github.com/vk/gridframe/internal/ctxlog"
	"github.com/vk/gridframe/internal/dispatch"
	"github.com/vk/gridframe/internal/lifecycle"
	"github.com/vk/gridframe/internal/model"
	"github.com/vk/gridframe/internal/registry"
	"github.com/vk/gridframe/internal/scenario"
	"github.com/vk/gridframe/internal/store"
)

// SystemModuleName is the module name the build driver's own cross-type cost
// rollup is committed under in the results store.
const SystemModuleName = "system/costs"

// BuildResult is the outcome of one scenario build.
type BuildResult struct {
	BuildID  string
	Key      store.ScenarioKey
	Reports  []*lifecycle.Report
	Findings []store.Finding
}

// Failed reports whether any recoverable phase had module failures.
func (r *BuildResult) Failed() bool {
	for _, rep := range r.Reports {
		if rep.Failed() {
			return true
		}
	}
	return false
}

// Run executes one full scenario build: load inputs, resolve and run the type
// modules through the lifecycle, solve, and commit results and findings.
//
// Register and load-data failures abort the build with an error. Export,
// import, and validate failures are collected into the returned reports so
// one broken module never hides its siblings' results.
func (a *App) Run(ctx context.Context) (*BuildResult, error) {
	buildID := uuid.NewString()
	logger := a.logger.With("build_id", buildID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Scenario build started.", "path", a.config.ScenarioPath)

	sc, err := scenario.Load(ctx, a.config.ScenarioPath)
	if err != nil {
		return nil, err
	}
	key := store.ScenarioKey{Scenario: sc.Name, Subproblem: sc.Subproblem, Stage: sc.Stage}
	result := &BuildResult{BuildID: buildID, Key: key}

	m, err := buildModel(sc)
	if err != nil {
		return nil, err
	}

	loaded, specs, err := loadRequiredModules(ctx, a.catalog, sc)
	if err != nil {
		return nil, err
	}

	b := &catalog.BuildContext{
		Key:        key,
		Model:      m,
		Components: components.New(),
		Scenario:   sc,
	}
	orch := lifecycle.New(b, specs, a.results, a.validations)

	if err := orch.Register(ctx); err != nil {
		return nil, err
	}

	// Validation reads scenario input only, so a validate-only build skips
	// load and solve entirely: defective inputs must surface as findings,
	// not as a fatal load error.
	if a.config.ValidateOnly {
		report, findings := orch.Validate(ctx)
		result.Reports = append(result.Reports, report)
		result.Findings = findings
		logger.Info("Validate-only build finished.", "findings", len(findings))
		return result, nil
	}

	if err := orch.LoadData(ctx); err != nil {
		return nil, err
	}
	if err := joinCanonicalSets(b); err != nil {
		return nil, err
	}

	if err := a.solver.Solve(ctx, m); err != nil {
		return nil, fmt.Errorf("solve failed: %w", err)
	}

	d := dispatch.New(m, loaded)

	exportReport := orch.ExportResults(ctx)
	result.Reports = append(result.Reports, exportReport)
	if exportReport.Failed() {
		logger.Warn(exportReport.Summary())
	}
	if err := a.exportSystemCosts(ctx, b, d); err != nil {
		exportReport.Failures = append(exportReport.Failures, lifecycle.Failure{Module: SystemModuleName, Err: err})
		logger.Error("System cost rollup failed.", "error", err)
	}

	importReport := orch.ImportResults(ctx)
	result.Reports = append(result.Reports, importReport)
	if importReport.Failed() {
		logger.Warn(importReport.Summary())
	}

	validateReport, findings := orch.Validate(ctx)
	result.Reports = append(result.Reports, validateReport)
	result.Findings = findings
	if validateReport.Failed() {
		logger.Warn(validateReport.Summary())
	}

	logger.Info("Scenario build finished.",
		"scenario", sc.Name,
		"subproblem", sc.Subproblem,
		"stage", sc.Stage,
		"failed", result.Failed(),
	)
	return result, nil
}

// buildModel translates loaded scenario rows into the shared model surface the
// type modules populate.
func buildModel(sc *scenario.Scenario) (*model.Model, error) {
	m := model.New()
	m.SetPeriods(sc.Periods)
	m.SetTimepoints(sc.Timepoints)

	projectCategories := []catalog.Category{catalog.Capacity, catalog.Operational, catalog.Reliability, catalog.Reserve}
	for _, row := range sc.Projects {
		types := make(map[string]string)
		for _, cat := range projectCategories {
			if t := row.DeclaredType(string(cat)); t != "" {
				types[string(cat)] = t
			}
		}
		if err := m.AddProject(&model.Project{
			Name:      row.Name,
			LoadZone:  row.LoadZone,
			Types:     types,
			CostGroup: row.CostGroup,
		}); err != nil {
			return nil, err
		}
	}

	txCategories := []catalog.Category{catalog.TxCapacity, catalog.TxOperational}
	for _, row := range sc.TxLines {
		types := make(map[string]string)
		for _, cat := range txCategories {
			if t := row.DeclaredType(string(cat)); t != "" {
				types[string(cat)] = t
			}
		}
		if err := m.AddTxLine(&model.TxLine{
			Name:     row.Name,
			FromZone: row.FromZone,
			ToZone:   row.ToZone,
			Types:    types,
		}); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// loadRequiredModules resolves each category's required types against the
// catalog and flattens the result into one invocation-ordered spec list.
func loadRequiredModules(ctx context.Context, cat *catalog.Catalog, sc *scenario.Scenario) (map[catalog.Category]*registry.LoadedModules, []*catalog.ModuleSpec, error) {
	loaded := make(map[catalog.Category]*registry.LoadedModules)
	var specs []*catalog.ModuleSpec
	for _, category := range catalog.Categories() {
		required := sc.RequiredTypes(string(category))
		if len(required) == 0 {
			continue
		}
		lm, err := registry.Load(ctx, cat, category, required)
		if err != nil {
			return nil, nil, err
		}
		loaded[category] = lm
		specs = append(specs, lm.Specs()...)
	}
	return loaded, specs, nil
}

// joinCanonicalSets unions each aggregation key's contributions into the
// canonical set generic components iterate.
func joinCanonicalSets(b *catalog.BuildContext) error {
	for _, aggKey := range catalog.AggregationKeys() {
		name, ok := catalog.CanonicalSetFor(aggKey)
		if !ok {
			return fmt.Errorf("aggregation key %q has no canonical set name", aggKey)
		}
		if _, err := b.Components.Join(b.Model, aggKey, name); err != nil {
			return err
		}
	}
	return nil
}

// exportSystemCosts is the type-agnostic cost rollup: it walks the canonical
// sets and routes every entity through the dispatcher, with no per-type
// conditionals, then commits the rows under the system module name.
func (a *App) exportSystemCosts(ctx context.Context, b *catalog.BuildContext, d *dispatch.Dispatcher) error {
	var rows []store.ResultRow

	appendSetRows := func(setName, component string, cat catalog.Category, op string) error {
		s, ok := b.Model.Set(setName)
		if !ok {
			return nil
		}
		for _, pair := range s.Pairs() {
			v, err := d.Rule(cat, pair.Entity, op, pair.Index)
			if err != nil {
				return fmt.Errorf("%s for %s: %w", component, pair, err)
			}
			rows = append(rows, store.ResultRow{Component: component, Entity: pair.Entity, Index: pair.Index, Value: v})
		}
		return nil
	}

	if err := appendSetRows(catalog.SetProjectOperationalPeriods, "capacity_cost", catalog.Capacity, catalog.OpCapacityCost); err != nil {
		return err
	}
	if err := appendSetRows(catalog.SetProjectOperationalTimepoints, "variable_om_cost", catalog.Operational, catalog.OpVariableOMCost); err != nil {
		return err
	}
	if err := appendSetRows(catalog.SetProjectOperationalTimepoints, "startup_cost", catalog.Operational, catalog.OpStartupCost); err != nil {
		return err
	}
	if err := appendSetRows(catalog.SetProjectOperationalTimepoints, "shutdown_cost", catalog.Operational, catalog.OpShutdownCost); err != nil {
		return err
	}
	if err := appendSetRows(catalog.SetTxOperationalPeriods, "tx_capacity_cost", catalog.TxCapacity, catalog.OpTxCapacityCost); err != nil {
		return err
	}

	// Group costs dispatch on the group's declared type rather than on an
	// entity.
	for _, group := range b.Components.Groups() {
		typeName, _ := b.Components.GroupType(group)
		for _, prd := range b.Model.Periods() {
			v, err := d.RuleForType(catalog.Reliability, typeName, catalog.OpGroupCost, group, prd)
			if err != nil {
				return fmt.Errorf("group_cost for group %q period %d: %w", group, prd, err)
			}
			rows = append(rows, store.ResultRow{Component: "group_cost", Entity: group, Index: prd, Value: v})
		}
	}

	if err := a.results.ReplaceResults(ctx, b.Key, SystemModuleName, rows); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("System cost rollup committed.", "rows", len(rows))
	return nil
}
