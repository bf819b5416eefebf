package lifecycle

import (
	"context"
	"fmt"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/ctxlog"
	"github.com/vk/gridframe/internal/store"
)

// Phase names the ordered stages of a scenario build.
type Phase string

const (
	PhaseRegister      Phase = "register"
	PhaseLoadData      Phase = "load_data"
	PhaseExportResults Phase = "export_results"
	PhaseImportResults Phase = "import_results"
	PhaseValidate      Phase = "validate"
)

// Failure attributes one module's phase error.
type Failure struct {
	Module string
	Err    error
}

// Report aggregates the outcome of a recoverable phase across all modules.
type Report struct {
	Phase    Phase
	Total    int
	Failures []Failure
	// Flagged lists configuration defects that are worth surfacing but do
	// not fail the phase, e.g. a module with entities in the canonical
	// sets but no export hook.
	Flagged []string
}

// Failed reports whether any module failed the phase.
func (r *Report) Failed() bool { return len(r.Failures) > 0 }

// Summary renders the operator-facing one-liner for the phase outcome.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s: %d of %d modules failed", r.Phase, len(r.Failures), r.Total)
}

// Orchestrator walks one build's loaded type modules through the lifecycle
// phases in a deterministic order (the order the required type names were
// supplied, category by category).
//
// Register and load-data failures abort the build: without them there is no
// usable model. Export, import, and validate failures are collected per
// module so one broken module never hides problems in its siblings.
type Orchestrator struct {
	build       *catalog.BuildContext
	modules     []*catalog.ModuleSpec
	results     store.ResultsStore
	validations store.ValidationStore
}

// New assembles an orchestrator for one build.
func New(b *catalog.BuildContext, modules []*catalog.ModuleSpec, results store.ResultsStore, validations store.ValidationStore) *Orchestrator {
	return &Orchestrator{build: b, modules: modules, results: results, validations: validations}
}

// Modules returns the modules in invocation order.
func (o *Orchestrator) Modules() []*catalog.ModuleSpec { return o.modules }

// Register invokes every module's registration hook exactly once, then seals
// the dynamic component registry so joins become legal. Any failure is fatal
// to the build.
func (o *Orchestrator) Register(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for _, spec := range o.modules {
		if spec.Hooks.Register == nil {
			continue
		}
		logger.Debug("Running register hook.", "module", spec.ModuleName())
		if err := spec.Hooks.Register(ctx, o.build); err != nil {
			return fmt.Errorf("register phase: module %q: %w", spec.ModuleName(), err)
		}
	}
	o.build.Components.Seal()
	logger.Debug("Register phase complete; component registry sealed.", "modules", len(o.modules))
	return nil
}

// LoadData invokes every module's load-data hook. It must only run after
// Register completed for all modules, which Seal enforces structurally: a
// load-data hook that tries to register anything fails. Any failure is fatal.
func (o *Orchestrator) LoadData(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if !o.build.Components.Sealed() {
		return fmt.Errorf("load_data phase started before register phase completed")
	}
	for _, spec := range o.modules {
		if spec.Hooks.LoadData == nil {
			continue
		}
		logger.Debug("Running load-data hook.", "module", spec.ModuleName())
		if err := spec.Hooks.LoadData(ctx, o.build); err != nil {
			return fmt.Errorf("load_data phase: module %q: %w", spec.ModuleName(), err)
		}
	}
	return nil
}

// ExportResults collects each module's result rows and replaces that module's
// slice in the results sink. Per-module failures are collected; a module with
// entities present but no export hook is flagged as a configuration defect
// without failing the phase, since partial result sets beat aborting the
// whole scenario.
func (o *Orchestrator) ExportResults(ctx context.Context) *Report {
	logger := ctxlog.FromContext(ctx)
	report := &Report{Phase: PhaseExportResults, Total: len(o.modules)}

	for _, spec := range o.modules {
		name := spec.ModuleName()
		if spec.Hooks.ExportResults == nil {
			if o.moduleHasEntities(spec) {
				msg := fmt.Sprintf("module %q has entities in this scenario but implements no export hook; its results will be missing", name)
				logger.Warn("Export defect.", "module", name)
				report.Flagged = append(report.Flagged, msg)
			}
			continue
		}
		rows, err := spec.Hooks.ExportResults(ctx, o.build)
		if err != nil {
			logger.Error("Export hook failed.", "module", name, "error", err)
			report.Failures = append(report.Failures, Failure{Module: name, Err: err})
			continue
		}
		if err := o.results.ReplaceResults(ctx, o.build.Key, name, rows); err != nil {
			logger.Error("Result write failed.", "module", name, "error", err)
			report.Failures = append(report.Failures, Failure{Module: name, Err: err})
			continue
		}
		logger.Debug("Module results exported.", "module", name, "rows", len(rows))
	}
	return report
}

// ImportResults hands each module the rows last committed under its name so
// it can apply them back onto the model. Per-module failures are collected.
func (o *Orchestrator) ImportResults(ctx context.Context) *Report {
	logger := ctxlog.FromContext(ctx)
	report := &Report{Phase: PhaseImportResults, Total: len(o.modules)}

	for _, spec := range o.modules {
		if spec.Hooks.ImportResults == nil {
			continue
		}
		name := spec.ModuleName()
		rows, err := o.results.Results(ctx, o.build.Key, name)
		if err != nil {
			report.Failures = append(report.Failures, Failure{Module: name, Err: err})
			continue
		}
		if err := spec.Hooks.ImportResults(ctx, o.build, rows); err != nil {
			logger.Error("Import hook failed.", "module", name, "error", err)
			report.Failures = append(report.Failures, Failure{Module: name, Err: err})
			continue
		}
		logger.Debug("Module results imported.", "module", name, "rows", len(rows))
	}
	return report
}

// Validate runs every module's validation hook against input data alone and
// writes the aggregated findings to the validation sink in one pass, so one
// module's bad input never hides another's.
func (o *Orchestrator) Validate(ctx context.Context) (*Report, []store.Finding) {
	logger := ctxlog.FromContext(ctx)
	report := &Report{Phase: PhaseValidate, Total: len(o.modules)}

	var all []store.Finding
	for _, spec := range o.modules {
		if spec.Hooks.Validate == nil {
			continue
		}
		name := spec.ModuleName()
		findings, err := spec.Hooks.Validate(ctx, o.build)
		if err != nil {
			logger.Error("Validate hook failed.", "module", name, "error", err)
			report.Failures = append(report.Failures, Failure{Module: name, Err: err})
			continue
		}
		all = append(all, findings...)
	}

	if len(all) > 0 {
		if err := o.validations.WriteFindings(ctx, o.build.Key, all); err != nil {
			report.Failures = append(report.Failures, Failure{Module: "validation-sink", Err: err})
		}
	}
	logger.Info("Validation complete.", "findings", len(all), "failed_modules", len(report.Failures))
	return report, all
}

// moduleHasEntities reports whether any scenario entity declared this
// module's type. A linear scan is fine here; the entity counts are small and
// this only runs when a hook is absent.
func (o *Orchestrator) moduleHasEntities(spec *catalog.ModuleSpec) bool {
	cat := string(spec.Category)
	if len(o.build.Scenario.ProjectsOfType(cat, spec.TypeName)) > 0 {
		return true
	}
	return len(o.build.Scenario.TxLinesOfType(cat, spec.TypeName)) > 0
}
