package catalog

import (
	"context"

	"github.com/vk/gridframe/internal/components"
	"github.com/vk/gridframe/internal/model"
	"github.com/vk/gridframe/internal/scenario"
	"github.com/vk/gridframe/internal/store"
)

// BuildContext is everything a module's lifecycle hooks may touch during one
// scenario build. Each build gets its own instance; nothing here is shared
// across concurrent builds.
type BuildContext struct {
	Key        store.ScenarioKey
	Model      *model.Model
	Components *components.Registry
	Scenario   *scenario.Scenario
}

// Hooks are the optional lifecycle phase entry points of a type module. A nil
// hook is a valid no-op for that phase.
type Hooks struct {
	// Register declares the module's sets and parameters on the shared
	// model and posts its contributions to the dynamic component registry.
	Register func(ctx context.Context, b *BuildContext) error

	// LoadData reads scenario input scoped to the module's own entities.
	// It runs only after every module's Register hook has completed.
	LoadData func(ctx context.Context, b *BuildContext) error

	// ExportResults produces the module's result rows after an external
	// solve. The orchestrator owns the write to the results sink.
	ExportResults func(ctx context.Context, b *BuildContext) ([]store.ResultRow, error)

	// ImportResults applies previously exported rows back onto the model.
	ImportResults func(ctx context.Context, b *BuildContext, rows []store.ResultRow) error

	// Validate checks the module's own input data and reports findings.
	// It never depends on solve state.
	Validate func(ctx context.Context, b *BuildContext) ([]store.Finding, error)
}

// ModuleSpec is one type module as registered in the catalog: its identity,
// the rule operations it provides, and its lifecycle hooks.
type ModuleSpec struct {
	Category Category
	TypeName string
	Rules    map[string]model.Rule
	Hooks    Hooks
}

// ModuleName returns the qualified name findings and results are attributed
// to, e.g. "capacity/spec".
func (s *ModuleSpec) ModuleName() string {
	return string(s.Category) + "/" + s.TypeName
}
