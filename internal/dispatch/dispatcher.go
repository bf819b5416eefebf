package dispatch

import (
	"fmt"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/model"
	"github.com/vk/gridframe/internal/registry"
)

// Dispatcher routes rule evaluation to the module matching an entity's
// declared type. It is the indirection that lets category-generic components
// iterate over canonical sets with no per-type conditionals.
type Dispatcher struct {
	m      *model.Model
	loaded map[catalog.Category]*registry.LoadedModules
}

// New builds a dispatcher over one build's model and loaded modules.
func New(m *model.Model, loaded map[catalog.Category]*registry.LoadedModules) *Dispatcher {
	return &Dispatcher{m: m, loaded: loaded}
}

// Rule evaluates the named operation for an entity, routed through the module
// of the entity's declared type for the category.
//
// An entity whose declared type has no loaded module means the build driver
// supplied an incomplete required-type set to the registry; that is a bug in
// the driver, not an input error, and fails loudly with full attribution.
func (d *Dispatcher) Rule(cat catalog.Category, entity, op string, idx int) (float64, error) {
	declared, ok := d.m.DeclaredType(string(cat), entity)
	if !ok {
		return 0, fmt.Errorf("entity %q declares no type for category %q", entity, cat)
	}
	return d.RuleForType(cat, declared, op, entity, idx)
}

// RuleForType evaluates an operation against an explicit type name. This is
// the path for cross-cutting groups, whose type is declared on the group
// rather than on an entity.
func (d *Dispatcher) RuleForType(cat catalog.Category, typeName, op, entity string, idx int) (float64, error) {
	lm, ok := d.loaded[cat]
	if !ok {
		return 0, fmt.Errorf("no modules loaded for category %q (dispatch for entity %q)", cat, entity)
	}
	spec, ok := lm.Get(typeName)
	if !ok {
		return 0, fmt.Errorf(
			"entity %q declares type %q in category %q but no such module was loaded for this build",
			entity, typeName, cat,
		)
	}
	rule, ok := spec.Rules[op]
	if !ok {
		// Contract enforcement at load time makes this unreachable for
		// contract operations; it guards direct calls with a bad name.
		return 0, fmt.Errorf("module %q provides no operation %q", spec.ModuleName(), op)
	}
	return rule(d.m, entity, idx)
}
