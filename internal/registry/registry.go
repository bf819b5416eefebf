package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/internal/ctxlog"
)

// LoadedModules is the set of type modules one scenario build resolved for a
// single category. It is owned exclusively by that build and discarded at
// build end.
type LoadedModules struct {
	Category catalog.Category
	order    []string
	byName   map[string]*catalog.ModuleSpec
}

// Load resolves the required type names against the catalog and verifies each
// resolved module honors the category's capability contract.
//
// Duplicates in required are loaded once. An unknown type name or a module
// missing any contract operation is a fatal configuration error; all problems
// found are reported in one batch so a broken scenario configuration
// surfaces completely on the first attempt. Loading has no side effects
// beyond the returned value, and the same required set always yields the
// same key set.
func Load(ctx context.Context, cat *catalog.Catalog, category catalog.Category, required []string) (*LoadedModules, error) {
	logger := ctxlog.FromContext(ctx)
	contract := catalog.ContractFor(category)

	lm := &LoadedModules{
		Category: category,
		byName:   make(map[string]*catalog.ModuleSpec),
	}

	var errs []string
	for _, name := range required {
		if _, dup := lm.byName[name]; dup {
			continue
		}
		spec, ok := cat.Lookup(category, name)
		if !ok {
			errs = append(errs, fmt.Sprintf("unknown type %q in category %q", name, category))
			continue
		}
		if missing := contract.Missing(spec); len(missing) > 0 {
			errs = append(errs, fmt.Sprintf(
				"module %q does not satisfy the %q contract: missing %s",
				spec.ModuleName(), category, strings.Join(missing, ", "),
			))
			continue
		}
		lm.byName[name] = spec
		lm.order = append(lm.order, name)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load type modules for category %q:\n- %s",
			category, strings.Join(errs, "\n- "))
	}

	logger.Debug("Type modules loaded.", "category", string(category), "types", lm.order)
	return lm, nil
}

// Get returns the loaded module for a type name.
func (lm *LoadedModules) Get(typeName string) (*catalog.ModuleSpec, bool) {
	spec, ok := lm.byName[typeName]
	return spec, ok
}

// Names returns the loaded type names in the order they were required.
func (lm *LoadedModules) Names() []string { return lm.order }

// Specs returns the loaded module specs in required order.
func (lm *LoadedModules) Specs() []*catalog.ModuleSpec {
	specs := make([]*catalog.ModuleSpec, 0, len(lm.order))
	for _, name := range lm.order {
		specs = append(specs, lm.byName[name])
	}
	return specs
}

// Len returns the number of loaded modules.
func (lm *LoadedModules) Len() int { return len(lm.order) }
