package catalog

import (
	"fmt"
	"log/slog"
	"sort"
)

// Category is a module category: each modeled entity declares one type per
// relevant category, and each (category, type) pair maps to exactly one
// registered module.
type Category string

const (
	Capacity      Category = "capacity"
	Operational   Category = "operational"
	Reliability   Category = "reliability"
	TxCapacity    Category = "tx-capacity"
	TxOperational Category = "tx-operational"
	Reserve       Category = "reserve"
)

// Categories returns every category in the fixed order builds walk them.
func Categories() []Category {
	return []Category{Capacity, Operational, Reliability, TxCapacity, TxOperational, Reserve}
}

// Catalog is the process-wide table of type modules, keyed by category and
// type name. It is populated once at startup by compiled-in modules and is
// read-only afterward; per-build state never lives here.
type Catalog struct {
	entries map[Category]map[string]*ModuleSpec
}

// Module is implemented by every package that contributes type modules to
// the catalog.
type Module interface {
	Register(c *Catalog)
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[Category]map[string]*ModuleSpec)}
}

// Add registers a module spec under its (category, type name). Registering
// the same pair twice is a programmer error and panics, matching how
// compiled-in registration defects should surface: at startup, loudly.
func (c *Catalog) Add(spec *ModuleSpec) {
	if spec.TypeName == "" {
		panic("catalog: module spec has empty type name")
	}
	byName, ok := c.entries[spec.Category]
	if !ok {
		byName = make(map[string]*ModuleSpec)
		c.entries[spec.Category] = byName
	}
	if _, exists := byName[spec.TypeName]; exists {
		panic(fmt.Sprintf("catalog: type %q already registered in category %q", spec.TypeName, spec.Category))
	}
	slog.Debug("Registering type module.", "category", string(spec.Category), "type", spec.TypeName)
	byName[spec.TypeName] = spec
}

// Lookup resolves a (category, type name) pair to its module spec.
func (c *Catalog) Lookup(cat Category, typeName string) (*ModuleSpec, bool) {
	spec, ok := c.entries[cat][typeName]
	return spec, ok
}

// TypeNames returns the registered type names of a category, sorted.
func (c *Catalog) TypeNames(cat Category) []string {
	names := make([]string, 0, len(c.entries[cat]))
	for name := range c.entries[cat] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
