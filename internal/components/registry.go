package components

import (
	"fmt"

	"github.com/vk/gridframe/internal/model"
)

// contribution is one set a type module posted under an aggregation key.
type contribution struct {
	setName  string
	typeName string
}

// Registry is the per-build aggregation surface type modules append their
// contributions to during the registration phase. It is created fresh for
// every scenario build and sealed before any join or dispatch happens, so
// concurrent builds of different scenarios can never observe each other's
// contents.
type Registry struct {
	contribs   map[string][]contribution
	keyOrder   []string
	groups     map[string]string
	groupOrder []string
	sealed     bool
}

// New returns an empty, unsealed registry.
func New() *Registry {
	return &Registry{
		contribs: make(map[string][]contribution),
		groups:   make(map[string]string),
	}
}

// Register appends the named model set, contributed by the named type, under
// an aggregation key. Re-registering an identical contribution is a no-op.
// Registering the same set name under the same key for a different type is an
// ambiguous-membership configuration error.
func (r *Registry) Register(aggKey, setName, typeName string) error {
	if r.sealed {
		return fmt.Errorf("component registry is sealed; cannot register set %q under %q", setName, aggKey)
	}
	for _, c := range r.contribs[aggKey] {
		if c.setName == setName {
			if c.typeName == typeName {
				return nil
			}
			return fmt.Errorf(
				"ambiguous membership under aggregation key %q: set %q registered by both type %q and type %q",
				aggKey, setName, c.typeName, typeName,
			)
		}
	}
	if _, ok := r.contribs[aggKey]; !ok {
		r.keyOrder = append(r.keyOrder, aggKey)
	}
	r.contribs[aggKey] = append(r.contribs[aggKey], contribution{setName: setName, typeName: typeName})
	return nil
}

// RegisterGroup records the declared type of a cross-cutting group (e.g. a
// reliability cost group). Re-registering with the same type is a no-op;
// conflicting types are a configuration error.
func (r *Registry) RegisterGroup(groupKey, typeName string) error {
	if r.sealed {
		return fmt.Errorf("component registry is sealed; cannot register group %q", groupKey)
	}
	if existing, ok := r.groups[groupKey]; ok {
		if existing == typeName {
			return nil
		}
		return fmt.Errorf("group %q declared with conflicting types %q and %q", groupKey, existing, typeName)
	}
	r.groups[groupKey] = typeName
	r.groupOrder = append(r.groupOrder, groupKey)
	return nil
}

// GroupType returns a group's declared type.
func (r *Registry) GroupType(groupKey string) (string, bool) {
	t, ok := r.groups[groupKey]
	return t, ok
}

// Groups returns all registered group keys in registration order.
func (r *Registry) Groups() []string { return r.groupOrder }

// Keys returns all aggregation keys in first-registration order.
func (r *Registry) Keys() []string { return r.keyOrder }

// Seal marks the end of the registration phase. After sealing, the registry
// is read-only and joins become legal.
func (r *Registry) Seal() { r.sealed = true }

// Sealed reports whether the registration phase has ended.
func (r *Registry) Sealed() bool { return r.sealed }

// Join unions every set registered under an aggregation key into one
// canonical set declared on the model under the given name. An aggregation
// key with zero contributions yields a valid empty set.
//
// Joining enforces the disjointness invariant: each (entity, index) pair may
// appear in exactly one contributing set. A duplicate indicates an entity was
// assigned more than one type within the same category, which upstream input
// generation must prevent; detection here is a safety net, and the error
// names the entity, the index, and both contributing types.
func (r *Registry) Join(m *model.Model, aggKey, as string) (*model.PairSet, error) {
	if !r.sealed {
		return nil, fmt.Errorf("cannot join aggregation key %q before the registration phase completes", aggKey)
	}
	joined, err := m.NewSet(as)
	if err != nil {
		return nil, err
	}
	owner := make(map[model.Pair]string)
	for _, c := range r.contribs[aggKey] {
		s, ok := m.Set(c.setName)
		if !ok {
			return nil, fmt.Errorf("aggregation key %q references set %q which was never declared on the model", aggKey, c.setName)
		}
		for _, p := range s.Pairs() {
			if prev, dup := owner[p]; dup {
				return nil, fmt.Errorf(
					"integrity violation joining %q: entity %q at index %d contributed by both type %q and type %q",
					aggKey, p.Entity, p.Index, prev, c.typeName,
				)
			}
			owner[p] = c.typeName
			joined.Add(p)
		}
	}
	return joined, nil
}
