// Package components implements the dynamic component registry and the
// set-join aggregator.
//
// During the registration phase each loaded type module posts the model sets
// it owns under shared aggregation keys (e.g. every capacity type contributes
// its own project-period set under the capacity key). Once all modules have
// registered, the registry is sealed and the per-type sets are joined into
// the canonical scenario-wide sets that generic, type-agnostic model
// components iterate over.
package components
