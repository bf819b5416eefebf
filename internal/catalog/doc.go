// Package catalog holds the closed, process-wide table of type modules and
// the capability contract each module category requires.
//
// The catalog is populated once at startup from compiled-in module packages,
// so the set of legal (category, type name) pairs is known ahead of time and
// the "unexpected import failure" error class does not exist. Per-build
// resolution and contract enforcement live in the registry package.
package catalog
