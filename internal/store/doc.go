// Package store defines the persistence boundary of a scenario build: the
// results sink with replace-all-rows-for-key semantics and the validation
// sink accepting per-module findings.
//
// The composition core never talks to a database directly; it goes through
// these interfaces so in-memory and SQLite implementations are
// interchangeable.
package store
