// Package memstore provides an ephemeral, thread-safe, in-memory
// implementation of the store interfaces.
//
// It backs tests and dry runs where results never need to outlive the
// process. Replace semantics match the SQLite store exactly: a replace for a
// (key, module) slice swaps the whole slice, never merges.
package memstore

import (
	"context"
	"sync"

	"github.com/vk/gridframe/internal/store"
)

type resultKey struct {
	key    store.ScenarioKey
	module string
}

// Store is an in-memory results and validation store. Safe for concurrent
// use; different scenario keys never contend on anything but the map lock.
type Store struct {
	mu       sync.RWMutex
	results  map[resultKey][]store.ResultRow
	findings map[store.ScenarioKey][]store.Finding
}

// New returns an empty store.
func New() *Store {
	return &Store{
		results:  make(map[resultKey][]store.ResultRow),
		findings: make(map[store.ScenarioKey][]store.Finding),
	}
}

// ReplaceResults swaps all rows for the (key, module) slice.
func (s *Store) ReplaceResults(ctx context.Context, key store.ScenarioKey, module string, rows []store.ResultRow) error {
	cp := append([]store.ResultRow(nil), rows...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[resultKey{key: key, module: module}] = cp
	return nil
}

// Results returns the rows last committed for the (key, module) slice, in
// export order.
func (s *Store) Results(ctx context.Context, key store.ScenarioKey, module string) ([]store.ResultRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]store.ResultRow(nil), s.results[resultKey{key: key, module: module}]...), nil
}

// WriteFindings appends validation findings for the key.
func (s *Store) WriteFindings(ctx context.Context, key store.ScenarioKey, findings []store.Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findings[key] = append(s.findings[key], findings...)
	return nil
}

// Findings returns all findings recorded for the key, in write order.
func (s *Store) Findings(ctx context.Context, key store.ScenarioKey) ([]store.Finding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]store.Finding(nil), s.findings[key]...), nil
}
