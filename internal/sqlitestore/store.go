// Package sqlitestore persists results and validation findings in SQLite.
//
// Every replace goes through a scratch-then-commit pattern: new rows are
// staged into a temporary table inside a transaction, the prior rows for the
// exact (scenario, subproblem, stage, module) slice are deleted, and the
// staged rows are inserted in export order. A failed or killed build can
// therefore never leave partial results visible under the final key.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vk/gridframe/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	scenario   TEXT    NOT NULL,
	subproblem INTEGER NOT NULL,
	stage      INTEGER NOT NULL,
	module     TEXT    NOT NULL,
	component  TEXT    NOT NULL,
	entity     TEXT    NOT NULL,
	idx        INTEGER NOT NULL,
	value      REAL    NOT NULL,
	seq        INTEGER NOT NULL,
	PRIMARY KEY (scenario, subproblem, stage, module, component, entity, idx)
);

CREATE TABLE IF NOT EXISTS validation_findings (
	scenario   TEXT    NOT NULL,
	subproblem INTEGER NOT NULL,
	stage      INTEGER NOT NULL,
	module     TEXT    NOT NULL,
	severity   TEXT    NOT NULL,
	message    TEXT    NOT NULL
);
`

// Store is a SQLite-backed results and validation store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening results database %s: %w", path, err)
	}
	// A single connection keeps temp staging tables visible across the
	// statements of one replace.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing results schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// ReplaceResults atomically replaces all rows for the (key, module) slice.
func (s *Store) ReplaceResults(ctx context.Context, key store.ScenarioKey, module string, rows []store.ResultRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning results transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TEMP TABLE staging_results (
			component TEXT NOT NULL,
			entity    TEXT NOT NULL,
			idx       INTEGER NOT NULL,
			value     REAL NOT NULL,
			seq       INTEGER NOT NULL
		)`); err != nil {
		return fmt.Errorf("creating staging table: %w", err)
	}

	ins, err := tx.PrepareContext(ctx,
		`INSERT INTO staging_results (component, entity, idx, value, seq) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing staging insert: %w", err)
	}
	defer ins.Close()
	for i, row := range rows {
		if _, err := ins.ExecContext(ctx, row.Component, row.Entity, row.Index, row.Value, i); err != nil {
			return fmt.Errorf("staging result row for %s: %w", row.Entity, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM results WHERE scenario = ? AND subproblem = ? AND stage = ? AND module = ?`,
		key.Scenario, key.Subproblem, key.Stage, module); err != nil {
		return fmt.Errorf("clearing prior results for module %s: %w", module, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO results (scenario, subproblem, stage, module, component, entity, idx, value, seq)
		SELECT ?, ?, ?, ?, component, entity, idx, value, seq
		FROM staging_results ORDER BY seq`,
		key.Scenario, key.Subproblem, key.Stage, module); err != nil {
		return fmt.Errorf("committing results for module %s: %w", module, err)
	}

	// Temp tables stick to the connection past commit; a rollback undoes
	// the creation, so the error paths need no cleanup.
	if _, err := tx.ExecContext(ctx, `DROP TABLE temp.staging_results`); err != nil {
		return fmt.Errorf("dropping staging table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing results transaction: %w", err)
	}
	return nil
}

// Results returns the committed rows for the (key, module) slice in export
// order.
func (s *Store) Results(ctx context.Context, key store.ScenarioKey, module string) ([]store.ResultRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT component, entity, idx, value FROM results
		WHERE scenario = ? AND subproblem = ? AND stage = ? AND module = ?
		ORDER BY seq`,
		key.Scenario, key.Subproblem, key.Stage, module)
	if err != nil {
		return nil, fmt.Errorf("querying results for module %s: %w", module, err)
	}
	defer rows.Close()

	var out []store.ResultRow
	for rows.Next() {
		var r store.ResultRow
		if err := rows.Scan(&r.Component, &r.Entity, &r.Index, &r.Value); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// WriteFindings appends validation findings for the key, one row per finding.
func (s *Store) WriteFindings(ctx context.Context, key store.ScenarioKey, findings []store.Finding) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning findings transaction: %w", err)
	}
	defer tx.Rollback()

	ins, err := tx.PrepareContext(ctx, `
		INSERT INTO validation_findings (scenario, subproblem, stage, module, severity, message)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing findings insert: %w", err)
	}
	defer ins.Close()
	for _, f := range findings {
		if _, err := ins.ExecContext(ctx,
			key.Scenario, key.Subproblem, key.Stage, f.Module, string(f.Severity), f.Message); err != nil {
			return fmt.Errorf("writing finding for module %s: %w", f.Module, err)
		}
	}
	return tx.Commit()
}

// Findings returns all findings recorded for the key, in write order.
func (s *Store) Findings(ctx context.Context, key store.ScenarioKey) ([]store.Finding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT module, severity, message FROM validation_findings
		WHERE scenario = ? AND subproblem = ? AND stage = ?
		ORDER BY rowid`,
		key.Scenario, key.Subproblem, key.Stage)
	if err != nil {
		return nil, fmt.Errorf("querying validation findings: %w", err)
	}
	defer rows.Close()

	var out []store.Finding
	for rows.Next() {
		var f store.Finding
		var sev string
		if err := rows.Scan(&f.Module, &sev, &f.Message); err != nil {
			return nil, fmt.Errorf("scanning finding row: %w", err)
		}
		f.Severity = store.Severity(sev)
		out = append(out, f)
	}
	return out, rows.Err()
}
