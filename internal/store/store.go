package store

import "context"

// ScenarioKey identifies the exact slice of the persistent store a build owns.
// Every write phase replaces rows for one key atomically.
type ScenarioKey struct {
	Scenario   string
	Subproblem int
	Stage      int
}

// ResultRow is one exported result value. Component names the model component
// the value belongs to (e.g. "capacity_mw"), Index is the period or timepoint.
type ResultRow struct {
	Component string
	Entity    string
	Index     int
	Value     float64
}

// Severity grades a validation finding.
type Severity string

const (
	SeverityLow  Severity = "low"
	SeverityMid  Severity = "mid"
	SeverityHigh Severity = "high"
)

// Finding is one input-validation record attributed to a module.
type Finding struct {
	Module   string
	Severity Severity
	Message  string
}

// ResultsStore is the results sink. ReplaceResults must be atomic with
// respect to the (key, module) slice: a failed or interrupted call leaves the
// previously committed rows visible, never a partial mix.
type ResultsStore interface {
	ReplaceResults(ctx context.Context, key ScenarioKey, module string, rows []ResultRow) error
	Results(ctx context.Context, key ScenarioKey, module string) ([]ResultRow, error)
}

// ValidationStore is the validation sink; findings are append-only within a
// build and replaced wholesale per key across builds.
type ValidationStore interface {
	WriteFindings(ctx context.Context, key ScenarioKey, findings []Finding) error
	Findings(ctx context.Context, key ScenarioKey) ([]Finding, error)
}
