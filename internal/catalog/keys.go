package catalog

// Aggregation keys type modules post their per-type sets under. One key per
// category; the join of a key's contributions is that category's canonical
// set.
const (
	AggCapacityOperationalPeriods   = "capacity_type_operational_periods"
	AggOperationalTimepoints        = "operational_type_timepoints"
	AggPRMProjectPeriods            = "prm_type_project_periods"
	AggTxCapacityOperationalPeriods = "tx_capacity_type_operational_periods"
	AggTxOperationalTimepoints      = "tx_operational_type_timepoints"
	AggReserveTimepoints            = "reserve_type_timepoints"
)

// Canonical set names the build driver declares on the model after joining.
// Generic, type-agnostic components iterate these.
const (
	SetProjectOperationalPeriods    = "project_operational_periods"
	SetProjectOperationalTimepoints = "project_operational_timepoints"
	SetPRMProjectPeriods            = "prm_project_periods"
	SetTxOperationalPeriods         = "tx_operational_periods"
	SetTxOperationalTimepoints      = "tx_operational_timepoints"
	SetReserveProjectTimepoints     = "reserve_project_timepoints"
)

// CanonicalSetFor maps a category's aggregation key to the canonical set name
// its join is declared under.
func CanonicalSetFor(aggKey string) (string, bool) {
	m := map[string]string{
		AggCapacityOperationalPeriods:   SetProjectOperationalPeriods,
		AggOperationalTimepoints:        SetProjectOperationalTimepoints,
		AggPRMProjectPeriods:            SetPRMProjectPeriods,
		AggTxCapacityOperationalPeriods: SetTxOperationalPeriods,
		AggTxOperationalTimepoints:      SetTxOperationalTimepoints,
		AggReserveTimepoints:            SetReserveProjectTimepoints,
	}
	name, ok := m[aggKey]
	return name, ok
}

// AggregationKeys returns every aggregation key in category walk order.
func AggregationKeys() []string {
	return []string{
		AggCapacityOperationalPeriods,
		AggOperationalTimepoints,
		AggPRMProjectPeriods,
		AggTxCapacityOperationalPeriods,
		AggTxOperationalTimepoints,
		AggReserveTimepoints,
	}
}
