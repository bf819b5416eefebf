package catalog

// Contract is the ordered list of operation names a type module of a given
// category must provide. Contracts are static configuration, fixed per
// category at process start.
type Contract []string

// Operation names shared across contracts.
const (
	OpCapacity        = "capacity_rule"
	OpCapacityCost    = "capacity_cost_rule"
	OpNewCapacity     = "new_capacity_rule"
	OpPowerProvision  = "power_provision_rule"
	OpVariableOMCost  = "variable_om_cost_rule"
	OpStartupCost     = "startup_cost_rule"
	OpShutdownCost    = "shutdown_cost_rule"
	OpStartupFuel     = "startup_fuel_rule"
	OpPRMContribution = "prm_contribution_rule"
	OpGroupCost       = "group_cost_rule"
	OpTxMinCapacity   = "min_transmission_capacity_rule"
	OpTxMaxCapacity   = "max_transmission_capacity_rule"
	OpTxCapacityCost  = "tx_capacity_cost_rule"
	OpTransmitPower   = "transmit_power_rule"
	OpReserveProvided = "reserve_provision_rule"
)

var contracts = map[Category]Contract{
	Capacity: {OpCapacity, OpCapacityCost, OpNewCapacity},
	Operational: {
		OpPowerProvision, OpVariableOMCost, OpStartupCost, OpShutdownCost, OpStartupFuel,
	},
	Reliability:   {OpPRMContribution, OpGroupCost},
	TxCapacity:    {OpTxMinCapacity, OpTxMaxCapacity, OpTxCapacityCost},
	TxOperational: {OpTransmitPower},
	Reserve:       {OpReserveProvided},
}

// ContractFor returns the capability contract of a category.
func ContractFor(cat Category) Contract {
	return contracts[cat]
}

// Missing returns the contract operations a spec does not provide, in
// contract order.
func (ct Contract) Missing(spec *ModuleSpec) []string {
	var missing []string
	for _, op := range ct {
		if _, ok := spec.Rules[op]; !ok {
			missing = append(missing, op)
		}
	}
	return missing
}
