// Package scenario loads scenario input data from HCL files.
//
// The core schema claims each entity's identity and declared types; every
// other attribute in a project or tx_line block is kept as an opaque cty
// value for the owning type module to decode during its load-data phase.
package scenario
