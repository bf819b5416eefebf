// Package registry resolves the type modules a scenario build actually needs
// from the process-wide catalog and enforces each category's capability
// contract at load time, so a module either loads with every required
// operation present or not at all.
package registry
