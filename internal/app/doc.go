// Package app contains the core application logic. It assembles the module
// catalog, the result and validation sinks, and the per-scenario build
// pipeline, decoupled from any specific entrypoint like a CLI.
package app
