// Package driving defines the interfaces the CLI, the TUI and the MCP server
// use to reach the settings, engine, auth and worker services.
//
// Implementations live in internal/core/services.
package driving
