package mcp

import (
	"github.com/custodia-labs/enginedesk/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Engines manages the engine registry.
	Engines driving.EngineService

	// Settings manages application settings.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Engines == nil {
		return ErrMissingEngineService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
