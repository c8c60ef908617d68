// Package tui is an interactive browser for settings and registered engines.
package tui

import (
	"errors"

	"github.com/custodia-labs/enginedesk/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI uses.
type Ports struct {
	// Settings manages application settings.
	Settings driving.SettingsService

	// Engines manages the engine registry.
	Engines driving.EngineService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return errors.New("ports are nil")
	}
	if p.Settings == nil {
		return errors.New("settings service is required")
	}
	if p.Engines == nil {
		return errors.New("engine service is required")
	}
	return nil
}
