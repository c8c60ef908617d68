// Package mcp serves the engine registry and settings over the Model Context
// Protocol so assistants can find the installed engines.
package mcp

import "errors"

// ErrMissingEngineService is returned when the engine service is not provided.
var ErrMissingEngineService = errors.New("mcp: engine service is required")

// ErrMissingSettingsService is returned when the settings service is not provided.
var ErrMissingSettingsService = errors.New("mcp: settings service is required")
