// Package file provides the TOML configuration file and resolves it into
// the application configuration.
package file
