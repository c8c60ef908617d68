// Package domain defines the core business entities for enginedesk.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Setting: A named string configuration value
//   - Engine: An analysis-engine binary registered under a stable ID
//   - Account: The signed-in remote account and its OAuth token
//   - Job: A unit of work for the background worker
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
