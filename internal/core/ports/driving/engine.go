package driving

import (
	"context"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

// EngineService manages the engine registry.
type EngineService interface {
	// Register adds an engine by path. An existing registration is kept.
	Register(ctx context.Context, engineID, binaryLocation string) error

	// Remove unregisters an engine. Unknown IDs are not an error.
	Remove(ctx context.Context, engineID string) error

	// Path returns the binary location of a registered engine.
	// Returns domain.ErrNotFound if the engine is not registered.
	Path(ctx context.Context, engineID string) (string, error)

	// List returns all registered engines.
	List(ctx context.Context) ([]domain.Engine, error)

	// Count returns the number of registered engines.
	Count(ctx context.Context) (int, error)

	// Install copies the binary into the engines directory and registers it.
	// Returns the binary location that is registered afterwards.
	Install(ctx context.Context, source domain.EngineSource) (string, error)
}
