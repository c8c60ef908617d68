package driven

import (
	"context"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

// EngineStore persists the engine registry.
//
// Unlike SettingStore, registering an ID that already exists keeps the
// existing record: the first registration wins.
type EngineStore interface {
	// Add registers an engine. An already registered ID is left untouched.
	Add(ctx context.Context, engineID, binaryLocation string) error

	// Delete removes an engine. Deleting an unknown ID is a no-op.
	Delete(ctx context.Context, engineID string) error

	// Path retrieves the binary location of an engine.
	// Returns ok=false and no error if the engine is not registered.
	Path(ctx context.Context, engineID string) (path string, ok bool, err error)

	// List returns all registered engines in storage order.
	List(ctx context.Context) ([]domain.Engine, error)

	// Count returns the number of registered engines.
	Count(ctx context.Context) (int, error)
}
