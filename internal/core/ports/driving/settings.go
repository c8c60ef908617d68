package driving

import (
	"context"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

// SettingsService manages user settings.
type SettingsService interface {
	// Get retrieves a setting value.
	// Returns domain.ErrNotFound if the key is not set.
	Get(ctx context.Context, key string) (string, error)

	// List returns all settings in storage order.
	List(ctx context.Context) ([]domain.Setting, error)

	// All returns all settings as a key/value map.
	All(ctx context.Context) (map[string]string, error)

	// Set creates or overwrites a setting.
	Set(ctx context.Context, key, value string) error

	// Delete removes a setting. Unknown keys are not an error.
	Delete(ctx context.Context, key string) error
}
