package driven

import (
	"context"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

// SettingStore persists named string settings.
//
// Writes are single atomic statements. Absent keys are not errors:
// Get reports ok=false and Delete succeeds without changing anything.
type SettingStore interface {
	// Upsert inserts the setting, or overwrites its value in place if the key exists.
	Upsert(ctx context.Context, key, value string) error

	// Delete removes the setting. Deleting an unknown key is a no-op.
	Delete(ctx context.Context, key string) error

	// Get retrieves a setting value.
	// Returns ok=false and no error if the key does not exist.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// List returns all settings in storage order (not guaranteed sorted).
	List(ctx context.Context) ([]domain.Setting, error)
}
