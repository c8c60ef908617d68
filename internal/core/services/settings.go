package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driven"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages user settings.
type SettingsService struct {
	store driven.SettingStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store driven.SettingStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get retrieves a setting value.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	value, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	if !ok {
		return "", fmt.Errorf("setting %s: %w", key, domain.ErrNotFound)
	}
	return value, nil
}

// List returns all settings in storage order.
func (s *SettingsService) List(ctx context.Context) ([]domain.Setting, error) {
	settings, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

// All returns all settings as a key/value map.
func (s *SettingsService) All(ctx context.Context) (map[string]string, error) {
	settings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SettingsMap(settings), nil
}

// Set creates or overwrites a setting.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, key, value); err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

// Delete removes a setting. Unknown keys are not an error.
// A blank key can never be stored, so deleting one is a no-op as well.
func (s *SettingsService) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// validateKey rejects blank identities before they reach the store.
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key must not be empty", domain.ErrInvalidInput)
	}
	return nil
}
