package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driven"
)

// Ensure SettingStore implements the interface.
var _ driven.SettingStore = (*SettingStore)(nil)

// SettingStore is an in-memory implementation of driven.SettingStore.
// List returns settings in insertion order.
type SettingStore struct {
	mu     sync.RWMutex
	keys   []string
	values map[string]string
	err    error
}

// NewSettingStore creates a new in-memory setting store.
func NewSettingStore() *SettingStore {
	return &SettingStore{
		values: make(map[string]string),
	}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (s *SettingStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Upsert inserts or overwrites a setting.
func (s *SettingStore) Upsert(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
	return nil
}

// Delete removes a setting.
func (s *SettingStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	s.keys = removeKey(s.keys, key)
	return nil
}

// Get retrieves a setting value.
func (s *SettingStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return "", false, s.err
	}
	value, ok := s.values[key]
	return value, ok, nil
}

// List returns all settings.
func (s *SettingStore) List(_ context.Context) ([]domain.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	result := make([]domain.Setting, 0, len(s.keys))
	for _, key := range s.keys {
		result = append(result, domain.Setting{Key: key, Value: s.values[key]})
	}
	return result, nil
}

// removeKey returns keys without key, preserving order.
func removeKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
