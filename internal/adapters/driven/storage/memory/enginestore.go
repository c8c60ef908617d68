package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driven"
)

// Ensure EngineStore implements the interface.
var _ driven.EngineStore = (*EngineStore)(nil)

// EngineStore is an in-memory implementation of driven.EngineStore.
type EngineStore struct {
	mu      sync.RWMutex
	ids     []string
	engines map[string]string
	err     error
}

// NewEngineStore creates a new in-memory engine store.
func NewEngineStore() *EngineStore {
	return &EngineStore{
		engines: make(map[string]string),
	}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (s *EngineStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Add registers an engine unless the ID is already registered.
func (s *EngineStore) Add(_ context.Context, engineID, binaryLocation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.engines[engineID]; ok {
		return nil
	}
	s.ids = append(s.ids, engineID)
	s.engines[engineID] = binaryLocation
	return nil
}

// Delete removes an engine.
func (s *EngineStore) Delete(_ context.Context, engineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.engines[engineID]; !ok {
		return nil
	}
	delete(s.engines, engineID)
	s.ids = removeKey(s.ids, engineID)
	return nil
}

// Path retrieves the binary location of an engine.
func (s *EngineStore) Path(_ context.Context, engineID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return "", false, s.err
	}
	path, ok := s.engines[engineID]
	return path, ok, nil
}

// List returns all registered engines.
func (s *EngineStore) List(_ context.Context) ([]domain.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	result := make([]domain.Engine, 0, len(s.ids))
	for _, id := range s.ids {
		result = append(result, domain.Engine{ID: id, BinaryLocation: s.engines[id]})
	}
	return result, nil
}

// Count returns the number of registered engines.
func (s *EngineStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return 0, s.err
	}
	return len(s.engines), nil
}
