package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driven"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driving"
	"github.com/custodia-labs/enginedesk/internal/logger"
)

// Ensure EngineService implements the interface.
var _ driving.EngineService = (*EngineService)(nil)

// EngineService manages the engine registry.
type EngineService struct {
	store     driven.EngineStore
	installer driven.EngineInstaller
}

// NewEngineService creates a new engine service.
// installer may be nil, in which case Install is unavailable.
func NewEngineService(store driven.EngineStore, installer driven.EngineInstaller) *EngineService {
	return &EngineService{
		store:     store,
		installer: installer,
	}
}

// Register adds an engine by path. An existing registration is kept.
func (s *EngineService) Register(ctx context.Context, engineID, binaryLocation string) error {
	if err := validateEngineID(engineID); err != nil {
		return err
	}
	if binaryLocation == "" {
		return fmt.Errorf("%w: binary location must not be empty", domain.ErrInvalidInput)
	}
	if err := s.store.Add(ctx, engineID, binaryLocation); err != nil {
		return fmt.Errorf("register engine %s: %w", engineID, err)
	}
	return nil
}

// Remove unregisters an engine. Unknown IDs are not an error.
// A blank ID can never be registered, so removing one is a no-op as well.
func (s *EngineService) Remove(ctx context.Context, engineID string) error {
	if strings.TrimSpace(engineID) == "" {
		return nil
	}
	if err := s.store.Delete(ctx, engineID); err != nil {
		return fmt.Errorf("remove engine %s: %w", engineID, err)
	}
	return nil
}

// Path returns the binary location of a registered engine.
func (s *EngineService) Path(ctx context.Context, engineID string) (string, error) {
	if err := validateEngineID(engineID); err != nil {
		return "", err
	}
	path, ok, err := s.store.Path(ctx, engineID)
	if err != nil {
		return "", fmt.Errorf("get engine %s: %w", engineID, err)
	}
	if !ok {
		return "", fmt.Errorf("engine %s: %w", engineID, domain.ErrNotFound)
	}
	return path, nil
}

// List returns all registered engines.
func (s *EngineService) List(ctx context.Context) ([]domain.Engine, error) {
	engines, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list engines: %w", err)
	}
	return engines, nil
}

// Count returns the number of registered engines.
func (s *EngineService) Count(ctx context.Context) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count engines: %w", err)
	}
	return count, nil
}

// Install copies the binary into the engines directory and registers it.
//
// If the ID is already registered nothing is copied and the existing path is
// returned, so an installed binary is never replaced behind its registration.
func (s *EngineService) Install(ctx context.Context, source domain.EngineSource) (string, error) {
	if s.installer == nil {
		return "", fmt.Errorf("%w: no installer configured", domain.ErrInstallFailed)
	}
	if err := validateEngineID(source.ID); err != nil {
		return "", err
	}
	if source.Path == "" {
		return "", fmt.Errorf("%w: source path must not be empty", domain.ErrInvalidInput)
	}

	existing, ok, err := s.store.Path(ctx, source.ID)
	if err != nil {
		return "", fmt.Errorf("get engine %s: %w", source.ID, err)
	}
	if ok {
		logger.Debug("engine %s already registered at %s, skipping install", source.ID, existing)
		return existing, nil
	}

	installed, err := s.installer.Install(ctx, source)
	if err != nil {
		if errors.Is(err, domain.ErrInstallFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrInstallFailed, err)
	}
	logger.Debug("installed engine %s to %s", source.ID, installed)

	if err := s.Register(ctx, source.ID, installed); err != nil {
		return "", err
	}
	return s.Path(ctx, source.ID)
}

// validateEngineID rejects blank identities before they reach the store.
func validateEngineID(engineID string) error {
	if strings.TrimSpace(engineID) == "" {
		return fmt.Errorf("%w: engine id must not be empty", domain.ErrInvalidInput)
	}
	return nil
}
