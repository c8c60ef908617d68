package driven

import (
	"context"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

// EngineInstaller places an engine binary where the application can run it.
// Download and verification are outside its contract.
type EngineInstaller interface {
	// Install copies the source binary into the engines directory and
	// returns the installed binary location.
	Install(ctx context.Context, source domain.EngineSource) (string, error)
}
