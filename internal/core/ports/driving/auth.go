package driving

import (
	"context"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

// AuthService signs the user in to the remote account provider.
type AuthService interface {
	// Login runs the browser-based OAuth flow and stores the account.
	Login(ctx context.Context) (*domain.Account, error)

	// Logout forgets the stored account.
	Logout(ctx context.Context) error

	// Current returns the stored account.
	// Returns domain.ErrAuthRequired if nobody is signed in.
	Current(ctx context.Context) (*domain.Account, error)

	// Refresh re-reads the account name for the stored token.
	Refresh(ctx context.Context) (*domain.Account, error)
}
