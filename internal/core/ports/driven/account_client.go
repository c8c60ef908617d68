package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

// AccountClient talks to the login provider.
type AccountClient interface {
	// AuthCodeURL builds the authorization URL the user's browser is sent to.
	// The verifier is the PKCE code verifier for this attempt.
	AuthCodeURL(state, verifier, redirectURI string) string

	// Exchange trades an authorization code for a token.
	Exchange(ctx context.Context, code, verifier, redirectURI string) (*domain.OAuthToken, error)

	// Username looks up the account name the token belongs to.
	Username(ctx context.Context, token domain.OAuthToken) (string, error)
}

// CallbackReceiver receives the OAuth redirect on a loopback address.
type CallbackReceiver interface {
	// Start begins listening.
	Start() error

	// RedirectURI is the URI the provider must redirect to.
	RedirectURI() string

	// WaitForCode blocks until the authorization code arrives or timeout.
	WaitForCode(timeout time.Duration) (string, error)

	// Stop shuts the receiver down.
	Stop() error
}

// CallbackFactory creates a receiver that accepts only the given state.
type CallbackFactory func(expectedState string) CallbackReceiver

// BrowserOpener opens a URL for the user to visit.
type BrowserOpener func(url string) error
