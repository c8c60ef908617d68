// Package oauth talks to the login provider: PKCE authorization URLs,
// code exchange and the account lookup.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driven"
)

// Ensure AccountClient implements the interface.
var _ driven.AccountClient = (*AccountClient)(nil)

// Account API pacing defaults.
const (
	DefaultRequestsPerSecond = 2.0
	DefaultBurst             = 4
	DefaultMaxRetries        = 3
	DefaultRetryBase         = 250 * time.Millisecond
)

// AccountClient is an oauth2-backed driven.AccountClient.
type AccountClient struct {
	config     oauth2.Config
	accountURL string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries uint64
	retryBase  time.Duration
}

// Option configures an AccountClient.
type Option func(*AccountClient)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(client *http.Client) Option {
	return func(c *AccountClient) {
		c.httpClient = client
	}
}

// WithRateLimit sets the account lookup pacing.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *AccountClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithRetry sets how often a failed account lookup is retried.
func WithRetry(maxRetries uint64, base time.Duration) Option {
	return func(c *AccountClient) {
		c.maxRetries = maxRetries
		c.retryBase = base
	}
}

// NewAccountClient creates a client for the given provider registration.
func NewAccountClient(cfg domain.OAuthConfig, opts ...Option) *AccountClient {
	c := &AccountClient{
		config: oauth2.Config{
			ClientID: cfg.ClientID,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: cfg.Scopes,
		},
		accountURL: cfg.AccountURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), DefaultBurst),
		maxRetries: DefaultMaxRetries,
		retryBase:  DefaultRetryBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthCodeURL builds the authorization URL with an S256 PKCE challenge.
func (c *AccountClient) AuthCodeURL(state, verifier, redirectURI string) string {
	cfg := c.configFor(redirectURI)
	return cfg.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange trades an authorization code for a token.
func (c *AccountClient) Exchange(
	ctx context.Context,
	code, verifier, redirectURI string,
) (*domain.OAuthToken, error) {
	cfg := c.configFor(redirectURI)
	token, err := cfg.Exchange(c.clientContext(ctx), code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &domain.OAuthToken{
		AccessToken: token.AccessToken,
		TokenType:   tokenType,
		Expiry:      token.Expiry,
	}, nil
}

// Username looks up the account name the token belongs to.
// Server errors and rate limiting are retried with exponential backoff.
// A rejected token returns domain.ErrAuthRequired.
func (c *AccountClient) Username(ctx context.Context, token domain.OAuthToken) (string, error) {
	if c.accountURL == "" {
		return "", errors.New("account URL not configured")
	}

	client := oauth2.NewClient(c.clientContext(ctx), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		Expiry:      token.Expiry,
	}))

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))

	var username string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		name, err := c.fetchUsername(ctx, client)
		if err != nil {
			var status *statusError
			if errors.As(err, &status) && status.retryable() {
				return retry.RetryableError(err)
			}
			return err
		}
		username = name
		return nil
	})
	if err != nil {
		return "", err
	}
	return username, nil
}

// fetchUsername performs one account request.
func (c *AccountClient) fetchUsername(ctx context.Context, client *http.Client) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.accountURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("account request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: provider rejected token (status %d)", domain.ErrAuthRequired, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &statusError{code: resp.StatusCode, body: string(body)}
	}

	var account struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return "", fmt.Errorf("decode account response: %w", err)
	}
	if account.Username == "" {
		return "", errors.New("account response has no username")
	}
	return account.Username, nil
}

// configFor returns a copy of the config with the redirect URI set.
func (c *AccountClient) configFor(redirectURI string) oauth2.Config {
	cfg := c.config
	cfg.RedirectURL = redirectURI
	return cfg
}

// clientContext makes oauth2 use the configured HTTP client.
func (c *AccountClient) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// statusError is an unexpected HTTP status from the provider.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("account request failed with status %d", e.code)
	}
	return fmt.Sprintf("account request failed with status %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= http.StatusInternalServerError
}
