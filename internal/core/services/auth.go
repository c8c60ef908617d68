package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driven"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driving"
	"github.com/custodia-labs/enginedesk/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService signs the user in with an OAuth authorization-code + PKCE flow
// and keeps the resulting account in the settings store.
type AuthService struct {
	settings    driven.SettingStore
	client      driven.AccountClient
	callbacks   driven.CallbackFactory
	openBrowser driven.BrowserOpener
	timeout     time.Duration
}

// NewAuthService creates a new auth service.
// client and callbacks may be nil, in which case Login and Refresh fail.
func NewAuthService(
	settings driven.SettingStore,
	client driven.AccountClient,
	callbacks driven.CallbackFactory,
	openBrowser driven.BrowserOpener,
	timeout time.Duration,
) *AuthService {
	if timeout <= 0 {
		timeout = domain.DefaultLoginTimeout
	}
	return &AuthService{
		settings:    settings,
		client:      client,
		callbacks:   callbacks,
		openBrowser: openBrowser,
		timeout:     timeout,
	}
}

// Login runs the browser-based OAuth flow and stores the account.
func (s *AuthService) Login(ctx context.Context) (*domain.Account, error) {
	if s.client == nil || s.callbacks == nil {
		return nil, fmt.Errorf("%w: login provider not configured", domain.ErrLoginFailed)
	}

	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("%w: generating state: %v", domain.ErrLoginFailed, err)
	}
	verifier, err := generateCodeVerifier()
	if err != nil {
		return nil, fmt.Errorf("%w: generating code verifier: %v", domain.ErrLoginFailed, err)
	}

	receiver := s.callbacks(state)
	if err := receiver.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting callback server: %v", domain.ErrLoginFailed, err)
	}
	defer func() {
		if err := receiver.Stop(); err != nil {
			logger.Warn("stopping callback server: %v", err)
		}
	}()

	redirectURI := receiver.RedirectURI()
	authURL := s.client.AuthCodeURL(state, verifier, redirectURI)
	if s.openBrowser != nil {
		if err := s.openBrowser(authURL); err != nil {
			logger.Warn("could not open browser: %v", err)
		}
	}

	code, err := receiver.WaitForCode(s.timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLoginFailed, err)
	}

	token, err := s.client.Exchange(ctx, code, verifier, redirectURI)
	if err != nil {
		return nil, fmt.Errorf("%w: exchanging code: %v", domain.ErrLoginFailed, err)
	}

	username, err := s.client.Username(ctx, *token)
	if err != nil {
		return nil, fmt.Errorf("%w: looking up account: %v", domain.ErrLoginFailed, err)
	}

	account := &domain.Account{Username: username, Token: *token}
	if err := s.save(ctx, account); err != nil {
		return nil, err
	}
	logger.Info("signed in as %s", username)
	return account, nil
}

// Logout forgets the stored account.
func (s *AuthService) Logout(ctx context.Context) error {
	for _, key := range []string{
		domain.SettingAccountToken,
		domain.SettingAccountUsername,
		domain.SettingAccountExpiry,
	} {
		if err := s.settings.Delete(ctx, key); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
	}
	return nil
}

// Current returns the stored account.
func (s *AuthService) Current(ctx context.Context) (*domain.Account, error) {
	token, ok, err := s.settings.Get(ctx, domain.SettingAccountToken)
	if err != nil {
		return nil, fmt.Errorf("read account: %w", err)
	}
	if !ok || token == "" {
		return nil, domain.ErrAuthRequired
	}

	account := &domain.Account{
		Token: domain.OAuthToken{AccessToken: token, TokenType: "Bearer"},
	}

	username, _, err := s.settings.Get(ctx, domain.SettingAccountUsername)
	if err != nil {
		return nil, fmt.Errorf("read account: %w", err)
	}
	account.Username = username

	expiry, ok, err := s.settings.Get(ctx, domain.SettingAccountExpiry)
	if err != nil {
		return nil, fmt.Errorf("read account: %w", err)
	}
	if ok {
		if t, err := time.Parse(time.RFC3339, expiry); err == nil {
			account.Token.Expiry = t
		}
	}

	return account, nil
}

// Refresh re-reads the account name for the stored token.
func (s *AuthService) Refresh(ctx context.Context) (*domain.Account, error) {
	account, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if account.Token.IsExpired() {
		return nil, fmt.Errorf("%w: token expired at %s", domain.ErrAuthRequired,
			account.Token.Expiry.Format(time.RFC3339))
	}
	if s.client == nil {
		return account, nil
	}

	username, err := s.client.Username(ctx, account.Token)
	if err != nil {
		return nil, fmt.Errorf("refresh account: %w", err)
	}
	if username != account.Username {
		if err := s.settings.Upsert(ctx, domain.SettingAccountUsername, username); err != nil {
			return nil, fmt.Errorf("save account: %w", err)
		}
		account.Username = username
	}
	return account, nil
}

// save writes the account settings.
func (s *AuthService) save(ctx context.Context, account *domain.Account) error {
	if err := s.settings.Upsert(ctx, domain.SettingAccountToken, account.Token.AccessToken); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	if err := s.settings.Upsert(ctx, domain.SettingAccountUsername, account.Username); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	var err error
	if account.Token.Expiry.IsZero() {
		err = s.settings.Delete(ctx, domain.SettingAccountExpiry)
	} else {
		err = s.settings.Upsert(ctx, domain.SettingAccountExpiry, account.Token.Expiry.UTC().Format(time.RFC3339))
	}
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}
