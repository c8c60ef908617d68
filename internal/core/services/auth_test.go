package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/enginedesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/enginedesk/internal/core/domain"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driven"
)

// --- Mock implementations for auth testing ---

// mockAccountClient implements driven.AccountClient for testing.
type mockAccountClient struct {
	token       *domain.OAuthToken
	username    string
	exchangeErr error
	usernameErr error

	gotCode     string
	gotVerifier string
	gotState    string
}

func (m *mockAccountClient) AuthCodeURL(state, verifier, redirectURI string) string {
	m.gotState = state
	m.gotVerifier = verifier
	return "https://provider.test/oauth?state=" + state + "&redirect_uri=" + redirectURI
}

func (m *mockAccountClient) Exchange(_ context.Context, code, verifier, _ string) (*domain.OAuthToken, error) {
	if m.exchangeErr != nil {
		return nil, m.exchangeErr
	}
	m.gotCode = code
	if verifier != m.gotVerifier {
		return nil, errors.New("verifier mismatch")
	}
	return m.token, nil
}

func (m *mockAccountClient) Username(_ context.Context, _ domain.OAuthToken) (string, error) {
	if m.usernameErr != nil {
		return "", m.usernameErr
	}
	return m.username, nil
}

// mockReceiver implements driven.CallbackReceiver for testing.
type mockReceiver struct {
	code     string
	waitErr  error
	startErr error
	started  bool
	stopped  bool
}

func (m *mockReceiver) Start() error {
	m.started = true
	return m.startErr
}

func (m *mockReceiver) RedirectURI() string { return "http://localhost:9999/callback" }

func (m *mockReceiver) WaitForCode(_ time.Duration) (string, error) {
	if m.waitErr != nil {
		return "", m.waitErr
	}
	return m.code, nil
}

func (m *mockReceiver) Stop() error {
	m.stopped = true
	return nil
}

func receiverFactory(r *mockReceiver) driven.CallbackFactory {
	return func(string) driven.CallbackReceiver { return r }
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	settings := memory.NewSettingStore()
	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	client := &mockAccountClient{
		token:    &domain.OAuthToken{AccessToken: "tok-123", TokenType: "Bearer", Expiry: expiry},
		username: "magnus",
	}
	receiver := &mockReceiver{code: "auth-code"}

	var opened string
	opener := func(url string) error {
		opened = url
		return nil
	}

	service := NewAuthService(settings, client, receiverFactory(receiver), opener, time.Second)

	account, err := service.Login(ctx)
	require.NoError(t, err)
	assert.Equal(t, "magnus", account.Username)
	assert.Equal(t, "tok-123", account.Token.AccessToken)

	assert.True(t, receiver.started)
	assert.True(t, receiver.stopped)
	assert.Equal(t, "auth-code", client.gotCode)
	assert.True(t, strings.HasPrefix(opened, "https://provider.test/oauth?state="+client.gotState))

	current, err := service.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "magnus", current.Username)
	assert.Equal(t, "tok-123", current.Token.AccessToken)
	assert.True(t, expiry.Equal(current.Token.Expiry))
}

func TestAuthService_Login_NotConfigured(t *testing.T) {
	service := NewAuthService(memory.NewSettingStore(), nil, nil, nil, 0)

	_, err := service.Login(context.Background())
	assert.ErrorIs(t, err, domain.ErrLoginFailed)
}

func TestAuthService_Login_Failures(t *testing.T) {
	tests := []struct {
		name     string
		client   *mockAccountClient
		receiver *mockReceiver
	}{
		{
			name:     "Callback server fails to start",
			client:   &mockAccountClient{token: &domain.OAuthToken{AccessToken: "t"}},
			receiver: &mockReceiver{startErr: errors.New("address in use")},
		},
		{
			name:     "Callback times out",
			client:   &mockAccountClient{token: &domain.OAuthToken{AccessToken: "t"}},
			receiver: &mockReceiver{waitErr: errors.New("timeout waiting for authorization callback")},
		},
		{
			name:     "Exchange fails",
			client:   &mockAccountClient{exchangeErr: errors.New("invalid_grant")},
			receiver: &mockReceiver{code: "c"},
		},
		{
			name:     "Account lookup fails",
			client:   &mockAccountClient{token: &domain.OAuthToken{AccessToken: "t"}, usernameErr: errors.New("401")},
			receiver: &mockReceiver{code: "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			settings := memory.NewSettingStore()
			service := NewAuthService(settings, tt.client, receiverFactory(tt.receiver), nil, time.Second)

			_, err := service.Login(ctx)
			assert.ErrorIs(t, err, domain.ErrLoginFailed)

			_, err = service.Current(ctx)
			assert.ErrorIs(t, err, domain.ErrAuthRequired, "failed login must not store an account")
		})
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	settings := memory.NewSettingStore()
	client := &mockAccountClient{token: &domain.OAuthToken{AccessToken: "t"}, username: "u"}
	service := NewAuthService(settings, client, receiverFactory(&mockReceiver{code: "c"}), nil, time.Second)

	boom := errors.New("disk full")
	settings.FailWith(boom)

	_, err := service.Login(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	settings := memory.NewSettingStore()
	require.NoError(t, settings.Upsert(ctx, domain.SettingAccountToken, "tok"))
	require.NoError(t, settings.Upsert(ctx, domain.SettingAccountUsername, "magnus"))
	require.NoError(t, settings.Upsert(ctx, "theme", "dark"))

	service := NewAuthService(settings, nil, nil, nil, 0)
	require.NoError(t, service.Logout(ctx))

	_, err := service.Current(ctx)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	// Unrelated settings survive, and logging out twice is fine
	require.NoError(t, service.Logout(ctx))
	all, err := settings.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Setting{{Key: "theme", Value: "dark"}}, all)
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	settings := memory.NewSettingStore()
	require.NoError(t, settings.Upsert(ctx, domain.SettingAccountToken, "tok"))
	require.NoError(t, settings.Upsert(ctx, domain.SettingAccountUsername, "old-name"))

	client := &mockAccountClient{username: "new-name"}
	service := NewAuthService(settings, client, nil, nil, 0)

	account, err := service.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new-name", account.Username)

	stored, ok, err := settings.Get(ctx, domain.SettingAccountUsername)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new-name", stored)
}

func TestAuthService_Refresh_NotSignedIn(t *testing.T) {
	service := NewAuthService(memory.NewSettingStore(), &mockAccountClient{}, nil, nil, 0)

	_, err := service.Refresh(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestAuthService_Refresh_Expired(t *testing.T) {
	ctx := context.Background()
	settings := memory.NewSettingStore()
	require.NoError(t, settings.Upsert(ctx, domain.SettingAccountToken, "tok"))
	require.NoError(t, settings.Upsert(ctx, domain.SettingAccountExpiry,
		time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)))

	service := NewAuthService(settings, &mockAccountClient{username: "x"}, nil, nil, 0)

	_, err := service.Refresh(ctx)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}
