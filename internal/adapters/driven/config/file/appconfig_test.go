package file

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/enginedesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

func TestLoadAppConfig_Defaults(t *testing.T) {
	dataDir := filepath.Join("home", "user", ".config", "enginedesk")

	cfg, err := LoadAppConfig(memory.NewConfigStore(), dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dataDir, "db.sqlite"), cfg.DatabasePath)
	assert.Equal(t, filepath.Join(dataDir, "engines"), cfg.EnginesDir)
	assert.Equal(t, domain.DefaultLoginTimeout, cfg.LoginTimeout)
	assert.Zero(t, cfg.CallbackPort)
	assert.Equal(t, domain.DefaultClientID, cfg.OAuth.ClientID)
	assert.Equal(t, domain.DefaultAuthURL, cfg.OAuth.AuthURL)
	assert.Equal(t, domain.DefaultTokenURL, cfg.OAuth.TokenURL)
	assert.Equal(t, domain.DefaultAccountURL, cfg.OAuth.AccountURL)
	assert.Equal(t, domain.DefaultScopes, cfg.OAuth.Scopes)
	assert.True(t, cfg.OAuth.IsConfigured())
}

func TestLoadAppConfig_Overrides(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set(KeyDatabasePath, "/tmp/other.sqlite"))
	require.NoError(t, store.Set(KeyEnginesDir, "/opt/engines"))
	require.NoError(t, store.Set(KeyLoginTimeout, "90s"))
	require.NoError(t, store.Set(KeyCallbackPort, 50000))
	require.NoError(t, store.Set(KeyOAuthClientID, "my-app"))
	require.NoError(t, store.Set(KeyOAuthAuthURL, "https://auth.test/authorize"))
	require.NoError(t, store.Set(KeyOAuthTokenURL, "https://auth.test/token"))
	require.NoError(t, store.Set(KeyOAuthAccountURL, "https://auth.test/me"))
	require.NoError(t, store.Set(KeyOAuthScopes, []string{"a", "b"}))

	cfg, err := LoadAppConfig(store, "/data")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.sqlite", cfg.DatabasePath)
	assert.Equal(t, "/opt/engines", cfg.EnginesDir)
	assert.Equal(t, 90*time.Second, cfg.LoginTimeout)
	assert.Equal(t, 50000, cfg.CallbackPort)
	assert.Equal(t, domain.OAuthConfig{
		ClientID:   "my-app",
		AuthURL:    "https://auth.test/authorize",
		TokenURL:   "https://auth.test/token",
		AccountURL: "https://auth.test/me",
		Scopes:     []string{"a", "b"},
	}, cfg.OAuth)
}

func TestLoadAppConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "Unparseable timeout", key: KeyLoginTimeout, value: "soon"},
		{name: "Negative timeout", key: KeyLoginTimeout, value: "-1m"},
		{name: "Privileged port", key: KeyCallbackPort, value: 80},
		{name: "Port out of range", key: KeyCallbackPort, value: 70000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			require.NoError(t, store.Set(tt.key, tt.value))

			_, err := LoadAppConfig(store, "/data")
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
