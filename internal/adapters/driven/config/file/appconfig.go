package file

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driven"
)

// Configuration keys understood by LoadAppConfig.
const (
	KeyDatabasePath    = "storage.database_path"
	KeyEnginesDir      = "engines.dir"
	KeyLoginTimeout    = "login.timeout"
	KeyCallbackPort    = "login.callback_port"
	KeyOAuthClientID   = "oauth.client_id"
	KeyOAuthAuthURL    = "oauth.auth_url"
	KeyOAuthTokenURL   = "oauth.token_url"
	KeyOAuthAccountURL = "oauth.account_url"
	KeyOAuthScopes     = "oauth.scopes"
)

// EnginesDirName is the default engines directory inside the data directory.
const EnginesDirName = "engines"

// LoadAppConfig resolves the application configuration for dataDir,
// filling anything the store does not set with defaults.
func LoadAppConfig(store driven.ConfigStore, dataDir string) (domain.AppConfig, error) {
	cfg := domain.AppConfig{
		DataDir:      dataDir,
		DatabasePath: filepath.Join(dataDir, domain.DatabaseFileName),
		EnginesDir:   filepath.Join(dataDir, EnginesDirName),
		LoginTimeout: domain.DefaultLoginTimeout,
		OAuth: domain.OAuthConfig{
			ClientID:   domain.DefaultClientID,
			AuthURL:    domain.DefaultAuthURL,
			TokenURL:   domain.DefaultTokenURL,
			AccountURL: domain.DefaultAccountURL,
			Scopes:     domain.DefaultScopes,
		},
	}

	if v := store.GetString(KeyDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := store.GetString(KeyEnginesDir); v != "" {
		cfg.EnginesDir = v
	}

	if v := store.GetString(KeyLoginTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return domain.AppConfig{}, fmt.Errorf("%w: %s = %q is not a positive duration",
				domain.ErrInvalidInput, KeyLoginTimeout, v)
		}
		cfg.LoginTimeout = d
	}

	if port := store.GetInt(KeyCallbackPort); port != 0 {
		if port < 1024 || port > 65535 {
			return domain.AppConfig{}, fmt.Errorf("%w: %s = %d is outside 1024-65535",
				domain.ErrInvalidInput, KeyCallbackPort, port)
		}
		cfg.CallbackPort = port
	}

	if v := store.GetString(KeyOAuthClientID); v != "" {
		cfg.OAuth.ClientID = v
	}
	if v := store.GetString(KeyOAuthAuthURL); v != "" {
		cfg.OAuth.AuthURL = v
	}
	if v := store.GetString(KeyOAuthTokenURL); v != "" {
		cfg.OAuth.TokenURL = v
	}
	if v := store.GetString(KeyOAuthAccountURL); v != "" {
		cfg.OAuth.AccountURL = v
	}
	if scopes := store.GetStringSlice(KeyOAuthScopes); len(scopes) > 0 {
		cfg.OAuth.Scopes = scopes
	}

	return cfg, nil
}
