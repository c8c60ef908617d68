package domain

import "time"

// DatabaseFileName is the fixed name of the store inside the data directory.
const DatabaseFileName = "db.sqlite"

// AppConfig is the resolved application configuration.
type AppConfig struct {
	// DataDir is the per-user data directory.
	DataDir string

	// DatabasePath is the store file, DataDir/DatabaseFileName unless overridden.
	DatabasePath string

	// EnginesDir is where installed engine binaries are copied to.
	EnginesDir string

	// LoginTimeout bounds how long the login flow waits for the browser callback.
	LoginTimeout time.Duration

	// CallbackPort is the first loopback port tried for the login redirect.
	CallbackPort int

	// OAuth is the login provider registration.
	OAuth OAuthConfig
}

// Default login provider values.
const (
	DefaultAuthURL      = "https://lichess.org/oauth"
	DefaultTokenURL     = "https://lichess.org/api/token"
	DefaultAccountURL   = "https://lichess.org/api/account"
	DefaultClientID     = "enginedesk"
	DefaultLoginTimeout = 5 * time.Minute
)

// DefaultScopes are requested when the config names none.
var DefaultScopes = []string{"preference:read"}
