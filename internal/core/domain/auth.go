package domain

import "time"

// OAuthToken represents stored OAuth credentials.
type OAuthToken struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitempty"`
}

// IsExpired returns true if the token has expired.
func (t *OAuthToken) IsExpired() bool {
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().After(t.Expiry)
}

// Account is the remote account the user signed in with.
type Account struct {
	Username string
	Token    OAuthToken
}

// OAuthConfig holds the OAuth application registration used for login.
type OAuthConfig struct {
	ClientID   string
	AuthURL    string
	TokenURL   string
	AccountURL string
	Scopes     []string
}

// IsConfigured reports whether login can be attempted.
func (c OAuthConfig) IsConfigured() bool {
	return c.ClientID != "" && c.AuthURL != "" && c.TokenURL != ""
}
