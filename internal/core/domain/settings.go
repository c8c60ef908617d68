package domain

// Setting is a named string configuration value.
type Setting struct {
	Key   string
	Value string
}

// Well-known setting keys written by the login workflow.
//
//nolint:gosec // G101: These are setting key names, not actual credentials.
const (
	SettingAccountToken    = "account.token"
	SettingAccountUsername = "account.username"
	SettingAccountExpiry   = "account.expiry"
)

// SettingsMap converts a settings list into a key/value map.
// Later entries win if the list contains a key twice.
func SettingsMap(settings []Setting) map[string]string {
	m := make(map[string]string, len(settings))
	for _, s := range settings {
		m[s.Key] = s.Value
	}
	return m
}
