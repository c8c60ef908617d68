// Package paths resolves the per-user data directory.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvHome overrides the data directory.
const EnvHome = "ENGINEDESK_HOME"

// AppDirName is the directory created under the user config directory.
const AppDirName = "enginedesk"

// DataDir returns $ENGINEDESK_HOME if set, otherwise the enginedesk
// directory under the user config directory.
func DataDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return filepath.Clean(dir), nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config directory: %w", err)
	}
	return filepath.Join(base, AppDirName), nil
}
