package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Executes(t *testing.T) {
	// Save and restore version
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "enginedesk version test-version-1.0.0")
}

func TestVersionCmd_DoesNotOpenStore(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "never-created")

	_, err := execute(t, "--data-dir", dataDir, "version")
	require.NoError(t, err)

	_, err = os.Stat(dataDir)
	assert.True(t, os.IsNotExist(err))
}
