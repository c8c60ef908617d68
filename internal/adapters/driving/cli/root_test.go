package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

func TestSetup_CreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")

	run(t, dir, "engine", "count")

	_, err := os.Stat(filepath.Join(dir, "db.sqlite"))
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "db.sqlite"), appConfig.DatabasePath)
}

func TestSetup_UnusableDataDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := execute(t, "--data-dir", blocker, "settings", "list")
	assert.ErrorIs(t, err, domain.ErrStorageSetup)
}

func TestSetup_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	config := "[login]\ntimeout = \"whenever\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(config), 0o600))

	_, err := execute(t, "--data-dir", dir, "settings", "list")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetup_DatabasePathFromConfig(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "elsewhere", "store.sqlite")
	config := "[storage]\ndatabase_path = '" + filepath.ToSlash(dbPath) + "'\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(config), 0o600))

	run(t, dir, "settings", "set", "theme", "dark")

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestSetup_DataDirFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ENGINEDESK_HOME", dir)

	_, err := execute(t, "settings", "set", "theme", "dark")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "db.sqlite"))
	assert.NoError(t, err)
}

func TestBrowse_RequiresTerminal(t *testing.T) {
	_, err := execute(t, "--data-dir", t.TempDir(), "browse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}
