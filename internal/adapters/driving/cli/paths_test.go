package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

func stubOpenPath(t *testing.T) *[]string {
	t.Helper()
	var opened []string
	original := openPath
	openPath = func(path string) error {
		opened = append(opened, path)
		return nil
	}
	t.Cleanup(func() { openPath = original })
	return &opened
}

func TestPathsCmd_JSON(t *testing.T) {
	dir := t.TempDir()

	out := run(t, dir, "paths", "--json")

	var got pathsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, dir, got.Data)
	assert.Equal(t, filepath.Join(dir, "config.toml"), got.Config)
	assert.Equal(t, filepath.Join(dir, "db.sqlite"), got.Database)
	assert.Equal(t, filepath.Join(dir, "engines"), got.Engines)
}

func TestPathsCmd_Table(t *testing.T) {
	dir := t.TempDir()

	out := run(t, dir, "paths")
	assert.Contains(t, out, "database")
	assert.Contains(t, out, filepath.Join(dir, "db.sqlite"))
}

func TestOpenCmd(t *testing.T) {
	dir := t.TempDir()
	opened := stubOpenPath(t)

	run(t, dir, "open")
	run(t, dir, "open", "database")

	assert.Equal(t, []string{dir, filepath.Join(dir, "db.sqlite")}, *opened)
}

func TestOpenCmd_MissingPath(t *testing.T) {
	opened := stubOpenPath(t)

	_, err := execute(t, "--data-dir", t.TempDir(), "open", "engines")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, *opened)
}
