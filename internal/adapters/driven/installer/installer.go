// Package installer copies engine binaries into the engines directory.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/copy"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driven"
)

// Ensure Installer implements the interface.
var _ driven.EngineInstaller = (*Installer)(nil)

// Installer places each engine at <dir>/<engine id>/<binary name>.
type Installer struct {
	dir string
}

// New creates an installer rooted at dir.
func New(dir string) *Installer {
	return &Installer{dir: dir}
}

// Dir returns the engines directory.
func (i *Installer) Dir() string {
	return i.dir
}

// Install copies the source binary and makes it executable.
// Returns the installed location.
func (i *Installer) Install(ctx context.Context, source domain.EngineSource) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if i.dir == "" {
		return "", fmt.Errorf("%w: engines directory not configured", domain.ErrInstallFailed)
	}
	if source.ID == "" || source.ID == "." || source.ID == ".." ||
		strings.ContainsAny(source.ID, `/\`) {
		return "", fmt.Errorf("%w: engine id %q cannot be used as a directory name", domain.ErrInvalidInput, source.ID)
	}

	info, err := os.Stat(source.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInstallFailed, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", domain.ErrInstallFailed, source.Path)
	}

	target := filepath.Join(i.dir, source.ID, filepath.Base(source.Path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("%w: creating engine directory: %v", domain.ErrInstallFailed, err)
	}

	err = copy.Copy(source.Path, target, copy.Options{
		PermissionControl: copy.AddPermission(0o755),
		Sync:              true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: copying %s: %v", domain.ErrInstallFailed, source.Path, err)
	}

	return target, nil
}
