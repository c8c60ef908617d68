package migrations

import (
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// Migration is one named schema-change step.
type Migration struct {
	// Version is the zero-padded numeric prefix, e.g. "0002".
	Version string

	// Name is the descriptive part of the file name, e.g. "create_engines".
	Name string

	// Up applies the step.
	Up string

	// Down reverts the step. Empty if no down file exists.
	Down string
}

// ID returns "<version>_<name>".
func (m Migration) ID() string {
	return m.Version + "_" + m.Name
}

// Load reads the ordered migration list from fsys.
// Files must be named NNNN_name.up.sql with an optional NNNN_name.down.sql.
// Other files are ignored.
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		var stem string
		var up bool
		switch {
		case strings.HasSuffix(name, upSuffix):
			stem, up = strings.TrimSuffix(name, upSuffix), true
		case strings.HasSuffix(name, downSuffix):
			stem = strings.TrimSuffix(name, downSuffix)
		default:
			continue
		}

		version, label, err := splitStem(stem)
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", name, err)
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", name, err)
		}

		m, ok := byVersion[versionNumber(version)]
		if !ok {
			m = &Migration{Version: version, Name: label}
			byVersion[versionNumber(version)] = m
		} else if m.Name != label || m.Version != version {
			return nil, fmt.Errorf("migration %s: version %s already used by %s", name, version, m.ID())
		}

		if up {
			m.Up = string(content)
		} else {
			m.Down = string(content)
		}
	}

	result := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if strings.TrimSpace(m.Up) == "" {
			return nil, fmt.Errorf("migration %s: missing or empty up file", m.ID())
		}
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool {
		return versionNumber(result[i].Version) < versionNumber(result[j].Version)
	})

	return result, nil
}

// splitStem splits "0002_create_engines" into its version and name.
func splitStem(stem string) (string, string, error) {
	version, name, ok := strings.Cut(stem, "_")
	if !ok || version == "" || name == "" {
		return "", "", fmt.Errorf("expected NNNN_name, got %q", stem)
	}
	if _, err := strconv.Atoi(version); err != nil {
		return "", "", fmt.Errorf("version %q is not numeric", version)
	}
	return version, name, nil
}

func versionNumber(version string) int {
	n, _ := strconv.Atoi(version)
	return n
}
