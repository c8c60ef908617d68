package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/custodia-labs/enginedesk/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/enginedesk/internal/core/domain"
	"github.com/custodia-labs/enginedesk/internal/logger"
)

// ErrNothingToRevert is returned by Migrator.Down when no step is applied.
var ErrNothingToRevert = errors.New("no applied migration to revert")

// MigrationState describes one known migration step.
type MigrationState struct {
	Version   string
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Migrator applies the ordered migration list to a database.
// Applied steps are recorded in the schema_migrations table.
type Migrator struct {
	steps []migrations.Migration
}

// NewMigrator loads the migration steps from fsys.
func NewMigrator(fsys fs.FS) (*Migrator, error) {
	steps, err := migrations.Load(fsys)
	if err != nil {
		return nil, err
	}
	return &Migrator{steps: steps}, nil
}

// Steps returns the ordered migration steps.
func (m *Migrator) Steps() []migrations.Migration {
	return m.steps
}

// Up applies every pending step in order, each in its own write transaction,
// and returns the IDs of the steps it applied. A step that another process
// applied in the meantime is skipped.
// Errors wrap domain.ErrMigrationFailed.
func (m *Migrator) Up(ctx context.Context, db *sql.DB) ([]string, error) {
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMigrationFailed, err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMigrationFailed, err)
	}

	var done []string
	for _, step := range m.steps {
		if _, ok := applied[step.Version]; ok {
			continue
		}
		ran, err := applyStep(ctx, db, step)
		if err != nil {
			return done, fmt.Errorf("%w: %s: %v", domain.ErrMigrationFailed, step.ID(), err)
		}
		if ran {
			done = append(done, step.ID())
		}
	}

	return done, nil
}

// Status reports every known step and whether it has been applied.
func (m *Migrator) Status(ctx context.Context, db *sql.DB) ([]MigrationState, error) {
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return nil, err
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}

	states := make([]MigrationState, 0, len(m.steps))
	for _, step := range m.steps {
		state := MigrationState{Version: step.Version, Name: step.Name}
		if at, ok := applied[step.Version]; ok {
			state.Applied = true
			state.AppliedAt = at
		}
		states = append(states, state)
	}
	return states, nil
}

// Down reverts the most recently applied step and returns its ID.
func (m *Migrator) Down(ctx context.Context, db *sql.DB) (string, error) {
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return "", err
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return "", err
	}

	for i := len(m.steps) - 1; i >= 0; i-- {
		step := m.steps[i]
		if _, ok := applied[step.Version]; !ok {
			continue
		}
		if step.Down == "" {
			return "", fmt.Errorf("migration %s has no down step", step.ID())
		}

		err := inWriteTx(ctx, db, func(conn *sql.Conn) error {
			if _, err := conn.ExecContext(ctx, step.Down); err != nil {
				return err
			}
			_, err := conn.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = ?", step.Version)
			return err
		})
		if err != nil {
			return "", fmt.Errorf("reverting migration %s: %w", step.ID(), err)
		}
		return step.ID(), nil
	}

	return "", ErrNothingToRevert
}

// applyStep runs one step and records it in the same transaction.
// It reports false when the step was already recorded.
func applyStep(ctx context.Context, db *sql.DB, step migrations.Migration) (bool, error) {
	ran := false
	err := inWriteTx(ctx, db, func(conn *sql.Conn) error {
		var n int
		err := conn.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", step.Version).Scan(&n)
		if err != nil {
			return fmt.Errorf("checking schema_migrations: %w", err)
		}
		if n > 0 {
			return nil
		}

		if _, err := conn.ExecContext(ctx, step.Up); err != nil {
			return err
		}
		_, err = conn.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			step.Version, step.Name, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return err
		}
		ran = true
		return nil
	})
	return ran, err
}

// ensureMigrationsTable creates the applied-set table if needed.
func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY NOT NULL,
			name       TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}
	return nil
}

// appliedVersions loads the applied-set keyed by version.
func appliedVersions(ctx context.Context, db *sql.DB) (map[string]time.Time, error) {
	rows, err := db.QueryContext(ctx, "SELECT version, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("querying schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]time.Time)
	for rows.Next() {
		var version, at string
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("scanning schema_migrations: %w", err)
		}
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			logger.Warn("migration %s has unreadable applied_at %q: %v", version, at, err)
		}
		applied[version] = t
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schema_migrations: %w", err)
	}
	return applied, nil
}

// inWriteTx runs fn inside a BEGIN IMMEDIATE transaction, rolling back on
// error. The write lock is held from the first statement, so concurrent
// processes migrating the same file are serialised by busy_timeout.
func inWriteTx(ctx context.Context, db *sql.DB, fn func(conn *sql.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(conn); err != nil {
		_, _ = conn.ExecContext(context.WithoutCancel(ctx), "ROLLBACK")
		return err
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		_, _ = conn.ExecContext(context.WithoutCancel(ctx), "ROLLBACK")
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
