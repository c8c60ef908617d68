package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/enginedesk/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/enginedesk/internal/core/domain"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driven"
	"github.com/custodia-labs/enginedesk/internal/logger"
)

// connParams is appended to the file path of every connection.
const connParams = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Store is a SQLite-backed storage for settings and the engine registry.
//
// A Store holds only the location of the database. Every operation opens
// its own connection and closes it before returning, so a *Store can be
// shared between goroutines without locking.
type Store struct {
	path       string
	dsn        string
	migrations fs.FS
}

// Option configures Open.
type Option func(*options)

type options struct {
	migrations fs.FS
}

// WithMigrations replaces the embedded migration files.
func WithMigrations(fsys fs.FS) Option {
	return func(o *options) {
		o.migrations = fsys
	}
}

// Open prepares the store at path and applies all pending migrations.
//
// Errors wrap domain.ErrStorageSetup when the location cannot be opened and
// domain.ErrMigrationFailed when a migration cannot be applied. Both are
// unrecoverable; the returned *Store is nil in that case.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	o := options{migrations: migrations.FS}
	for _, opt := range opts {
		opt(&o)
	}

	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", domain.ErrStorageSetup)
	}
	if strings.ContainsRune(path, 0) {
		return nil, fmt.Errorf("%w: database path %q is not a valid file name", domain.ErrStorageSetup, path)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %v", domain.ErrStorageSetup, err)
	}

	s := &Store{
		path:       path,
		dsn:        path + connParams,
		migrations: o.migrations,
	}

	migrator, err := NewMigrator(s.migrations)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMigrationFailed, err)
	}

	db, err := s.conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageSetup, err)
	}
	defer db.Close()

	applied, err := migrator.Up(ctx, db)
	if err != nil {
		return nil, err
	}
	for _, id := range applied {
		logger.Debug("applied migration %s to %s", id, path)
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SettingStore returns a SettingStore interface backed by this store.
func (s *Store) SettingStore() driven.SettingStore {
	return &settingStore{store: s}
}

// EngineStore returns an EngineStore interface backed by this store.
func (s *Store) EngineStore() driven.EngineStore {
	return &engineStore{store: s}
}

// MigrationStatus reports every known migration and whether it is applied.
func (s *Store) MigrationStatus(ctx context.Context) ([]MigrationState, error) {
	migrator, err := NewMigrator(s.migrations)
	if err != nil {
		return nil, err
	}

	var states []MigrationState
	err = s.withConn(ctx, func(db *sql.DB) error {
		var err error
		states, err = migrator.Status(ctx, db)
		return err
	})
	return states, err
}

// RevertLast reverts the most recently applied migration and returns its ID.
func (s *Store) RevertLast(ctx context.Context) (string, error) {
	migrator, err := NewMigrator(s.migrations)
	if err != nil {
		return "", err
	}

	var reverted string
	err = s.withConn(ctx, func(db *sql.DB) error {
		var err error
		reverted, err = migrator.Down(ctx, db)
		return err
	})
	return reverted, err
}

// conn opens a dedicated single-connection handle and verifies it.
func (s *Store) conn(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", s.path, err)
	}
	return db, nil
}

// withConn runs fn on a connection that lives only for this call.
func (s *Store) withConn(ctx context.Context, fn func(db *sql.DB) error) (err error) {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing database: %w", cerr)
		}
	}()

	return fn(db)
}

// ==================== Setting Store ====================

// settingStore implements driven.SettingStore.
type settingStore struct {
	store *Store
}

var _ driven.SettingStore = (*settingStore)(nil)

// Upsert inserts the setting or overwrites its value in a single statement.
func (s *settingStore) Upsert(ctx context.Context, key, value string) error {
	return s.store.withConn(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO settings (key, value)
			VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value)
		if err != nil {
			return fmt.Errorf("saving setting: %w", err)
		}
		return nil
	})
}

// Delete removes a setting.
func (s *settingStore) Delete(ctx context.Context, key string) error {
	return s.store.withConn(ctx, func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key); err != nil {
			return fmt.Errorf("deleting setting: %w", err)
		}
		return nil
	})
}

// Get retrieves a setting value.
func (s *settingStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	var found bool
	err := s.store.withConn(ctx, func(db *sql.DB) error {
		err := db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("getting setting: %w", err)
		}
		found = true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return value, found, nil
}

// List returns all settings.
func (s *settingStore) List(ctx context.Context) ([]domain.Setting, error) {
	var settings []domain.Setting
	err := s.store.withConn(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, "SELECT key, value FROM settings")
		if err != nil {
			return fmt.Errorf("querying settings: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var setting domain.Setting
			if err := rows.Scan(&setting.Key, &setting.Value); err != nil {
				return fmt.Errorf("scanning setting: %w", err)
			}
			settings = append(settings, setting)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// ==================== Engine Store ====================

// engineStore implements driven.EngineStore.
type engineStore struct {
	store *Store
}

var _ driven.EngineStore = (*engineStore)(nil)

// Add registers an engine, keeping any existing registration for the ID.
func (s *engineStore) Add(ctx context.Context, engineID, binaryLocation string) error {
	return s.store.withConn(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO engines (engine_id, binary_location)
			VALUES (?, ?)
			ON CONFLICT(engine_id) DO NOTHING
		`, engineID, binaryLocation)
		if err != nil {
			return fmt.Errorf("saving engine: %w", err)
		}
		return nil
	})
}

// Delete removes an engine.
func (s *engineStore) Delete(ctx context.Context, engineID string) error {
	return s.store.withConn(ctx, func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, "DELETE FROM engines WHERE engine_id = ?", engineID); err != nil {
			return fmt.Errorf("deleting engine: %w", err)
		}
		return nil
	})
}

// Path retrieves the binary location of an engine.
func (s *engineStore) Path(ctx context.Context, engineID string) (string, bool, error) {
	var path string
	var found bool
	err := s.store.withConn(ctx, func(db *sql.DB) error {
		err := db.QueryRowContext(ctx,
			"SELECT binary_location FROM engines WHERE engine_id = ?", engineID).Scan(&path)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("getting engine: %w", err)
		}
		found = true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return path, found, nil
}

// List returns all registered engines.
func (s *engineStore) List(ctx context.Context) ([]domain.Engine, error) {
	var engines []domain.Engine
	err := s.store.withConn(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, "SELECT engine_id, binary_location FROM engines")
		if err != nil {
			return fmt.Errorf("querying engines: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var engine domain.Engine
			if err := rows.Scan(&engine.ID, &engine.BinaryLocation); err != nil {
				return fmt.Errorf("scanning engine: %w", err)
			}
			engines = append(engines, engine)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating engines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return engines, nil
}

// Count returns the number of registered engines.
func (s *engineStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.store.withConn(ctx, func(db *sql.DB) error {
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM engines").Scan(&count); err != nil {
			return fmt.Errorf("counting engines: %w", err)
		}
		return nil
	})
	return count, err
}
