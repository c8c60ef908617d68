// Package sqlite provides the SQLite-based implementation of the store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. A single database file backs two stores:
//
//   - SettingStore: Key/value settings, overwritten in place on conflict
//   - EngineStore: Engine registry, first registration wins on conflict
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Open applies pending migrations before it returns the store, and records
// every applied version in the schema_migrations table.
//
// # Data Location
//
// By default, the database is stored at <data dir>/db.sqlite
//
// # Thread Safety
//
// A Store keeps no open connection. Every operation opens its own connection
// and closes it before returning, so one *Store may be used from any number of
// goroutines. SQLite in WAL mode with a busy timeout arbitrates concurrent
// writers; each statement is atomic, and there are no transactions spanning
// calls. Overlapping writes to one key are last-write-wins.
package sqlite
