package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Storage Errors.

	// ErrStorageSetup indicates the storage location could not be opened.
	// It is unrecoverable: no store operation can be correct without it.
	ErrStorageSetup = errors.New("storage setup failed")

	// ErrMigrationFailed indicates a pending schema migration could not be applied.
	// Startup must not continue on an unknown schema.
	ErrMigrationFailed = errors.New("schema migration failed")

	// Authentication Errors.

	// ErrAuthRequired indicates no account is signed in.
	ErrAuthRequired = errors.New("authentication required")

	// ErrLoginFailed indicates the login workflow did not complete.
	ErrLoginFailed = errors.New("login failed")

	// Worker Errors.

	// ErrWorkerStopped indicates the background worker is not accepting jobs.
	ErrWorkerStopped = errors.New("worker stopped")

	// ErrInstallFailed indicates an engine binary could not be installed.
	ErrInstallFailed = errors.New("engine install failed")
)
