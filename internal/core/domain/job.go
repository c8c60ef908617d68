package domain

import "time"

// JobKind identifies what a background job does.
type JobKind string

// Background job kinds.
const (
	// JobLogin runs the interactive OAuth login flow.
	JobLogin JobKind = "login"

	// JobInstallEngine copies an engine binary and registers it.
	JobInstallEngine JobKind = "install_engine"

	// JobRefreshAccount re-reads the signed-in account from the provider.
	JobRefreshAccount JobKind = "refresh_account"
)

// String returns the string representation.
func (k JobKind) String() string {
	return string(k)
}

// IsValid returns true if the job kind is recognised.
func (k JobKind) IsValid() bool {
	switch k {
	case JobLogin, JobInstallEngine, JobRefreshAccount:
		return true
	default:
		return false
	}
}

// Job is a unit of work for the background worker.
type Job struct {
	// ID is assigned by the worker on submission.
	ID string

	// Kind selects the workflow.
	Kind JobKind

	// Engine is the install source for JobInstallEngine.
	Engine EngineSource
}

// JobResult represents the outcome of a job execution.
type JobResult struct {
	// JobID identifies which job was run.
	JobID string

	// Kind is the job kind.
	Kind JobKind

	// StartedAt is when the job started.
	StartedAt time.Time

	// EndedAt is when the job completed.
	EndedAt time.Time

	// Err is nil on success.
	Err error

	// Detail is a short human-readable outcome, e.g. the installed path.
	Detail string
}

// Success indicates whether the job completed without error.
func (r JobResult) Success() bool {
	return r.Err == nil
}

// Duration returns how long the job ran.
func (r JobResult) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}
