// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The Worker runs the login and engine-install workflows on one
// background goroutine. It shares the same store handles as the
// foreground services; store failures inside a job are reported on
// the job result and never stop the worker.
package services
