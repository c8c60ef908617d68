package driving

import (
	"context"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

// Worker runs long workflows on a single background goroutine.
type Worker interface {
	// Start launches the worker goroutine. It returns immediately.
	Start(ctx context.Context) error

	// Stop stops accepting jobs and waits for the running job to finish.
	Stop() error

	// Submit queues a job. The returned channel receives exactly one result.
	Submit(job domain.Job) (<-chan domain.JobResult, error)
}
