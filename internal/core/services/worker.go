package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/enginedesk/internal/core/domain"
	"github.com/custodia-labs/enginedesk/internal/core/ports/driving"
	"github.com/custodia-labs/enginedesk/internal/logger"
)

// DefaultQueueSize is the number of jobs that may wait for the worker.
const DefaultQueueSize = 16

// Ensure Worker implements the interface.
var _ driving.Worker = (*Worker)(nil)

type queuedJob struct {
	job    domain.Job
	result chan domain.JobResult
}

// Worker runs login and engine-install jobs on one background goroutine.
// It shares the stores with the foreground through the services it wraps.
type Worker struct {
	auth    driving.AuthService
	engines driving.EngineService

	queue chan queuedJob

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewWorker creates a worker. Call Start before submitting jobs.
func NewWorker(auth driving.AuthService, engines driving.EngineService) *Worker {
	return &Worker{
		auth:    auth,
		engines: engines,
		queue:   make(chan queuedJob, DefaultQueueSize),
	}
}

// Start launches the worker goroutine and returns immediately.
// If an account is stored, a refresh of it is queued first.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.wg.Add(1)
	go w.run(ctx)
	w.mu.Unlock()

	if w.auth != nil {
		if _, err := w.auth.Current(ctx); err == nil {
			if _, err := w.Submit(domain.Job{Kind: domain.JobRefreshAccount}); err != nil {
				logger.Warn("worker: queueing account refresh: %v", err)
			}
		} else if !errors.Is(err, domain.ErrAuthRequired) {
			logger.Warn("worker: reading stored account: %v", err)
		}
	}

	return nil
}

// Stop stops accepting jobs and waits for the running job to finish.
// Jobs still queued receive domain.ErrWorkerStopped.
func (w *Worker) Stop() error {
	w.shutdown()
	w.wg.Wait()
	return nil
}

// Submit queues a job. The returned channel receives exactly one result.
func (w *Worker) Submit(job domain.Job) (<-chan domain.JobResult, error) {
	if !job.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown job kind %q", domain.ErrInvalidInput, job.Kind)
	}
	job.ID = uuid.New().String()
	result := make(chan domain.JobResult, 1)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return nil, domain.ErrWorkerStopped
	}

	select {
	case w.queue <- queuedJob{job: job, result: result}:
		logger.Debug("worker: queued %s job %s", job.Kind, job.ID)
		return result, nil
	default:
		return nil, fmt.Errorf("worker queue full (%d jobs pending)", cap(w.queue))
	}
}

// shutdown marks the worker stopped. Safe to call more than once.
func (w *Worker) shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
}

// run is the worker loop.
func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			w.shutdown()
			w.drain()
			return
		case <-w.stopCh:
			w.drain()
			return
		case q := <-w.queue:
			q.result <- w.execute(ctx, q.job)
		}
	}
}

// drain rejects every job still waiting in the queue.
func (w *Worker) drain() {
	for {
		select {
		case q := <-w.queue:
			now := time.Now()
			q.result <- domain.JobResult{
				JobID:     q.job.ID,
				Kind:      q.job.Kind,
				StartedAt: now,
				EndedAt:   now,
				Err:       domain.ErrWorkerStopped,
			}
		default:
			return
		}
	}
}

// execute runs one job. Failures are logged and reported on the result.
func (w *Worker) execute(ctx context.Context, job domain.Job) domain.JobResult {
	result := domain.JobResult{
		JobID:     job.ID,
		Kind:      job.Kind,
		StartedAt: time.Now(),
	}

	result.Detail, result.Err = w.dispatch(ctx, job)
	result.EndedAt = time.Now()

	if result.Err != nil {
		logger.Error("worker: %s job %s failed: %v", job.Kind, job.ID, result.Err)
	} else {
		logger.Debug("worker: %s job %s done in %s", job.Kind, job.ID, result.Duration())
	}
	return result
}

func (w *Worker) dispatch(ctx context.Context, job domain.Job) (string, error) {
	switch job.Kind {
	case domain.JobLogin:
		if w.auth == nil {
			return "", fmt.Errorf("%w: no auth service", domain.ErrLoginFailed)
		}
		account, err := w.auth.Login(ctx)
		if err != nil {
			return "", err
		}
		return account.Username, nil

	case domain.JobRefreshAccount:
		if w.auth == nil {
			return "", domain.ErrAuthRequired
		}
		account, err := w.auth.Refresh(ctx)
		if err != nil {
			return "", err
		}
		return account.Username, nil

	case domain.JobInstallEngine:
		if w.engines == nil {
			return "", fmt.Errorf("%w: no engine service", domain.ErrInstallFailed)
		}
		return w.engines.Install(ctx, job.Engine)

	default:
		return "", fmt.Errorf("%w: unknown job kind %q", domain.ErrInvalidInput, job.Kind)
	}
}
