package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/subtally/subtally/internal/api"
	"github.com/subtally/subtally/internal/common"
	"github.com/subtally/subtally/internal/model"
)

// Default polling parameters: one observation per second, bounded at a
// minute's worth of attempts.
const (
	DefaultPollInterval = time.Second
	DefaultMaxAttempts  = 60
)

// Poller watches a statement-analysis job until it settles. It is owned by
// the wizard's lifecycle: cancelling the context stops it deterministically,
// so no poll outlives a closed wizard.
type Poller struct {
	svc         api.ImportService
	interval    time.Duration
	maxAttempts int
}

// NewPoller creates a poller with the default interval and attempt ceiling.
func NewPoller(svc api.ImportService) *Poller {
	return &Poller{
		svc:         svc,
		interval:    DefaultPollInterval,
		maxAttempts: DefaultMaxAttempts,
	}
}

// NewPollerWithOptions creates a poller with explicit timing, for tests and
// callers that need different bounds.
func NewPollerWithOptions(svc api.ImportService, interval time.Duration, maxAttempts int) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Poller{svc: svc, interval: interval, maxAttempts: maxAttempts}
}

// Run polls the job until it is ready, fails, or the attempt ceiling is
// reached. A transport error counts as one observation; only the bounded
// loop itself retries. Returns the final job on success, ErrJobFailed when
// the backend reports failure, and ErrPollTimeout at the ceiling.
// Await polls the job until it is ready and then fetches its preview. It
// holds no state of its own, so it is safe to run off the event loop.
func (p *Poller) Await(ctx context.Context, jobID string) (*model.ImportPreview, error) {
	job, err := p.Run(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return p.svc.GetPreview(ctx, job.ID)
}

func (p *Poller) Run(ctx context.Context, jobID string) (*model.ImportJob, error) {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		job, err := p.svc.GetJobStatus(ctx, jobID)
		if err != nil {
			lastErr = err
			slog.Warn("Job status poll failed",
				"job_id", jobID,
				"attempt", attempt,
				"error", err)
			timer.Reset(p.interval)
			continue
		}

		switch job.Status {
		case model.JobReady:
			return job, nil
		case model.JobFailed:
			if job.ErrorMessage != "" {
				return job, fmt.Errorf("%w: %s", common.ErrJobFailed, job.ErrorMessage)
			}
			return job, common.ErrJobFailed
		case model.JobPending, model.JobProcessing:
			// Not ready yet; keep waiting.
		default:
			slog.Warn("Unknown job status", "job_id", jobID, "status", job.Status)
		}

		timer.Reset(p.interval)
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w after %d attempts: %v", common.ErrPollTimeout, p.maxAttempts, lastErr)
	}
	return nil, fmt.Errorf("%w after %d attempts", common.ErrPollTimeout, p.maxAttempts)
}
