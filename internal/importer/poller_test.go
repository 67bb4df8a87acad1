package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtally/subtally/internal/api"
	"github.com/subtally/subtally/internal/common"
	"github.com/subtally/subtally/internal/model"
)

func TestPoller_ReadyAfterSeveralPolls(t *testing.T) {
	mock := api.NewMockClient()
	mock.GetJobStatusFn = func(_ context.Context, jobID string) (*model.ImportJob, error) {
		if len(mock.StatusCalls) < 3 {
			return &model.ImportJob{ID: jobID, Status: model.JobProcessing}, nil
		}
		return &model.ImportJob{ID: jobID, Status: model.JobReady, IsReady: true}, nil
	}

	poller := NewPollerWithOptions(mock, time.Millisecond, 60)
	job, err := poller.Run(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.JobReady, job.Status)
	assert.Len(t, mock.StatusCalls, 3)
}

func TestPoller_StopsAtAttemptCeiling(t *testing.T) {
	mock := api.NewMockClient()
	mock.GetJobStatusFn = func(_ context.Context, jobID string) (*model.ImportJob, error) {
		return &model.ImportJob{ID: jobID, Status: model.JobProcessing}, nil
	}

	poller := NewPollerWithOptions(mock, time.Millisecond, 60)
	_, err := poller.Run(context.Background(), "job-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPollTimeout)
	assert.Len(t, mock.StatusCalls, 60, "exactly one status call per not-ready observation")
}

func TestPoller_JobFailure(t *testing.T) {
	mock := api.NewMockClient()
	mock.GetJobStatusFn = func(_ context.Context, jobID string) (*model.ImportJob, error) {
		return &model.ImportJob{
			ID:           jobID,
			Status:       model.JobFailed,
			ErrorMessage: "could not parse statement",
		}, nil
	}

	poller := NewPollerWithOptions(mock, time.Millisecond, 60)
	_, err := poller.Run(context.Background(), "job-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrJobFailed)
	assert.Contains(t, err.Error(), "could not parse statement")
	assert.Len(t, mock.StatusCalls, 1)
}

func TestPoller_TransportErrorsCountAsObservations(t *testing.T) {
	mock := api.NewMockClient()
	mock.GetJobStatusFn = func(_ context.Context, _ string) (*model.ImportJob, error) {
		return nil, errors.New("connection refused")
	}

	poller := NewPollerWithOptions(mock, time.Millisecond, 5)
	_, err := poller.Run(context.Background(), "job-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPollTimeout)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Len(t, mock.StatusCalls, 5)
}

func TestPoller_CancellationStopsPolling(t *testing.T) {
	mock := api.NewMockClient()
	ctx, cancel := context.WithCancel(context.Background())
	mock.GetJobStatusFn = func(_ context.Context, jobID string) (*model.ImportJob, error) {
		if len(mock.StatusCalls) == 2 {
			cancel()
		}
		return &model.ImportJob{ID: jobID, Status: model.JobProcessing}, nil
	}

	poller := NewPollerWithOptions(mock, time.Millisecond, 60)
	_, err := poller.Run(ctx, "job-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, len(mock.StatusCalls), 60, "cancellation must stop polling before the ceiling")
}
