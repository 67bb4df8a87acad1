package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/subtally/subtally/internal/api"
)

// Commands run on goroutines bubbletea spawns, so they must not touch the
// wizard: every input is captured by value at dispatch time on the event
// loop, and the result travels back inside the message.

// uploadStatement submits the statement file and returns the queued job.
func (m Model) uploadStatement(filePath string, opts api.UploadOptions) tea.Cmd {
	svc := m.wizard.Service()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		job, err := svc.UploadStatement(ctx, filePath, opts)
		return uploadDoneMsg{job: job, err: err}
	}
}

// awaitDetection polls the job until it is ready and returns the preview.
// The context comes from the model so quitting can cancel a poll in flight.
func (m Model) awaitDetection(ctx context.Context) tea.Cmd {
	poller := m.wizard.Poller()
	jobID := m.wizard.JobID()
	return func() tea.Msg {
		preview, err := poller.Await(ctx, jobID)
		if errors.Is(err, context.Canceled) {
			return detectionDoneMsg{canceled: true}
		}
		return detectionDoneMsg{preview: preview, err: err}
	}
}

// toggleCandidate flips one candidate's selection on the server and
// returns the server-echoed object.
func (m Model) toggleCandidate(candidateID string, selected bool) tea.Cmd {
	svc := m.wizard.Service()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		updated, err := svc.UpdateDetected(ctx, candidateID, selected)
		return candidateToggledMsg{
			candidateID: candidateID,
			updated:     updated,
			err:         err,
		}
	}
}

// setAllCandidates bulk-toggles the given candidates and returns the
// authoritative preview re-fetch. A failed re-fetch is not an action
// failure; the message just carries no refreshed preview.
func (m Model) setAllCandidates(ids []string, selected bool) tea.Cmd {
	svc := m.wizard.Service()
	jobID := m.wizard.JobID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := svc.BulkUpdateDetected(ctx, ids, selected); err != nil {
			return bulkToggledMsg{selected: selected, err: err}
		}

		refreshed, err := svc.GetPreview(ctx, jobID)
		if err != nil {
			slog.Warn("Preview refresh after bulk update failed", "job_id", jobID, "error", err)
			refreshed = nil
		}
		return bulkToggledMsg{selected: selected, refreshed: refreshed}
	}
}

// confirmImport submits the selected candidates and returns the counters.
func (m Model) confirmImport() tea.Cmd {
	svc := m.wizard.Service()
	jobID := m.wizard.JobID()
	req := api.ConfirmRequest{
		SubscriptionIDs: m.wizard.SelectedIDs(),
		CardID:          m.cardID,
		CategoryID:      m.categoryID,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := svc.ConfirmImport(ctx, jobID, req)
		return confirmDoneMsg{result: result, err: err}
	}
}

// recordHistory saves the completed import into the local history store.
func (m Model) recordHistory() tea.Cmd {
	history := m.history
	result := m.wizard.Result()
	if history == nil || result == nil {
		return func() tea.Msg { return historyRecordedMsg{} }
	}

	jobID := m.wizard.JobID()
	fileName := m.wizard.FilePath()
	currency := m.wizard.Currency()
	snapshot := *result
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		_, err := history.RecordImport(ctx, jobID, fileName, currency, snapshot)
		return historyRecordedMsg{err: err}
	}
}

// tick schedules the next elapsed-time refresh while processing.
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}
