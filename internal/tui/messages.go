package tui

import "github.com/subtally/subtally/internal/model"

// Async operation messages. Commands only perform the network call and
// carry its result here; the wizard's state is advanced by Update when the
// message is applied, so all mutation stays on the event loop.

type uploadDoneMsg struct {
	job *model.ImportJob
	err error
}

type detectionDoneMsg struct {
	preview  *model.ImportPreview
	err      error
	canceled bool
}

type candidateToggledMsg struct {
	updated     *model.DetectedCandidate
	err         error
	candidateID string
}

type bulkToggledMsg struct {
	refreshed *model.ImportPreview
	err       error
	selected  bool
}

type confirmDoneMsg struct {
	result *model.ImportResult
	err    error
}

type historyRecordedMsg struct {
	err error
}

// tickMsg drives the elapsed-time display while a job is processing.
type tickMsg struct{}
