package tui

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtally/subtally/internal/api"
	"github.com/subtally/subtally/internal/importer"
	"github.com/subtally/subtally/internal/model"
	"github.com/subtally/subtally/internal/tui/themes"
)

func testMock() *api.MockClient {
	mock := api.NewMockClient()
	mock.UploadStatementFn = func(_ context.Context, _ string, _ api.UploadOptions) (*model.ImportJob, error) {
		return &model.ImportJob{ID: "job-1", Status: model.JobPending}, nil
	}
	mock.GetJobStatusFn = func(_ context.Context, jobID string) (*model.ImportJob, error) {
		return &model.ImportJob{ID: jobID, Status: model.JobReady, IsReady: true}, nil
	}
	mock.GetPreviewFn = func(_ context.Context, _ string) (*model.ImportPreview, error) {
		return &model.ImportPreview{
			Detected: []model.DetectedCandidate{
				{ID: "c1", Name: "Netflix", Status: model.CandidateNew, IsSelected: true, Confidence: 0.93},
				{ID: "c2", Name: "Spotify", Status: model.CandidateNew, IsSelected: false, Confidence: 0.61},
				{ID: "c3", Name: "Netflix", Status: model.CandidateDuplicate, IsSelected: false, Confidence: 0.95},
			},
			Summary: model.ImportSummary{
				TotalDetected:  3,
				SelectedCount:  1,
				DuplicateCount: 1,
				TotalMonthly:   decimal.RequireFromString("15.99"),
			},
		}, nil
	}
	return mock
}

func testWizard(t *testing.T, mock *api.MockClient) *importer.Wizard {
	t.Helper()

	poller := importer.NewPollerWithOptions(mock, time.Millisecond, 60)
	w := importer.NewWizardWithPoller(mock, poller)
	require.NoError(t, w.SelectFile("statement.csv"))
	return w
}

// previewModel returns a model whose wizard already holds a loaded preview.
func previewModel(t *testing.T, mock *api.MockClient) Model {
	t.Helper()

	w := testWizard(t, mock)
	require.NoError(t, w.Upload(context.Background()))
	require.NoError(t, w.AwaitDetection(context.Background()))
	require.Equal(t, importer.StepPreview, w.Step())

	return NewModel(Config{Wizard: w, Theme: themes.Default})
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestUploadKeyStartsUpload(t *testing.T) {
	mock := testMock()
	m := NewModel(Config{Wizard: testWizard(t, mock), Theme: themes.Default})

	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(Model)
	assert.True(t, m.busy)
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(uploadDoneMsg)
	require.True(t, ok)
	assert.NoError(t, done.err)
	assert.Len(t, mock.UploadCalls, 1)
	assert.Equal(t, importer.StepUpload, m.wizard.Step(),
		"the command only talks to the backend; the step advances on the event loop")

	updated, _ = m.Update(done)
	m = updated.(Model)
	assert.Equal(t, importer.StepProcessing, m.wizard.Step())
}

func TestUploadDoneStartsPolling(t *testing.T) {
	mock := testMock()
	m := NewModel(Config{Wizard: testWizard(t, mock), Theme: themes.Default})

	job := &model.ImportJob{ID: "job-1", Status: model.JobPending}
	updated, cmd := m.Update(uploadDoneMsg{job: job})
	m = updated.(Model)

	assert.True(t, m.busy)
	assert.NotNil(t, m.pollCancel)
	assert.NotNil(t, cmd)
	assert.Equal(t, importer.StepProcessing, m.wizard.Step())
	assert.Equal(t, "job-1", m.wizard.JobID())
}

func TestUploadDoneWithErrorShowsMessage(t *testing.T) {
	mock := testMock()
	m := NewModel(Config{Wizard: testWizard(t, mock), Theme: themes.Default})

	updated, cmd := m.Update(uploadDoneMsg{err: errors.New("upload failed")})
	m = updated.(Model)

	assert.False(t, m.busy)
	assert.Nil(t, cmd)
	assert.NotEmpty(t, m.statusMsg)
}

func TestEditCurrencyUpdatesWizard(t *testing.T) {
	mock := testMock()
	m := NewModel(Config{Wizard: testWizard(t, mock), Theme: themes.Default})

	updated, _ := m.Update(keyMsg("e"))
	m = updated.(Model)
	assert.True(t, m.editingField)

	m.currencyInput.SetValue("usd")
	updated, _ = m.Update(keyMsg("enter"))
	m = updated.(Model)

	assert.False(t, m.editingField)
	assert.Equal(t, "USD", m.wizard.Currency())
}

func TestEditCurrencyRejectsUnknownCode(t *testing.T) {
	mock := testMock()
	m := NewModel(Config{Wizard: testWizard(t, mock), Theme: themes.Default})

	updated, _ := m.Update(keyMsg("e"))
	m = updated.(Model)

	m.currencyInput.SetValue("ZZZ")
	updated, _ = m.Update(keyMsg("enter"))
	m = updated.(Model)

	assert.True(t, m.editingField, "stays in edit mode on a bad code")
	assert.NotEmpty(t, m.statusMsg)
	assert.NotEqual(t, "ZZZ", m.wizard.Currency())
}

func TestDetectionDoneResetsCursor(t *testing.T) {
	m := previewModel(t, testMock())
	m.cursor = 2

	updated, _ := m.Update(detectionDoneMsg{preview: m.wizard.Preview()})
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestPreviewCursorMovement(t *testing.T) {
	m := previewModel(t, testMock())

	// Down moves, clamped at the last candidate.
	for i := 0; i < 5; i++ {
		updated, _ := m.Update(keyMsg("j"))
		m = updated.(Model)
	}
	assert.Equal(t, 2, m.cursor)

	updated, _ := m.Update(keyMsg("k"))
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor)
}

func TestToggleOnDuplicateIsRejectedLocally(t *testing.T) {
	mock := testMock()
	m := previewModel(t, mock)
	m.cursor = 2 // duplicate candidate

	updated, cmd := m.Update(keyMsg("x"))
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.False(t, m.busy)
	assert.NotEmpty(t, m.statusMsg)
	assert.Empty(t, mock.UpdateCalls)
}

func TestToggleDispatchesServerUpdate(t *testing.T) {
	mock := testMock()
	m := previewModel(t, mock)
	m.cursor = 1

	updated, cmd := m.Update(keyMsg("x"))
	m = updated.(Model)
	assert.True(t, m.busy)
	require.NotNil(t, cmd)

	msg := cmd()
	toggled, ok := msg.(candidateToggledMsg)
	require.True(t, ok)
	assert.NoError(t, toggled.err)
	assert.Equal(t, "c2", toggled.candidateID)
	require.Len(t, mock.UpdateCalls, 1)
	assert.Equal(t, "c2", mock.UpdateCalls[0].CandidateID)
	assert.True(t, mock.UpdateCalls[0].Selected)
	assert.False(t, m.wizard.Preview().Detected[1].IsSelected,
		"local state changes only when the message is applied")

	updated, _ = m.Update(toggled)
	m = updated.(Model)
	assert.True(t, m.wizard.Preview().Detected[1].IsSelected)
}

func TestSelectAllDispatchesBulkUpdate(t *testing.T) {
	mock := testMock()
	m := previewModel(t, mock)

	updated, cmd := m.Update(keyMsg("a"))
	m = updated.(Model)
	assert.True(t, m.busy)
	require.NotNil(t, cmd)

	msg := cmd()
	bulk, ok := msg.(bulkToggledMsg)
	require.True(t, ok)
	assert.NoError(t, bulk.err)
	assert.True(t, bulk.selected)
	require.Len(t, mock.BulkUpdateCalls, 1)
	assert.ElementsMatch(t, []string{"c1", "c2"}, mock.BulkUpdateCalls[0].CandidateIDs)
	require.NotNil(t, bulk.refreshed, "bulk mutation is followed by an authoritative re-fetch")

	updated, _ = m.Update(bulk)
	m = updated.(Model)
	assert.Equal(t, 1, m.wizard.Preview().Summary.SelectedCount,
		"the re-fetched preview is authoritative")
}

func TestConfirmRequiresSelection(t *testing.T) {
	mock := testMock()
	mock.GetPreviewFn = func(_ context.Context, _ string) (*model.ImportPreview, error) {
		return &model.ImportPreview{
			Detected: []model.DetectedCandidate{
				{ID: "c1", Name: "Netflix", Status: model.CandidateNew, IsSelected: false},
			},
		}, nil
	}
	m := previewModel(t, mock)

	updated, cmd := m.Update(keyMsg("c"))
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.NotEmpty(t, m.statusMsg)
	assert.Empty(t, mock.ConfirmCalls)
}

func TestConfirmDispatchesImport(t *testing.T) {
	mock := testMock()
	mock.ConfirmImportFn = func(_ context.Context, _ string, _ api.ConfirmRequest) (*model.ImportResult, error) {
		return &model.ImportResult{ImportedCount: 1, DuplicateCount: 1}, nil
	}
	m := previewModel(t, mock)

	updated, cmd := m.Update(keyMsg("c"))
	m = updated.(Model)
	assert.True(t, m.busy)
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(confirmDoneMsg)
	require.True(t, ok)
	assert.NoError(t, done.err)
	require.NotNil(t, done.result)
	assert.Equal(t, 1, done.result.ImportedCount)
	assert.Equal(t, importer.StepPreview, m.wizard.Step(),
		"the step advances only once the result is applied")

	updated, _ = m.Update(done)
	m = updated.(Model)
	assert.Equal(t, importer.StepComplete, m.wizard.Step())
}

func TestQuitDuringPollCancelsFirst(t *testing.T) {
	m := previewModel(t, testMock())

	canceled := false
	m.pollCancel = func() { canceled = true }

	updated, cmd := m.Update(keyMsg("q"))
	m = updated.(Model)

	assert.True(t, canceled)
	assert.Nil(t, cmd, "quit waits for the poll to acknowledge cancellation")

	// The canceled poll result then quits the program.
	updated, cmd = m.Update(detectionDoneMsg{canceled: true})
	_ = updated
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestBusyModelIgnoresStepKeys(t *testing.T) {
	mock := testMock()
	m := previewModel(t, mock)
	m.busy = true

	updated, cmd := m.Update(keyMsg("a"))
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.Empty(t, mock.BulkUpdateCalls)
}

func TestViewRendersPreview(t *testing.T) {
	m := previewModel(t, testMock())

	out := m.View()
	assert.Contains(t, out, "Netflix")
	assert.Contains(t, out, "Spotify")
	assert.Contains(t, out, "already tracked")
	assert.Contains(t, out, "1 selected")
	assert.Contains(t, out, "15.99")
}

func TestViewRendersComplete(t *testing.T) {
	mock := testMock()
	mock.ConfirmImportFn = func(_ context.Context, _ string, _ api.ConfirmRequest) (*model.ImportResult, error) {
		return &model.ImportResult{ImportedCount: 2, DuplicateCount: 1}, nil
	}
	m := previewModel(t, mock)
	require.NoError(t, m.wizard.Confirm(context.Background(), "", ""))

	out := m.View()
	assert.Contains(t, out, "Import complete")
	assert.Contains(t, out, "Imported: 2")
}

// TestPollRunsOffTheEventLoop drives the detection command on its own
// goroutine while the event loop keeps ticking and rendering, the way
// bubbletea schedules them. Under -race this fails if the command
// touches the wizard directly instead of reporting through its message.
func TestPollRunsOffTheEventLoop(t *testing.T) {
	mock := testMock()
	var polls atomic.Int32
	mock.GetJobStatusFn = func(_ context.Context, jobID string) (*model.ImportJob, error) {
		if polls.Add(1) < 10 {
			return &model.ImportJob{ID: jobID, Status: model.JobProcessing}, nil
		}
		return &model.ImportJob{ID: jobID, Status: model.JobReady, IsReady: true}, nil
	}

	m := NewModel(Config{Wizard: testWizard(t, mock), Theme: themes.Default})
	updated, _ := m.Update(uploadDoneMsg{job: &model.ImportJob{ID: "job-1", Status: model.JobPending}})
	m = updated.(Model)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd := m.awaitDetection(ctx)

	results := make(chan tea.Msg, 1)
	go func() { results <- cmd() }()

	for polls.Load() < 10 {
		_ = m.View()
		updated, _ = m.Update(tickMsg{})
		m = updated.(Model)
		time.Sleep(100 * time.Microsecond)
	}

	msg := <-results
	done, ok := msg.(detectionDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	require.NotNil(t, done.preview)

	assert.Equal(t, importer.StepProcessing, m.wizard.Step(),
		"the preview lands only when the message is applied")
	updated, _ = m.Update(done)
	m = updated.(Model)
	assert.Equal(t, importer.StepPreview, m.wizard.Step())
}

func TestTruncateNameMultibyte(t *testing.T) {
	assert.Equal(t, "Яндекс Плюс", truncateName("Яндекс Плюс", 24))

	got := truncateName("Яндекс Плюс Премиум Максимум", 24)
	assert.True(t, utf8.ValidString(got), "must never cut through a rune")
	assert.LessOrEqual(t, runewidth.StringWidth(got), 24)
}
