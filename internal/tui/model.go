// Package tui implements the interactive statement-import wizard.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/subtally/subtally/internal/common"
	"github.com/subtally/subtally/internal/importer"
	"github.com/subtally/subtally/internal/model"
	"github.com/subtally/subtally/internal/tui/themes"
)

// HistoryStore records completed imports locally.
type HistoryStore interface {
	RecordImport(ctx context.Context, jobID, fileName, currency string, result model.ImportResult) (int64, error)
}

// Config holds everything the wizard UI needs to run.
type Config struct {
	Wizard     *importer.Wizard
	History    HistoryStore
	Theme      themes.Theme
	CardID     string
	CategoryID string
	AutoUpload bool
}

// Model holds the wizard UI state. The import flow itself lives in the
// wizard; the model only tracks presentation concerns.
type Model struct {
	wizard        *importer.Wizard
	history       HistoryStore
	pollCancel    context.CancelFunc
	startedAt     time.Time
	theme         themes.Theme
	statusMsg     string
	cardID        string
	categoryID    string
	keymap        KeyMap
	spinner       spinner.Model
	currencyInput textinput.Model
	help          help.Model
	elapsed       time.Duration
	cursor        int
	width         int
	height        int
	busy          bool
	showHelp      bool
	quitting      bool
	autoUpload    bool
	editingField  bool
}

// NewModel creates the wizard UI model.
func NewModel(cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cfg.Theme.Selected

	ti := textinput.New()
	ti.CharLimit = 3
	ti.Width = 5
	ti.Prompt = "currency> "

	return Model{
		wizard:        cfg.Wizard,
		history:       cfg.History,
		theme:         cfg.Theme,
		cardID:        cfg.CardID,
		categoryID:    cfg.CategoryID,
		autoUpload:    cfg.AutoUpload,
		keymap:        DefaultKeyMap(),
		spinner:       sp,
		currencyInput: ti,
		help:          help.New(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.autoUpload && m.wizard.Step() == importer.StepUpload {
		path, opts, err := m.wizard.UploadRequest()
		if err != nil {
			return nil
		}
		return m.uploadStatement(path, opts)
	}
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.wizard.Step() != importer.StepProcessing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		if m.wizard.Step() != importer.StepProcessing {
			return m, nil
		}
		m.elapsed = time.Since(m.startedAt)
		return m, tick()

	case uploadDoneMsg:
		m.busy = false
		if err := m.wizard.ApplyUpload(msg.job, msg.err); err != nil {
			m.statusMsg = common.UserMessage(err)
			return m, nil
		}
		m.statusMsg = ""
		m.startedAt = time.Now()
		m.elapsed = 0

		ctx, cancel := context.WithCancel(context.Background())
		m.pollCancel = cancel
		m.busy = true
		return m, tea.Batch(m.awaitDetection(ctx), m.spinner.Tick, tick())

	case detectionDoneMsg:
		m.busy = false
		m.pollCancel = nil
		if msg.canceled {
			return m, tea.Quit
		}
		if err := m.wizard.ApplyDetection(msg.preview, msg.err); err != nil {
			// ApplyDetection already moved back to the upload step
			// with a user-facing error message.
			m.statusMsg = m.wizard.ErrorMessage()
			return m, nil
		}
		m.cursor = 0
		m.statusMsg = ""
		return m, nil

	case candidateToggledMsg:
		m.busy = false
		if err := m.wizard.ApplyToggle(msg.candidateID, msg.updated, msg.err); err != nil {
			m.statusMsg = common.UserMessage(err)
		}
		return m, nil

	case bulkToggledMsg:
		m.busy = false
		if err := m.wizard.ApplySetAll(msg.selected, msg.refreshed, msg.err); err != nil {
			m.statusMsg = common.UserMessage(err)
		}
		return m, nil

	case confirmDoneMsg:
		m.busy = false
		if err := m.wizard.ApplyConfirm(msg.result, msg.err); err != nil {
			m.statusMsg = common.UserMessage(err)
			return m, nil
		}
		m.statusMsg = ""
		return m, m.recordHistory()

	case historyRecordedMsg:
		if msg.err != nil {
			m.statusMsg = "import saved, but recording local history failed"
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		if m.pollCancel != nil {
			m.pollCancel()
			return m, nil
		}
		return m, tea.Quit
	}

	if m.editingField {
		return m.handleCurrencyEdit(msg)
	}

	if key.Matches(msg, m.keymap.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}

	if key.Matches(msg, m.keymap.Quit) {
		m.quitting = true
		if m.pollCancel != nil {
			// Cancel the in-flight poll; detectionDoneMsg quits once
			// the poller has stopped.
			m.pollCancel()
			return m, nil
		}
		return m, tea.Quit
	}

	if m.busy {
		return m, nil
	}

	switch m.wizard.Step() {
	case importer.StepUpload:
		return m.handleUploadKey(msg)
	case importer.StepPreview:
		return m.handlePreviewKey(msg)
	case importer.StepComplete:
		return m.handleCompleteKey(msg)
	case importer.StepProcessing:
		return m, nil
	}
	return m, nil
}

func (m Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Upload), key.Matches(msg, m.keymap.Retry):
		path, opts, err := m.wizard.UploadRequest()
		if err != nil {
			m.statusMsg = m.wizard.ErrorMessage()
			return m, nil
		}
		m.busy = true
		m.statusMsg = ""
		return m, m.uploadStatement(path, opts)

	case key.Matches(msg, m.keymap.EditCurrency):
		m.editingField = true
		m.currencyInput.SetValue(m.wizard.Currency())
		return m, m.currencyInput.Focus()
	}
	return m, nil
}

func (m Model) handleCurrencyEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := strings.ToUpper(strings.TrimSpace(m.currencyInput.Value()))
		if err := m.wizard.SetCurrency(value); err != nil {
			m.statusMsg = err.Error()
			return m, nil
		}
		m.statusMsg = ""
		m.editingField = false
		m.currencyInput.Blur()
		return m, nil

	case tea.KeyEsc:
		m.editingField = false
		m.currencyInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.currencyInput, cmd = m.currencyInput.Update(msg)
	return m, cmd
}

func (m Model) handleCompleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.Retry) {
		// Start over with the same statement file.
		file := m.wizard.FilePath()
		m.wizard.Reset()
		m.cursor = 0
		m.statusMsg = ""
		if err := m.wizard.SelectFile(file); err != nil {
			m.statusMsg = err.Error()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	candidates := m.candidates()

	switch {
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(candidates)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keymap.ToggleSelect):
		if m.cursor >= len(candidates) {
			return m, nil
		}
		current := candidates[m.cursor]
		if current.IsDuplicate() {
			m.statusMsg = "already tracked; duplicates cannot be imported"
			return m, nil
		}
		m.busy = true
		m.statusMsg = ""
		return m, m.toggleCandidate(current.ID, !current.IsSelected)

	case key.Matches(msg, m.keymap.SelectAll):
		ids := m.wizard.NonDuplicateIDs()
		if len(ids) == 0 {
			return m, nil
		}
		m.busy = true
		m.statusMsg = ""
		return m, m.setAllCandidates(ids, true)

	case key.Matches(msg, m.keymap.DeselectAll):
		ids := m.wizard.NonDuplicateIDs()
		if len(ids) == 0 {
			return m, nil
		}
		m.busy = true
		m.statusMsg = ""
		return m, m.setAllCandidates(ids, false)

	case key.Matches(msg, m.keymap.Confirm):
		if !m.wizard.CanConfirm() {
			m.statusMsg = "select at least one subscription to import"
			return m, nil
		}
		m.busy = true
		m.statusMsg = ""
		return m, m.confirmImport()
	}

	return m, nil
}

func (m Model) candidates() []model.DetectedCandidate {
	preview := m.wizard.Preview()
	if preview == nil {
		return nil
	}
	return preview.Detected
}
