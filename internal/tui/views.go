package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/subtally/subtally/internal/cli"
	"github.com/subtally/subtally/internal/importer"
	"github.com/subtally/subtally/internal/model"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.wizard.Step() {
	case importer.StepUpload:
		body = m.renderUpload()
	case importer.StepProcessing:
		body = m.renderProcessing()
	case importer.StepPreview:
		body = m.renderPreview()
	case importer.StepComplete:
		body = m.renderComplete()
	}

	sections := []string{
		m.theme.Title.Render("📄 Statement Import"),
		body,
	}

	if m.statusMsg != "" {
		sections = append(sections, m.theme.StatusWarning.Render(m.statusMsg))
	}

	if m.showHelp {
		sections = append(sections, m.help.FullHelpView(m.keymap.FullHelp()))
	} else {
		sections = append(sections, m.help.ShortHelpView(m.keymap.ShortHelp()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderUpload() string {
	var b strings.Builder

	b.WriteString(m.theme.Normal.Render("File: ") + m.theme.Bold.Render(m.wizard.FilePath()))
	b.WriteString("\n")
	if m.editingField {
		b.WriteString(m.currencyInput.View())
	} else {
		b.WriteString(m.theme.Normal.Render("Currency: ") + m.theme.Bold.Render(m.wizard.Currency()))
		b.WriteString(m.theme.Help.Render("  (e to change)"))
	}
	if m.wizard.BankID() != "" {
		b.WriteString("\n" + m.theme.Normal.Render("Bank: ") + m.theme.Bold.Render(m.wizard.BankID()))
	}

	if pf := m.wizard.Preflight(); pf != nil && pf.Supported {
		b.WriteString("\n\n")
		b.WriteString(m.theme.Muted.Render(fmt.Sprintf("%d transactions found in the statement", pf.TransactionCount)))
		if !pf.Start.IsZero() {
			b.WriteString(m.theme.Muted.Render(fmt.Sprintf(" (%s to %s)",
				pf.Start.Format("2006-01-02"), pf.End.Format("2006-01-02"))))
		}
	}

	b.WriteString("\n\n")
	if m.busy {
		b.WriteString(m.theme.StatusPending.Render("Uploading..."))
	} else {
		b.WriteString(m.theme.Help.Render("Press Enter to upload"))
	}

	return m.theme.BorderedBox.Render(b.String())
}

func (m Model) renderProcessing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(m.theme.Normal.Render(" Analyzing your statement..."))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Muted.Render(fmt.Sprintf("elapsed: %ds", int(m.elapsed.Seconds()))))
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("This usually takes under a minute. Press q to cancel."))

	return m.theme.BorderedBox.Render(b.String())
}

func (m Model) renderPreview() string {
	preview := m.wizard.Preview()
	if preview == nil {
		return m.theme.StatusPending.Render("Loading preview...")
	}

	var b strings.Builder
	b.WriteString(m.theme.Subtitle.Render("Detected subscriptions"))
	b.WriteString("\n")

	for i, candidate := range preview.Detected {
		b.WriteString(m.renderCandidate(i, candidate))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderSummary(preview.Summary))

	if m.busy {
		b.WriteString("\n" + m.theme.StatusPending.Render("Updating..."))
	}

	return b.String()
}

func (m Model) renderCandidate(index int, candidate model.DetectedCandidate) string {
	checkbox := "[ ]"
	if candidate.IsSelected {
		checkbox = "[x]"
	}

	band := string(candidate.ConfidenceBand())
	confidence := m.theme.ConfidenceStyle(band).Render(fmt.Sprintf("%3.0f%% %s", candidate.Confidence*100, band))

	line := fmt.Sprintf("%s %-24s %10s  %-8s %s",
		checkbox,
		truncateName(candidate.Name, 24),
		cli.FormatAmount(candidate.Amount, candidate.Currency),
		candidate.Frequency,
		confidence)

	if candidate.IsDuplicate() {
		line = m.theme.Muted.Render(fmt.Sprintf("[-] %-24s %10s  %-8s already tracked",
			truncateName(candidate.Name, 24),
			cli.FormatAmount(candidate.Amount, candidate.Currency),
			candidate.Frequency))
	}

	if index == m.cursor {
		return m.theme.Cursor.Render("> ") + line
	}
	return "  " + line
}

func (m Model) renderSummary(summary model.ImportSummary) string {
	parts := []string{
		fmt.Sprintf("%d detected", summary.TotalDetected),
		m.theme.Selected.Render(fmt.Sprintf("%d selected", summary.SelectedCount)),
	}
	if summary.DuplicateCount > 0 {
		parts = append(parts, m.theme.Muted.Render(fmt.Sprintf("%d duplicates", summary.DuplicateCount)))
	}
	parts = append(parts, fmt.Sprintf("≈ %s/month", summary.TotalMonthly.StringFixed(2)))

	return strings.Join(parts, "  ·  ")
}

func (m Model) renderComplete() string {
	result := m.wizard.Result()
	if result == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.StatusSuccess.Render("✓ Import complete"))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Normal.Render(fmt.Sprintf("Imported: %d", result.ImportedCount)))
	if result.SkippedCount > 0 {
		b.WriteString(m.theme.Normal.Render(fmt.Sprintf("   Skipped: %d", result.SkippedCount)))
	}
	if result.DuplicateCount > 0 {
		b.WriteString(m.theme.Muted.Render(fmt.Sprintf("   Duplicates: %d", result.DuplicateCount)))
	}
	b.WriteString("\n\n")
	b.WriteString(m.theme.Help.Render("Press r to import the statement again, q to exit"))

	return m.theme.BorderedBox.Render(b.String())
}

// truncateName shortens s to at most maxWidth display cells, never
// cutting through a multibyte rune.
func truncateName(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
