// Package chat implements the assistant conversation loop and the
// lightweight markdown rendering used for assistant replies.
package chat

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Assistant replies arrive as markdown-ish plain text. Rather than pull in a
// full markdown engine we highlight the handful of constructs the backend
// actually emits: headings, bold, italics, inline code, and bullet lists.
var (
	headingRegex    = regexp.MustCompile(`^(#{1,3})\s+(.+)$`)
	boldRegex       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRegex     = regexp.MustCompile(`\*([^*]+)\*`)
	inlineCodeRegex = regexp.MustCompile("`([^`]+)`")
	bulletRegex     = regexp.MustCompile(`^(\s*)[-*]\s+(.+)$`)

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
	italicStyle  = lipgloss.NewStyle().Italic(true)
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	bulletStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5CF6"))
)

// RenderMarkdown highlights markdown constructs in assistant output for
// terminal display. Unknown constructs pass through unchanged.
func RenderMarkdown(content string) string {
	lines := strings.Split(content, "\n")
	rendered := make([]string, 0, len(lines))

	for _, line := range lines {
		if m := headingRegex.FindStringSubmatch(line); m != nil {
			rendered = append(rendered, headingStyle.Render(m[2]))
			continue
		}
		if m := bulletRegex.FindStringSubmatch(line); m != nil {
			line = m[1] + bulletStyle.Render("•") + " " + renderInline(m[2])
			rendered = append(rendered, line)
			continue
		}
		rendered = append(rendered, renderInline(line))
	}

	return strings.Join(rendered, "\n")
}

func renderInline(line string) string {
	line = inlineCodeRegex.ReplaceAllStringFunc(line, func(match string) string {
		return codeStyle.Render(inlineCodeRegex.FindStringSubmatch(match)[1])
	})
	// Bold before italic so ** is not consumed as two italic markers.
	line = boldRegex.ReplaceAllStringFunc(line, func(match string) string {
		return boldStyle.Render(boldRegex.FindStringSubmatch(match)[1])
	})
	line = italicRegex.ReplaceAllStringFunc(line, func(match string) string {
		return italicStyle.Render(italicRegex.FindStringSubmatch(match)[1])
	})
	return line
}
