package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/subtally/subtally/internal/cli"
	"github.com/subtally/subtally/internal/model"
)

// WriteICS writes subscription renewals as an iCalendar (RFC 5545) document
// for import into calendar apps that are not Google Calendar. Each active
// subscription with a known next payment date becomes one recurring all-day
// event.
func WriteICS(w io.Writer, subs []model.Subscription, now time.Time) error {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//subtally//renewal export//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")

	stamp := now.UTC().Format("20060102T150405Z")

	for _, sub := range subs {
		if !sub.IsActive || sub.NextPaymentDate.IsZero() {
			continue
		}

		summary := fmt.Sprintf("%s renewal (%s)", sub.Name, cli.FormatAmount(sub.Amount, sub.Currency))

		b.WriteString("BEGIN:VEVENT\r\n")
		b.WriteString("UID:" + sub.ID + "@subtally\r\n")
		b.WriteString("DTSTAMP:" + stamp + "\r\n")
		b.WriteString("DTSTART;VALUE=DATE:" + sub.NextPaymentDate.Format("20060102") + "\r\n")
		b.WriteString(foldLine("SUMMARY:" + escapeText(summary)))
		b.WriteString(foldLine(fmt.Sprintf("DESCRIPTION:%s", escapeText(fmt.Sprintf("Recurring %s payment tracked by subtally.", sub.Frequency)))))
		b.WriteString(RecurrenceRule(sub.Frequency) + "\r\n")
		b.WriteString("TRANSP:TRANSPARENT\r\n")
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

// escapeText escapes the characters RFC 5545 requires escaping in text values.
func escapeText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return r.Replace(s)
}

// foldLine folds a content line at 75 octets as RFC 5545 requires, using a
// space-prefixed continuation.
func foldLine(line string) string {
	const limit = 75
	if len(line) <= limit {
		return line + "\r\n"
	}

	var b strings.Builder
	for len(line) > limit {
		b.WriteString(line[:limit] + "\r\n ")
		line = line[limit:]
	}
	b.WriteString(line + "\r\n")
	return b.String()
}
