package cli

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"github.com/subtally/subtally/internal/model"
)

// FormatAmount renders a money amount with its currency symbol where one
// is common, falling back to the ISO code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	symbols := map[string]string{
		"GBP": "£",
		"USD": "$",
		"EUR": "€",
		"UAH": "₴",
		"CAD": "C$",
		"AUD": "A$",
	}
	if symbol, ok := symbols[currency]; ok {
		return symbol + amount.StringFixed(2)
	}
	return amount.StringFixed(2) + " " + currency
}

// RenderSubscriptionTable renders subscriptions as an aligned table with a
// monthly-total footer.
func RenderSubscriptionTable(subs []model.Subscription) string {
	if len(subs) == 0 {
		return SubtleStyle.Render("No subscriptions yet.")
	}

	var b strings.Builder
	header := fmt.Sprintf("%-28s %12s %-9s %-14s %-16s %s",
		"NAME", "AMOUNT", "FREQ", "NEXT PAYMENT", "CATEGORY", "STATUS")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	total := decimal.Zero
	for _, s := range subs {
		status := SuccessStyle.Render("active")
		if !s.IsActive {
			status = SubtleStyle.Render("paused")
		}

		next := "-"
		if !s.NextPaymentDate.IsZero() {
			next = s.NextPaymentDate.Format("2006-01-02")
		}

		b.WriteString(fmt.Sprintf("%-28s %12s %-9s %-14s %-16s %s\n",
			truncate(s.Name, 28),
			FormatAmount(s.Amount, s.Currency),
			s.Frequency,
			next,
			truncate(s.CategoryName, 16),
			status))

		if s.IsActive {
			total = total.Add(s.MonthlyAmount())
		}
	}

	b.WriteString("\n")
	b.WriteString(BoldStyle.Render(fmt.Sprintf("Monthly total (active): %s", total.StringFixed(2))))
	return b.String()
}

// RenderCardTable renders payment cards as an aligned table.
func RenderCardTable(cards []model.PaymentCard) string {
	if len(cards) == 0 {
		return SubtleStyle.Render("No payment cards yet.")
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-24s %-12s %-8s %s", "NAME", "NETWORK", "LAST 4", "CURRENCY")))
	b.WriteString("\n")
	for _, c := range cards {
		b.WriteString(fmt.Sprintf("%-24s %-12s %-8s %s\n",
			truncate(c.Name, 24), c.Network, "•"+c.LastFour, c.Currency))
	}
	return b.String()
}

// RenderCategoryTable renders categories as an aligned table.
func RenderCategoryTable(categories []model.Category) string {
	if len(categories) == 0 {
		return SubtleStyle.Render("No categories yet.")
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-4s %-24s %s", "", "NAME", "ID")))
	b.WriteString("\n")
	for _, c := range categories {
		icon := c.Icon
		if icon == "" {
			icon = "•"
		}
		b.WriteString(fmt.Sprintf("%-4s %-24s %s\n", icon, truncate(c.Name, 24), SubtleStyle.Render(c.ID)))
	}
	return b.String()
}

// truncate shortens s to at most maxWidth display cells, never cutting
// through a multibyte rune.
func truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
