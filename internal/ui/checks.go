package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CheckRow is one diagnostic line.
type CheckRow struct {
	Status     string // "pass", "warn" or "fail"
	Category   string
	Message    string
	Suggestion string // shown unless the check passed
}

// RenderChecks renders diagnostics grouped by category, in the order the
// categories first appear.
func RenderChecks(rows []CheckRow) string {
	if len(rows) == 0 {
		return "No checks to display\n"
	}

	successStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	headerStyle := DefaultTableStyle().Header

	categories := make(map[string][]CheckRow)
	var order []string
	for _, row := range rows {
		if _, exists := categories[row.Category]; !exists {
			order = append(order, row.Category)
		}
		categories[row.Category] = append(categories[row.Category], row)
	}

	var b strings.Builder
	for _, cat := range order {
		b.WriteString(headerStyle.Render(cat) + "\n")
		for _, row := range categories[cat] {
			var icon string
			switch row.Status {
			case "pass":
				icon = successStyle.Render(SymbolSuccess)
			case "warn":
				icon = warnStyle.Render(SymbolPending)
			case "fail":
				icon = errorStyle.Render(SymbolFail)
			default:
				icon = mutedStyle.Render(SymbolPending)
			}
			b.WriteString("  " + icon + " " + row.Message + "\n")
			if row.Suggestion != "" && row.Status != "pass" {
				b.WriteString("    " + mutedStyle.Render(row.Suggestion) + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
