package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/statgrid/internal/widget"
)

// Cards narrower or shorter than this only show their title.
const (
	cardMinWidth  = 8
	cardMinHeight = 4
)

// renderCard draws one widget at its container size: the plot followed by a
// status line, or a placeholder until the first graph arrives.
func (m *Model) renderCard(w *widget.Controller, selected bool) string {
	r := w.Container().Rect()
	style := CardStyle
	switch {
	case selected:
		style = CardSelectedStyle
	case w.Failure() != nil:
		style = CardFailedStyle
	}
	style = style.Width(r.W - 2).Height(r.H - 2).MaxHeight(r.H)

	inner := r.W - 4
	rows := r.H - 2
	if r.W < cardMinWidth || r.H < cardMinHeight {
		return style.Render(truncateWithEllipsis(w.Metric().Name, max(0, inner)))
	}

	var body string
	if h, ok := w.Handle(); ok {
		plot := m.engine.View(h)
		body = lipgloss.JoinVertical(lipgloss.Left, plot, m.cardStatus(w, inner))
	} else {
		body = m.cardPlaceholder(w, inner, rows)
	}
	return style.Render(body)
}

// cardStatus is the line under the plot: the last failure, or when the data
// was fetched.
func (m *Model) cardStatus(w *widget.Controller, width int) string {
	if f := w.Failure(); f != nil {
		return ErrorTextStyle.Render(truncateWithEllipsis(GlyphFailed+" "+f.String(), width))
	}
	var parts []string
	if g := w.Graph(); g != nil {
		parts = append(parts, "step "+g.Step.String())
		if g.Zoom != nil {
			parts = append(parts, "zoomed")
		}
	}
	if at := w.LastRefreshAt(); !at.IsZero() {
		parts = append(parts, "updated "+at.Format("15:04:05"))
	}
	if w.Busy() {
		parts = append(parts, GlyphLoading)
	}
	return MutedStyle.Render(truncateWithEllipsis(strings.Join(parts, " · "), width))
}

func (m *Model) cardPlaceholder(w *widget.Controller, width, rows int) string {
	title := TitleStyle.Render(truncateWithEllipsis(w.Metric().Name, width))

	var status string
	switch {
	case w.Failure() != nil:
		status = ErrorTextStyle.Render(truncateWithEllipsis(GlyphFailed+" "+w.Failure().Message, width))
	case w.Busy():
		status = LabelStyle.Render(GlyphLoading + " loading")
	default:
		status = MutedStyle.Render(GlyphWaiting + " waiting")
	}

	rest := lipgloss.Place(width, max(1, rows-1), lipgloss.Center, lipgloss.Center, status)
	return lipgloss.JoinVertical(lipgloss.Left, title, rest)
}

// truncateWithEllipsis shortens s to at most n cells.
func truncateWithEllipsis(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
