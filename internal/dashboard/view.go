package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/prefs"
)

// renderDashboard renders the header, the visible part of the widget grid
// and the footer.
func (m *Model) renderDashboard() string {
	fit := lipgloss.NewStyle().MaxWidth(max(1, m.width))
	parts := []string{
		fit.Render(m.renderHeader()),
		fit.Render(m.renderControls()),
		fit.Render(m.renderFilterLine()),
		m.renderBody(),
		fit.Render(m.renderNotification()),
		fit.Render(m.renderFooter()),
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("statgrid")

	var status string
	switch {
	case m.loading:
		status = GlyphLoading + " fetching"
	case m.loadErr != nil:
		status = GlyphFailed + " catalog failed"
	case !m.loadedAt.IsZero():
		status = "updated " + m.loadedAt.Format("15:04:05")
	}

	fields := []string{m.rangeLabel()}
	if m.source != "" {
		fields = append([]string{m.source}, fields...)
	}
	if status != "" {
		fields = append(fields, status)
	}
	info := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(" | " + strings.Join(fields, " | "))

	return HeaderStyle.Render(title + info)
}

// rangeLabel shows the expressions as typed, or the dates while zoomed.
func (m *Model) rangeLabel() string {
	if m.zoom.Zoomed() {
		return m.picker.Dates().String() + " (zoomed)"
	}
	from, to := m.picker.Raw()
	return from + " .. " + to
}

func (m *Model) renderControls() string {
	field := func(label, value string) string {
		return LabelStyle.Render(label+" ") + ValueStyle.Render(value)
	}
	fields := []string{
		field("refresh", m.refreshLabel()),
		field("step", m.prefs.StepDuration().String()),
		field("agg", string(m.prefs.AggregatorValue())),
		field("cols", fmt.Sprint(m.prefs.Columns)),
		field("verbosity", string(m.prefs.VerbosityValue())),
	}
	return ControlsStyle.Render(strings.Join(fields, MutedStyle.Render("  ·  ")))
}

func (m *Model) renderFilterLine() string {
	switch m.prompt {
	case promptFilter:
		return ControlsStyle.Render(promptStyle.Render("filter ") + m.input.View())
	case promptRange:
		return ControlsStyle.Render(promptStyle.Render("range ") + m.input.View())
	}

	filter := m.prefs.Filter
	if filter == "" {
		filter = "none"
	}
	line := LabelStyle.Render("filter ") + ValueStyle.Render(filter)
	if len(m.clusters) > 0 {
		line += MutedStyle.Render("  ·  " + m.Stats().String())
	}
	return ControlsStyle.Render(line)
}

// renderBody renders exactly bodyHeight lines of the content, starting at the
// scroll offset. Only rows intersecting the viewport are drawn.
func (m *Model) renderBody() string {
	body := m.bodyHeight()
	lines := make([]string, body)

	if len(m.clusters) == 0 || len(m.items) == 0 {
		lines[0] = m.renderEmpty()
		return strings.Join(lines, "\n")
	}

	top, bottom := m.scroll, m.scroll+body
	put := func(y int, block string) {
		for i, l := range strings.Split(block, "\n") {
			if row := y + i - top; row >= 0 && row < body {
				lines[row] = l
			}
		}
	}

	var rowY = -1
	var row []string
	flush := func() {
		if len(row) > 0 {
			put(rowY, lipgloss.JoinHorizontal(lipgloss.Top, row...))
		}
		row = row[:0]
	}

	for _, it := range m.items {
		if it.widget == nil {
			flush()
			if it.cluster.headerY >= top && it.cluster.headerY < bottom {
				put(it.cluster.headerY, m.renderClusterHeader(it.cluster, it == m.sel))
			}
			continue
		}
		r := it.widget.Container().Rect()
		if r.Y != rowY {
			flush()
			rowY = r.Y
		}
		if r.Y+r.H <= top || r.Y >= bottom {
			continue
		}
		row = append(row, m.renderCard(it.widget, it == m.sel))
	}
	flush()

	return strings.Join(lines, "\n")
}

func (m *Model) renderClusterHeader(c *cluster, selected bool) string {
	glyph := GlyphExpanded
	if m.prefs.IsCollapsed(c.name) {
		glyph = GlyphCollapsed
	}
	label := fmt.Sprintf("%s %s (%d/%d)", glyph, c.name, c.shown(), len(c.widgets))
	if selected {
		return ClusterSelectedStyle.Render(label)
	}
	return ClusterStyle.Render(label)
}

func (m *Model) renderEmpty() string {
	switch {
	case m.loading:
		return LabelStyle.Render(GlyphLoading + " Fetching metrics...")
	case m.loadErr != nil:
		return ErrorTextStyle.Render(GlyphFailed+" "+errors.Summary(m.loadErr)) +
			MutedStyle.Render("  press R to retry")
	case len(m.clusters) == 0:
		return LabelStyle.Render("No metrics in the selected time range")
	default:
		return LabelStyle.Render("No metrics match the filter")
	}
}

func (m *Model) renderNotification() string {
	n := m.notes.current
	if n == nil {
		return ""
	}
	return FooterStyle.Render(notificationStyles[n.Level].Render(n.Message))
}

func (m *Model) renderFooter() string {
	if m.prompt != promptNone {
		return FooterStyle.Render(m.help.View(inputKeyMap{KeyMap: m.keys, history: m.prompt == promptFilter}))
	}
	return FooterStyle.Render(m.help.View(m.keys))
}

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)
)

// renderHelpOverlay renders every binding in a centered box.
func (m *Model) renderHelpOverlay() string {
	h := m.help
	h.ShowAll = true

	lines := []string{
		helpTitleStyle.Render("Keyboard Shortcuts"),
		h.View(m.keys),
		"",
		LabelStyle.Render(fmt.Sprintf("refresh values: %s", refreshChoices())),
		LabelStyle.Render("Press ? to close"),
	}
	box := helpBoxStyle.Render(strings.Join(lines, "\n"))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}

func refreshChoices() string {
	labels := make([]string, len(prefs.RefreshValues))
	for i, v := range prefs.RefreshValues {
		labels[i] = prefs.FormatRefresh(v)
	}
	return strings.Join(labels, ", ")
}
