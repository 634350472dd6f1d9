package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/render"
)

// HandleKeyMsg processes a key press and returns an optional command.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Cancel) {
			m.showHelp = false
		} else if key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		return nil
	}

	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Refresh):
		m.RefreshAll()
	case key.Matches(msg, m.keys.Reload):
		m.Reload()
	case key.Matches(msg, m.keys.Filter):
		m.filterBefore = m.prefs.Filter
		m.historyIdx = -1
		return m.openPrompt(promptFilter, m.prefs.Filter)
	case key.Matches(msg, m.keys.Range):
		from, to := m.picker.Raw()
		return m.openPrompt(promptRange, from+" .. "+to)

	case key.Matches(msg, m.keys.Verbosity):
		m.ToggleVerbosity()
	case key.Matches(msg, m.keys.Columns):
		m.CycleColumns()
	case key.Matches(msg, m.keys.Aggregator):
		m.CycleAggregator()
	case key.Matches(msg, m.keys.Interval):
		m.CycleRefreshInterval()
	case key.Matches(msg, m.keys.StepUp):
		m.ChangeStep(true)
	case key.Matches(msg, m.keys.StepDown):
		m.ChangeStep(false)

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollBy(-m.bodyHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.scrollBy(m.bodyHeight())
	case key.Matches(msg, m.keys.Top):
		m.selectAt(0)
	case key.Matches(msg, m.keys.Bottom):
		m.selectAt(len(m.items) - 1)
	case key.Matches(msg, m.keys.Fold):
		m.ToggleFold()
	case key.Matches(msg, m.keys.FoldAll):
		m.FoldAll(true)
	case key.Matches(msg, m.keys.OpenAll):
		m.FoldAll(false)

	case key.Matches(msg, m.keys.ZoomIn):
		m.interact(render.ZoomIn)
	case key.Matches(msg, m.keys.ZoomOut):
		m.interact(render.ZoomOut)
	case key.Matches(msg, m.keys.PanLeft):
		m.interact(render.PanLeft)
	case key.Matches(msg, m.keys.PanRight):
		m.interact(render.PanRight)
	case key.Matches(msg, m.keys.ZoomReset):
		m.zoom.Reset()
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}

// interact pans or zooms the selected plot. The resulting zoom event is
// shared with every other widget.
func (m *Model) interact(a render.Action) {
	w := m.sel.widget
	if w == nil {
		m.notify(LevelInfo, "Select a metric to zoom")
		return
	}
	h, ok := w.Handle()
	if !ok {
		return
	}
	if err := m.engine.Interact(h, a); err != nil {
		m.notify(LevelError, "%s", errors.Summary(err))
	}
}

func (m *Model) openPrompt(kind promptKind, value string) tea.Cmd {
	m.prompt = kind
	m.input.Reset()
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.historyIdx = -1
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Apply):
		value := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		m.closePrompt()
		if kind == promptFilter {
			m.ApplyFilter(value)
		} else {
			m.submitRange(value)
		}
		return nil

	case key.Matches(msg, m.keys.Cancel):
		if m.prompt == promptFilter {
			m.redrawWith(m.filterBefore)
		}
		m.closePrompt()
		return nil

	case m.prompt == promptFilter && key.Matches(msg, m.keys.Recall):
		m.recall(msg.String() == "up")
		return nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.prompt == promptFilter && m.input.Value() != before {
		m.redrawWith(m.input.Value())
	}
	return cmd
}

// recall steps through the filter history, newest first. Stepping past the
// newest entry brings back the filter that was active when the prompt opened.
func (m *Model) recall(older bool) {
	history := m.prefs.FilterHistory
	idx := m.historyIdx
	if older {
		idx = min(idx+1, len(history)-1)
	} else {
		idx = max(idx-1, -1)
	}
	m.historyIdx = idx

	value := m.filterBefore
	if idx >= 0 {
		value = history[idx]
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.redrawWith(value)
}

// submitRange parses "from .. to" and applies it.
func (m *Model) submitRange(value string) {
	from, to, ok := strings.Cut(value, "..")
	if !ok {
		m.notify(LevelError, "Enter the range as 'from .. to', for example 'now-6h .. now'")
		return
	}
	m.ApplyRange(from, to)
}
