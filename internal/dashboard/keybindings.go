package dashboard

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every dashboard key binding.
type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Refresh    key.Binding
	Reload     key.Binding
	Filter     key.Binding
	Range      key.Binding
	Verbosity  key.Binding
	Columns    key.Binding
	Aggregator key.Binding
	Interval   key.Binding
	StepUp     key.Binding
	StepDown   key.Binding

	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Fold     key.Binding
	FoldAll  key.Binding
	OpenAll  key.Binding

	ZoomIn    key.Binding
	ZoomOut   key.Binding
	PanLeft   key.Binding
	PanRight  key.Binding
	ZoomReset key.Binding

	Apply  key.Binding
	Cancel key.Binding
	Recall key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh all")),
		Reload:     key.NewBinding(key.WithKeys("R", "ctrl+r"), key.WithHelp("R", "reload metrics")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Range:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "time range")),
		Verbosity:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "verbosity")),
		Columns:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "columns")),
		Aggregator: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "aggregator")),
		Interval:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "refresh interval")),
		StepUp:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "coarser step")),
		StepDown:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "finer step")),

		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "first")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "last")),
		Fold:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "fold cluster")),
		FoldAll:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
		OpenAll:  key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),

		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		PanLeft:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan left")),
		PanRight:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan right")),
		ZoomReset: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),

		Apply:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Recall: key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "history")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Filter, k.Range, k.Refresh, k.Fold, k.ZoomIn, k.ZoomOut, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Filter, k.Range, k.Verbosity, k.Columns, k.Aggregator, k.Interval, k.StepUp, k.StepDown},
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom, k.Fold, k.FoldAll, k.OpenAll},
		{k.ZoomIn, k.ZoomOut, k.PanLeft, k.PanRight, k.ZoomReset, k.Refresh, k.Reload, k.Help, k.Quit},
	}
}

// inputKeyMap is shown while a prompt is open.
type inputKeyMap struct {
	KeyMap
	history bool
}

func (k inputKeyMap) ShortHelp() []key.Binding {
	if k.history {
		return []key.Binding{k.Apply, k.Cancel, k.Recall}
	}
	return []key.Binding{k.Apply, k.Cancel}
}

func (k inputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
