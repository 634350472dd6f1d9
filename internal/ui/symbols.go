package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Loaded
	SymbolFail     = "✗" // Failed
	SymbolPending  = "○" // Not fetched yet
	SymbolProgress = "◐" // Fetch in flight
	SymbolFolded   = "▸" // Collapsed cluster
	SymbolUnfolded = "▾" // Expanded cluster
)
