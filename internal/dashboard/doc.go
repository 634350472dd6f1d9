// Package dashboard implements the terminal page that lays out one widget per
// metric, grouped by cluster, and drives them from global controls.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: catalog, widgets, controls, layout and selection
//   - Update: key presses, window sizes and scheduler callbacks
//   - View: renders the header, the visible part of the grid and the footer
//
// Widgets never run on their own goroutines. Fetches run through the
// scheduler, whose continuations come back to Update as CallbackMsg values,
// so every state change happens on the Update goroutine.
//
// # Layout and Visibility
//
// After every message the model places each widget container on a 12 unit
// grid in content coordinates and then evaluates the size and visibility
// monitors against the scrolled viewport. Widgets fetch when they first
// become visible and pause their refresh loop while scrolled away.
//
// # Key Components
//
//	Model     - The Bubble Tea model owning the page
//	ZoomSync  - Shares a zoom window between all widgets and the range picker
//	KeyMap    - Key bindings, rendered by the bubbles help component
//
// # Controls
//
// Filter, time range, refresh interval, aggregator, step, columns, verbosity
// and folded clusters are persisted through the prefs store whenever they
// change.
package dashboard
