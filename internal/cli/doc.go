// Package cli implements the statgrid command-line interface.
//
// Commands are Cobra commands registered on rootCmd from each file's init.
// Running statgrid without a subcommand starts the dashboard.
//
// # Command Structure
//
//	statgrid [dashboard]          - Live dashboard (default)
//	statgrid catalog              - List the metrics in the time range
//	statgrid prefs show|set|reset|edit
//	                              - Stored dashboard controls
//	statgrid config show|set      - Configuration file
//	statgrid completion <shell>   - Shell completion script
//	statgrid version              - Build information
//
// # Flag Handling
//
// Global flags (--config, --endpoint, --demo, --debug, --from, --to) are
// persistent flags on the root command. loadConfig applies the config
// overrides after the file and environment are read; --from and --to
// replace the stored time range when the run starts.
//
// # Output
//
// The dashboard owns the terminal, so it logs to a file. The one-shot
// commands print through the ui package, which drops colors when stdout is
// not a terminal. catalog --json wraps its output in JSONEnvelope.
package cli
