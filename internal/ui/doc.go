// Package ui renders statgrid's plain CLI output: tables, key/value listings
// and the shared color palette.
//
// The dashboard has its own styles. This package serves the subcommands that
// print once and exit, such as catalog and prefs show.
//
// # Color Scheme
//
// Colors are ANSI codes so they follow the terminal theme:
//
//	ColorSuccess   (green)  - Healthy values
//	ColorError     (red)    - Failures
//	ColorWarning   (yellow) - Warnings
//	ColorInfo      (cyan)   - Section titles
//	ColorMuted     (gray)   - Secondary text
//
// Call ConfigureOutput with the command's writer before rendering so that
// piped output carries no escape sequences.
package ui
