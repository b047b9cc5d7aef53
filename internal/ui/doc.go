// Package ui provides terminal output components for the gymlog CLI.
//
// This package uses Lipgloss to render the non-interactive commands (list,
// search, add, update, delete, scan). The interactive TUI lives in
// internal/tui and shares the color palette defined here.
//
// # Components
//
//   - Header: command banner showing the operation and the server it targets
//   - Result: success, failure and warning boxes
//   - Confirm: y/N prompt used before deleting a record
//   - Printer: writes the above, plus record tables with a page footer
//
// When stdout is not a terminal the Printer falls back to plain text, so
// output can be piped into other tools:
//
//	gymlog list --page 2 | grep Squat
//
// # Logging Integration
//
// This package expects logging to be controlled via the GYMLOG_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly.
package ui
