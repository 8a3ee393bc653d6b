// Package ui provides the Bubble Tea terminal interface for peloton.
//
// # Structure
//
// The package is a single Bubble Tea program built around one root Model.
// Each screen is a View constant; per-view rendering and key handling live
// in their own files:
//
//   - races.go: the paginated catalog with search and filters
//   - detail.go: a single race, including results once it has finished
//   - registrations.go: the signed-in user's registrations
//   - login.go: the sign-in form
//   - profile.go: name and password editing, sign-out
//
// # Data flow
//
// The model never talks to the network directly. Catalog pages, the
// registration ledger, and authentication are owned by their packages;
// the UI issues tea.Cmd closures that call into them and reports the
// outcome back as messages. Slow responses therefore never block input.
//
// Detail fetches carry a sequence number. Selecting another race bumps
// the sequence, and responses with a stale sequence are dropped, so a
// slow fetch can never overwrite a newer selection.
//
// # Theming
//
// Three built-in themes render through lipgloss. The active theme is
// cycled with T and persisted via the prefs package.
package ui
