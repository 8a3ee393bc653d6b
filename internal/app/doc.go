// Package app provides the orchestration layer for the peloton application.
//
// # Overview
//
// This package wires together configuration, the race API client, the
// catalog, the registration ledger, authentication, and the UI to create
// the complete peloton TUI experience. It serves as the composition root
// where all dependencies are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/peloton/config.toml (plus .env
//     and PELOTON_API_URL overrides)
//  2. Load user preferences (theme) from ~/.config/peloton/prefs.toml
//  3. Initialize the HTTP client for the race API
//  4. Create the catalog store that pages through GET /api/cycling
//  5. Restore any persisted session and hand the user to the ledger
//  6. Start the TUI and block until the user exits or the context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config, .env, environment
//	       ├─────> prefs.Load()         Read theme preference
//	       ├─────> raceapi.NewClient()  Create HTTP client
//	       ├─────> catalog.NewStore()   Paginated race catalog
//	       ├─────> account.NewManager() Restore persisted session
//	       ├─────> ledger.New()         Registration ledger (adjusts
//	       │                            catalog slot counts on changes)
//	       └─────> ui.Run()             Start TUI (blocks)
//
// There is no background poller: the catalog and ledger refresh on
// demand, driven by Bubble Tea commands issued from the UI. The initial
// page fetch and, for a restored session, the first ledger reconciliation
// happen from the model's Init.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - Race API client initialization failure (bad base URL)
//
// Recoverable conditions (surfaced in the UI, the program keeps running):
//   - Page fetch or ledger refresh failures
//   - Registration attempts rejected by the server
//
// A missing or corrupt session file is not an error; it simply means the
// user starts signed out.
package app
