// Package catalog provides the paginated, client-accumulated race list.
//
// # Overview
//
// The Store is the single owner of the Race collection on the client side.
// It loads races page by page from the API and exposes an append-only,
// deduplicated-by-id ordered list, plus the slot-count bookkeeping hooks
// the participation ledger uses.
//
// # Pagination Model
//
// The backend returns the entire race list from GET /api/cycling; pages
// are client-side slices of that payload (page size 8 by default, matching
// the web frontend). The cursor starts at page 1:
//
//   - FetchNextPage(): fetches the page at the cursor. Page 1 replaces the
//     list; later pages append. A page shorter than the page size marks the
//     feed exhausted, after which every further fetch is a guaranteed no-op.
//   - Advance(): increments the cursor and fetches, a no-op when exhausted.
//
// A boolean loading flag guards against overlapping fetches: a second call
// while one is in flight returns immediately. The flag is cleared on every
// exit path (success, error, no-op).
//
// # Error Semantics
//
// A failed fetch leaves the accumulated list, the cursor, and the exhausted
// flag exactly as they were; the error is returned for the UI to surface as
// a transient notice. There are no retries.
//
// # Concurrency
//
// All state is guarded by a mutex and reads return defensive copies, the
// same discipline as the UI snapshot store this package grew out of. Fetches
// run on Bubble Tea command goroutines; the lock is never held across
// network I/O.
package catalog
