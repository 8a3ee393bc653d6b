// Package ledger tracks the current user's race registrations.
//
// # Overview
//
// The Ledger is the client's answer to "which races am I registered for".
// It is deliberately a cache, not a system of record: the backend's
// participation table is authoritative, and the ledger converges on it
// through explicit Refresh calls rather than live push.
//
// # State Machine
//
// Per race membership:
//
//	NotRegistered → (Register success) → Registered
//	Registered → (Unregister success) → NotRegistered
//
// Any failed transition leaves the state unchanged and surfaces an error.
// There is no externally visible pending state; Pending() exists only so
// the UI can disable the triggering control while a mutation is in flight.
//
// # Precondition Checks
//
// Register fails locally, with no network call, when:
//
//   - nobody is signed in (ErrNotSignedIn)
//   - the race is already in the ledger (ErrAlreadyRegistered)
//   - the race's gender restriction does not match (ErrIneligible)
//   - no slots remain (ErrRaceFull)
//   - the race status is not open (ErrRegistrationClosed)
//   - a mutation for the same race is already in flight (ErrOperationPending)
//
// # Mutation Protocol
//
// Register issues one POST and, only on 2xx, adds the race snapshot to the
// ledger and decrements the catalog's slot count. Unregister needs two
// round-trips because the ledger holds race snapshots, not participation
// ids: it fetches /api/user/{id}, finds the participation for the race,
// and DELETEs it by its own id. Failure at any step (lookup miss, delete
// rejection) leaves local state untouched. There is no partial mutation.
//
// # Duplicate Submission Guard
//
// Mutations are keyed per race id in a pending set. A second Register or
// Unregister for the same race while one is in flight returns
// ErrOperationPending immediately. This replaces the web frontend's
// unguarded double-click behavior; the backend's uniqueness constraint
// remains the final backstop.
//
// # Reconciliation
//
// Refresh fetches the authoritative participation list and replaces the
// ledger wholesale (deduplicated by race id). The UI calls it after every
// successful mutation and at startup, so optimistic local bookkeeping can
// never drift from the backend for longer than one round-trip.
package ledger
