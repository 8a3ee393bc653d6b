// Package raceapi provides an HTTP client for the race registration API.
//
// # Overview
//
// This package defines the API client for communicating with the backend
// that owns races, participations, and user accounts. It handles HTTP
// communication, JSON serialization, and type-safe representation of the
// race/participation/user schema.
//
// # Architecture
//
// The package is split into two files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the API schema
//
// # Client Usage
//
// Create a client using the API base URL from configuration:
//
//	client, err := raceapi.NewClient("http://127.0.0.1:8000")
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	races, err := client.ListRaces(ctx)
//	if err != nil {
//		log.Printf("race list fetch failed: %v", err)
//	}
//
// # API Endpoints
//
// The client supports the endpoints the terminal UI needs:
//
//   - GET /api/cycling: Full ordered race list (pagination is client-side)
//   - GET /api/cycling/{id}: One race, with nested participations
//   - POST /api/cycling_participant/new: Register a user for a race
//   - DELETE /api/cycling_participant/{id}: Cancel a participation
//   - GET /api/user/{id}: User profile with participations
//   - POST /api/auth/login: Session login (owned by the auth service)
//   - PUT /api/user/{id}/edit: Profile and password edits
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and a User-Agent header
//   - Carry a random X-Request-ID for backend log correlation
//   - Pass through a client-side rate limiter (the backend is shared
//     with the web frontend)
//   - Have a 10-second timeout
//
// # Error Handling
//
// Non-2xx responses become *APIError values carrying the HTTP status and,
// when the body had one, the backend's "message" field. Network and decode
// failures are wrapped with fmt.Errorf context. Callers use errors.As to
// surface backend messages to the user and fall back to a generic message
// otherwise.
//
// # Loose Typing
//
// The backend's schema is not strict. Kilometers tolerates numbers, quoted
// numbers, and junk (decoding junk as zero so distance filters treat the
// race as bucket-less), and ParsedDate accepts RFC3339 or plain dates,
// returning the zero time for anything else.
//
// # Thread Safety
//
// The Client struct is safe for concurrent use. The underlying http.Client
// handles connection pooling; the rate limiter serializes bursts.
//
// # Design Rationale
//
// The package is intentionally minimal: no caching (the catalog and ledger
// packages own state), no retries (every failure requires a new
// user-initiated action per the error-handling policy), no streaming.
package raceapi
