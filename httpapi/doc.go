// Package httpapi is the HTTP surface over the coachvault engine: login,
// logout, note listing and mutation, and roster mutation. It translates
// HTTP requests into engine calls and engine errors into status codes.
//
// Sessions ride in the configured cookie (HttpOnly, Secure,
// SameSite=Strict, lifetime matching the session TTL). Logout clears the
// cookie only; there is no server-side revocation to perform.
//
// # What this package must NOT do
//
//   - Validate domain input itself (the engine accumulates violations).
//   - Echo upstream provider error bodies to callers.
package httpapi
