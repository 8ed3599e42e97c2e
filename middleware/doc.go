// Package middleware exposes HTTP middleware adapters over the coachvault
// session guard.
//
// # Guards
//
//   - [Guard] requires a valid session cookie; any role.
//   - [RequireRole] requires a valid session cookie with a role floor.
//
// Each guard reads the session cookie, calls Engine.Authenticate plus
// Engine.RequireRole, and injects the decoded session into the request
// context.
//
// # What this package must NOT do
//
//   - Parse or create session tokens directly (delegates to the engine).
//   - Make authorization decisions beyond pass/reject from the engine.
package middleware
