// Package store is a thin client for the remote version-controlled object
// store that holds all durable state (study materials and the admin
// roster). Objects are keyed by path; every object state carries an opaque
// content-hash version token, and writes are compare-and-swap: a write that
// names a stale version fails with [ErrConflict] and is never retried here.
//
// # Architecture boundaries
//
// This package owns wire translation only: request shaping, credential
// headers, status-to-error mapping, and payload decoding. Roster and
// material semantics live in the root engine package.
//
// # What this package must NOT do
//
//   - Retry failed writes or conflicts.
//   - Persist or log the bearer credential.
//   - Surface raw provider response bodies in returned errors.
package store
