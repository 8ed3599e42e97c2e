// Package internal contains helpers that are intentionally private to
// coachvault, currently the storage path derivation rules.
//
// # Sub-packages
//
//   - rate: Redis-backed fixed-window login rate limiting
//
// # What this package must NOT do
//
//   - Export types that appear in the public coachvault API.
//   - Be imported by any package outside the coachvault module.
package internal
