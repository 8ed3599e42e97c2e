// Package rate provides the Redis-backed fixed-window counters that guard
// the login pipeline against credential stuffing. The limiter is optional:
// without a Redis client the engine runs fully stateless and skips these
// checks.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key
// prefixes:
//   - cl:  login per-username
//   - cli: login per-IP
//
// # What this package must NOT do
//
//   - Hold session state of any kind.
//   - Be imported outside the coachvault module.
package rate
