// Package coachvault is the authorization-and-content-store engine behind
// a coaching institute's admin side-channel. Administrators log in with an
// external bearer credential, receive a signed two-hour session, and then
// upload or delete PDF study material and manage the admin roster. All
// durable state lives in a remote version-controlled object store; every
// write is compare-and-swap against the object's version token.
//
// # Layout
//
//   - Engine (engine_*.go): login, session guard, roster and note
//     mutators, listing aggregator.
//   - store: the remote object store client.
//   - identity: the external identity endpoint client.
//   - jwt: session token minting and verification.
//   - middleware, httpapi: the HTTP surface.
//
// # Statelessness
//
// The signed token is the session; there is no server-side session map,
// no revocation list, and no sliding renewal. Conflicting writes lose
// with ErrConflict and are never retried automatically.
package coachvault
