// Package jwt signs and verifies the self-contained session tokens that
// are the only server-relevant session state: claims plus expiry, verified
// statelessly on every call. There is no server-side session registry and
// no revocation list; a token dies only by expiring.
//
// # What this package must NOT do
//
//   - Carry the bearer credential in claims; the credential is discarded
//     after login and never embedded in a session.
//   - Accept tokens signed with an unexpected algorithm.
package jwt
