// Package identity talks to the external identity endpoint that owns
// usernames and bearer credentials. The engine uses it for exactly two
// questions: who does this credential belong to (WhoAmI), and does this
// username exist (Exists).
//
// # What this package must NOT do
//
//   - Cache or persist credentials or profiles.
//   - Decide authorization; roles come from the admin roster, not from here.
package identity
