// Package logterm is a pure command dispatcher over an already-fetched,
// read-only slice of audit events. It backs the admin console's log
// terminal: the caller feeds it a command line and renders the returned
// text however it likes.
//
// # What this package must NOT do
//
//   - Perform I/O or fetch events itself.
//   - Mutate the event slice (clear only hides, it never deletes).
package logterm
