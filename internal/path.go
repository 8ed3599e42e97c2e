package internal

import (
	"fmt"
	"strings"
)

// NotesRoot is the fixed root of the material namespace in the remote store.
const NotesRoot = "notes"

// validClasses is the closed set of class levels the institute teaches.
var validClasses = map[string]struct{}{
	"10": {},
	"11": {},
	"12": {},
}

// ValidClass reports whether class is one of the supported class levels.
func ValidClass(class string) bool {
	_, ok := validClasses[class]
	return ok
}

// SanitizeToken maps an arbitrary string onto the storage-safe alphabet
// [a-z0-9._-]. Every character outside [A-Za-z0-9._-] becomes '_', runs of
// '_' collapse to one, and the result is lowercased.
//
// SanitizeToken is pure, total, and idempotent: applying it to its own
// output returns the output unchanged.
func SanitizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevUnderscore := false
	for _, r := range s {
		ok := (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '.' || r == '-'
		if ok {
			b.WriteRune(r)
			prevUnderscore = false
			continue
		}
		// '_' itself and every disallowed character fold into a single '_'.
		if !prevUnderscore {
			b.WriteByte('_')
			prevUnderscore = true
		}
	}

	return strings.ToLower(b.String())
}

// DerivePath builds the canonical storage path for a material:
//
//	notes/class-{class}/{stream}/{subject}/{filename}
//
// The stream is lowercased; subject and filename pass through
// [SanitizeToken]. Deriving from already-sanitized inputs yields the same
// path. The class must be one of 10, 11, 12.
func DerivePath(class, stream, subject, filename string) (string, error) {
	if !ValidClass(class) {
		return "", fmt.Errorf("invalid class %q", class)
	}

	return NotesRoot + "/class-" + class + "/" +
		strings.ToLower(stream) + "/" +
		SanitizeToken(subject) + "/" +
		SanitizeToken(filename), nil
}

// ParseStoragePath extracts the class, stream, and subject segments from a
// storage path by position. Segments beyond the end of the path come back
// as empty strings rather than failing: listings must tolerate files that
// sit outside the canonical layout.
func ParseStoragePath(path string) (class, stream, subject string) {
	parts := strings.Split(path, "/")

	if len(parts) > 1 {
		class = strings.TrimPrefix(parts[1], "class-")
	}
	if len(parts) > 2 {
		stream = parts[2]
	}
	if len(parts) > 3 {
		subject = parts[3]
	}

	return class, stream, subject
}
