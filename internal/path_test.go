package internal

import (
	"regexp"
	"strings"
	"testing"
)

var sanitizedShape = regexp.MustCompile(`^[a-z0-9._-]*$`)

func TestSanitizeTokenShape(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Mathematics", "mathematics"},
		{"My File (1).PDF", "my_file_1_.pdf"},
		{"already_clean.pdf", "already_clean.pdf"},
		{"a  b   c", "a_b_c"},
		{"___", "_"},
		{"", ""},
		{"Ωmega Notes!", "_mega_notes_"},
		{"semi;colon//slash", "semi_colon_slash"},
	}

	for _, tc := range cases {
		got := SanitizeToken(tc.in)
		if got != tc.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if !sanitizedShape.MatchString(got) {
			t.Errorf("SanitizeToken(%q) = %q contains characters outside [a-z0-9._-]", tc.in, got)
		}
		if strings.Contains(got, "__") {
			t.Errorf("SanitizeToken(%q) = %q contains a double underscore", tc.in, got)
		}
	}
}

func TestSanitizeTokenIdempotent(t *testing.T) {
	inputs := []string{
		"My File (1).PDF",
		"Physics - Unit 2 [final]",
		"a!@#$%^&*()b",
		"___x___",
		"plain",
		"",
	}

	for _, in := range inputs {
		once := SanitizeToken(in)
		twice := SanitizeToken(once)
		if once != twice {
			t.Errorf("SanitizeToken not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestDerivePath(t *testing.T) {
	got, err := DerivePath("10", "cbse", "Mathematics", "My File (1).PDF")
	if err != nil {
		t.Fatalf("DerivePath failed: %v", err)
	}
	want := "notes/class-10/cbse/mathematics/my_file_1_.pdf"
	if got != want {
		t.Fatalf("DerivePath = %q, want %q", got, want)
	}

	// Deriving again from the already-sanitized segments must not move the path.
	again, err := DerivePath("10", "cbse", "mathematics", "my_file_1_.pdf")
	if err != nil {
		t.Fatalf("DerivePath on sanitized input failed: %v", err)
	}
	if again != want {
		t.Fatalf("DerivePath is not stable under re-derivation: got %q, want %q", again, want)
	}
}

func TestDerivePathUppercaseStream(t *testing.T) {
	got, err := DerivePath("12", "Science", "Physics", "waves.pdf")
	if err != nil {
		t.Fatalf("DerivePath failed: %v", err)
	}
	if got != "notes/class-12/science/physics/waves.pdf" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestDerivePathRejectsUnknownClass(t *testing.T) {
	for _, class := range []string{"", "9", "13", "ten", "010"} {
		if _, err := DerivePath(class, "cbse", "maths", "a.pdf"); err == nil {
			t.Errorf("DerivePath accepted class %q", class)
		}
	}
}

func TestParseStoragePath(t *testing.T) {
	cases := []struct {
		path                   string
		class, stream, subject string
	}{
		{"notes/class-10/cbse/mathematics/algebra.pdf", "10", "cbse", "mathematics"},
		{"notes/class-12/science/physics/waves.pdf", "12", "science", "physics"},
		{"notes/class-11", "11", "", ""},
		{"notes", "", "", ""},
		{"", "", "", ""},
	}

	for _, tc := range cases {
		class, stream, subject := ParseStoragePath(tc.path)
		if class != tc.class || stream != tc.stream || subject != tc.subject {
			t.Errorf("ParseStoragePath(%q) = (%q, %q, %q), want (%q, %q, %q)",
				tc.path, class, stream, subject, tc.class, tc.stream, tc.subject)
		}
	}
}
