package logterm

import (
	"strings"
	"testing"
	"time"

	coachvault "github.com/futurepoint/coachvault"
)

func sampleEvents() []coachvault.AuditEvent {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []coachvault.AuditEvent{
		{Timestamp: base, EventType: "login_success", Username: "root", Success: true},
		{Timestamp: base.Add(time.Minute), EventType: "login_failure", Username: "mallory", Success: false, Error: "invalid credential"},
		{Timestamp: base.Add(2 * time.Minute), EventType: "note_uploaded", Username: "alice", Success: true},
		{Timestamp: base.Add(3 * time.Minute), EventType: "note_uploaded", Username: "alice", Success: true},
		{Timestamp: base.Add(4 * time.Minute), EventType: "admin_added", Username: "root", Success: true},
	}
}

func TestStatsCountsByType(t *testing.T) {
	term := New(sampleEvents())

	out := term.Run("stats")
	if !strings.HasPrefix(out, "5 events, 1 failed") {
		t.Fatalf("unexpected stats header:\n%s", out)
	}
	if !strings.Contains(out, "2  note_uploaded") {
		t.Fatalf("expected note_uploaded count of 2:\n%s", out)
	}
}

func TestFilterMatchesTypeUserAndError(t *testing.T) {
	term := New(sampleEvents())

	cases := []struct {
		query string
		want  string
	}{
		{"filter alice", "note_uploaded"},
		{"filter LOGIN", "login_success"},
		{"filter invalid credential", "mallory"},
	}
	for _, tc := range cases {
		out := term.Run(tc.query)
		if !strings.Contains(out, tc.want) {
			t.Fatalf("%q: expected %q in:\n%s", tc.query, tc.want, out)
		}
	}

	if out := term.Run("filter nosuchthing"); out != "no matches" {
		t.Fatalf("expected no matches, got:\n%s", out)
	}
	if out := term.Run("filter"); !strings.HasPrefix(out, "usage:") {
		t.Fatalf("expected usage hint, got:\n%s", out)
	}
}

func TestTailReturnsMostRecent(t *testing.T) {
	term := New(sampleEvents())

	out := term.Run("tail 2")
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "admin_added") {
		t.Fatalf("expected newest event last:\n%s", out)
	}

	if out := term.Run("tail nope"); !strings.HasPrefix(out, "usage:") {
		t.Fatalf("expected usage hint, got:\n%s", out)
	}
	// n larger than the log is clamped, not an error.
	if out := term.Run("tail 100"); len(strings.Split(out, "\n")) != 5 {
		t.Fatalf("expected all 5 events:\n%s", out)
	}
}

func TestClearHidesWithoutDeleting(t *testing.T) {
	events := sampleEvents()
	term := New(events)

	if out := term.Run("clear"); out != "cleared" {
		t.Fatalf("unexpected clear output: %q", out)
	}
	if out := term.Run("stats"); out != "no events" {
		t.Fatalf("expected empty view after clear, got:\n%s", out)
	}
	if len(events) != 5 {
		t.Fatalf("clear must not mutate the slice, len = %d", len(events))
	}
}

func TestUnknownAndEmptyCommands(t *testing.T) {
	term := New(nil)

	if out := term.Run(""); out != "" {
		t.Fatalf("empty line should be silent, got %q", out)
	}
	if out := term.Run("reboot"); !strings.Contains(out, "unknown command") {
		t.Fatalf("expected unknown command hint, got %q", out)
	}
	if out := term.Run("help"); !strings.Contains(out, "filter <term>") {
		t.Fatalf("help output missing commands:\n%s", out)
	}
}
