package logterm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	coachvault "github.com/futurepoint/coachvault"
)

const defaultTailCount = 10

// Terminal dispatches text commands over a fixed event slice. It is not
// safe for concurrent use; each console session owns its own Terminal.
type Terminal struct {
	events []coachvault.AuditEvent
	// hidden marks the cutoff set by clear; events before it stay in
	// memory but drop out of every command's view.
	hidden int
}

// New builds a Terminal over the given events. The slice is read, never
// written; callers must not mutate it afterwards.
func New(events []coachvault.AuditEvent) *Terminal {
	return &Terminal{events: events}
}

// Run executes one command line and returns its output text. Unknown
// commands return a hint rather than an error; there is nothing for the
// caller to handle programmatically.
func (t *Terminal) Run(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "help":
		return t.help()
	case "stats":
		return t.stats()
	case "filter":
		return t.filter(args)
	case "tail":
		return t.tail(args)
	case "clear":
		t.hidden = len(t.events)
		return "cleared"
	default:
		return fmt.Sprintf("unknown command %q (try help)", cmd)
	}
}

func (t *Terminal) visible() []coachvault.AuditEvent {
	return t.events[t.hidden:]
}

func (t *Terminal) help() string {
	return strings.Join([]string{
		"help              show this text",
		"stats             event counts by type",
		"filter <term>     events whose type, user or error contains term",
		"tail [n]          last n events (default " + strconv.Itoa(defaultTailCount) + ")",
		"clear             hide everything shown so far",
	}, "\n")
}

func (t *Terminal) stats() string {
	visible := t.visible()
	if len(visible) == 0 {
		return "no events"
	}

	counts := make(map[string]int)
	failures := 0
	for _, ev := range visible {
		counts[ev.EventType]++
		if !ev.Success {
			failures++
		}
	}

	types := make([]string, 0, len(counts))
	for typ := range counts {
		types = append(types, typ)
	}
	sort.Strings(types)

	var b strings.Builder
	fmt.Fprintf(&b, "%d events, %d failed\n", len(visible), failures)
	for _, typ := range types {
		fmt.Fprintf(&b, "%6d  %s\n", counts[typ], typ)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (t *Terminal) filter(args []string) string {
	if len(args) == 0 {
		return "usage: filter <term>"
	}

	term := strings.ToLower(strings.Join(args, " "))
	var matched []coachvault.AuditEvent
	for _, ev := range t.visible() {
		if eventMatches(ev, term) {
			matched = append(matched, ev)
		}
	}
	if len(matched) == 0 {
		return "no matches"
	}
	return renderEvents(matched)
}

func (t *Terminal) tail(args []string) string {
	n := defaultTailCount
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed <= 0 {
			return "usage: tail [n]"
		}
		n = parsed
	}

	visible := t.visible()
	if len(visible) == 0 {
		return "no events"
	}
	if n > len(visible) {
		n = len(visible)
	}
	return renderEvents(visible[len(visible)-n:])
}

func eventMatches(ev coachvault.AuditEvent, term string) bool {
	return strings.Contains(strings.ToLower(ev.EventType), term) ||
		strings.Contains(strings.ToLower(ev.Username), term) ||
		strings.Contains(strings.ToLower(ev.Error), term)
}

func renderEvents(events []coachvault.AuditEvent) string {
	var b strings.Builder
	for i, ev := range events {
		if i > 0 {
			b.WriteByte('\n')
		}
		status := "ok"
		if !ev.Success {
			status = "fail"
		}
		fmt.Fprintf(&b, "%s  %-4s  %-24s  %s", ev.Timestamp.Format("2006-01-02 15:04:05"), status, ev.EventType, ev.Username)
		if ev.Error != "" {
			fmt.Fprintf(&b, "  (%s)", ev.Error)
		}
	}
	return b.String()
}
