package internaldefs

import (
	coachvault "github.com/futurepoint/coachvault"
)

// CounterDef binds a counter metric ID to its published name.
type CounterDef struct {
	ID   coachvault.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram metric ID to its published name.
type HistogramDef struct {
	ID   coachvault.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: coachvault.MetricLoginSuccess, Name: "coachvault_login_success_total", Help: "Successful logins."},
	{ID: coachvault.MetricLoginFailure, Name: "coachvault_login_failure_total", Help: "Failed login attempts."},
	{ID: coachvault.MetricLoginRateLimited, Name: "coachvault_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: coachvault.MetricSessionRejected, Name: "coachvault_session_rejected_total", Help: "Session tokens rejected as invalid or expired."},
	{ID: coachvault.MetricAdminAdded, Name: "coachvault_admin_added_total", Help: "Admins added to the roster."},
	{ID: coachvault.MetricAdminRemoved, Name: "coachvault_admin_removed_total", Help: "Admins removed from the roster."},
	{ID: coachvault.MetricAdminMutationFailure, Name: "coachvault_admin_mutation_failure_total", Help: "Failed roster mutations."},
	{ID: coachvault.MetricNoteUploaded, Name: "coachvault_note_uploaded_total", Help: "Note files created or updated."},
	{ID: coachvault.MetricNoteDeleted, Name: "coachvault_note_deleted_total", Help: "Note files deleted."},
	{ID: coachvault.MetricNoteMutationFailure, Name: "coachvault_note_mutation_failure_total", Help: "Failed note mutations."},
	{ID: coachvault.MetricCASConflict, Name: "coachvault_cas_conflict_total", Help: "Compare-and-swap writes rejected for a stale version."},
	{ID: coachvault.MetricValidationRejected, Name: "coachvault_validation_rejected_total", Help: "Requests rejected by input validation."},
	{ID: coachvault.MetricListingServed, Name: "coachvault_listing_served_total", Help: "Listing requests served."},
	{ID: coachvault.MetricListingFailure, Name: "coachvault_listing_failure_total", Help: "Failed listing requests."},
	{ID: coachvault.MetricRateLimitHit, Name: "coachvault_rate_limit_hit_total", Help: "Rate-limit checks that denied requests."},
}

var HistogramDefs = []HistogramDef{
	{ID: coachvault.MetricListingLatency, Name: "coachvault_listing_latency_seconds", Help: "Listing latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, Prometheus form.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds as instrument-name suffixes.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets widens a raw snapshot slice into the fixed bucket array.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to cumulative counts.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
