package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	coachvault "github.com/futurepoint/coachvault"
)

type fakeSource struct {
	snapshot coachvault.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() coachvault.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                        { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: coachvault.MetricsSnapshot{
			Counters:   map[coachvault.MetricID]uint64{},
			Histograms: map[coachvault.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: coachvault.MetricsSnapshot{
			Counters: map[coachvault.MetricID]uint64{
				coachvault.MetricLoginSuccess: 7,
				coachvault.MetricCASConflict:  2,
			},
			Histograms: map[coachvault.MetricID][]uint64{
				coachvault.MetricListingLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	if !strings.Contains(out, "coachvault_login_success_total 7") {
		t.Fatalf("expected login counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "coachvault_cas_conflict_total 2") {
		t.Fatalf("expected conflict counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "coachvault_listing_latency_seconds_bucket{le=\"0.005\"} 1") {
		t.Fatalf("expected first histogram bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "coachvault_listing_latency_seconds_bucket{le=\"+Inf\"} 36") {
		t.Fatalf("expected +Inf cumulative bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "coachvault_audit_dropped_total 2") {
		t.Fatalf("expected audit dropped counter in output, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: coachvault.MetricsSnapshot{
			Counters:   map[coachvault.MetricID]uint64{coachvault.MetricListingServed: 1},
			Histograms: map[coachvault.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
