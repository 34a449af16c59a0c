package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSchedule(t *testing.T) {
	m := New()
	m.ObserveSchedule("all", 5, 0)
	m.ObserveSchedule("all", 0, 5)
	m.ObserveSchedule("single", 1, 0)

	if got := testutil.ToFloat64(m.scheduleRuns.WithLabelValues("all")); got != 2 {
		t.Fatalf("all runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.activeZones); got != 1 {
		t.Fatalf("active = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.skippedZones); got != 0 {
		t.Fatalf("skipped = %v, want 0", got)
	}
}

func TestObserveRainAndPopulate(t *testing.T) {
	m := New()
	m.ObserveRainReading(0.3)
	m.ObservePopulate()
	m.ObservePopulate()
	m.ObservePublishFailure()
	m.ObserveAuditFailure()

	if got := testutil.ToFloat64(m.rainReading); got != 0.3 {
		t.Fatalf("rain = %v", got)
	}
	if got := testutil.ToFloat64(m.circlesPopulated); got != 2 {
		t.Fatalf("populations = %v", got)
	}
	if got := testutil.ToFloat64(m.publishFailures); got != 1 {
		t.Fatalf("publish failures = %v", got)
	}
	if got := testutil.ToFloat64(m.auditFailures); got != 1 {
		t.Fatalf("record failures = %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveSchedule("all", 1, 1)
	m.ObserveRainReading(1)
	m.ObservePopulate()
	m.ObservePublishFailure()
	m.ObserveAuditFailure()
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveSchedule("all", 5, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `irrigation_schedule_runs_total{policy="all"} 1`) {
		t.Fatalf("missing counter in output:\n%s", rec.Body.String())
	}
}
