package observability

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/themes", "200", time.Millisecond)
	m.ObserveAggregateOperation("Memory.Theme.Apply", "success", time.Millisecond)
	m.AddThemeReconciled("Memory.Consistency.ReconcileUser", 3)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil WritePrometheus: %v", err)
	}
	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("want 503 got %d", rec.Code)
	}
}

func TestWritePrometheusExposesAggregateSeries(t *testing.T) {
	m := New()
	m.ObserveAggregateOperation("Memory.Theme.Apply", "success", 20*time.Millisecond)
	m.IncAggregateConflict("Memory.Theme.Apply")
	m.AddThemeReconciled("Memory.Consistency.ReconcileUser", 2)
	m.AddThemeReconciled("Memory.Consistency.ReconcileUser", 0)
	m.IncEventPublished("themes.applied", "ok")

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`standup_aggregate_operations_total{op="Memory.Theme.Apply",status="success"} 1`,
		`standup_aggregate_conflicts_total{op="Memory.Theme.Apply"} 1`,
		`standup_theme_reconciled_total{op="Memory.Consistency.ReconcileUser"} 2`,
		`standup_events_published_total{event="themes.applied",status="ok"} 1`,
		`standup_aggregate_operation_duration_seconds_bucket{op="Memory.Theme.Apply",status="success",le="0.025"} 1`,
		`standup_aggregate_operation_duration_seconds_count{op="Memory.Theme.Apply",status="success"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := NewHistogramVec("h", "test", []string{"k"}, []float64{1, 2})
	h.Observe(0.5, "a")
	h.Observe(1.5, "a")
	h.Observe(5, "a")
	var buf bytes.Buffer
	if err := h.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`h_bucket{k="a",le="1"} 1`, `h_bucket{k="a",le="2"} 2`, `h_bucket{k="a",le="+Inf"} 3`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if h.Count("a") != 3 {
		t.Fatalf("want 3 observations got %d", h.Count("a"))
	}
}

func TestLabelEscaping(t *testing.T) {
	c := NewCounterVec("c", "test", []string{"route"})
	c.Inc(`/a"b`)
	c.Inc("")
	if c.Value(`/a"b`) != 1 || c.Value("unknown") != 1 {
		t.Fatalf("unexpected values")
	}
	var buf bytes.Buffer
	_ = c.WritePrometheus(&buf)
	if !strings.Contains(buf.String(), `c{route="/a\"b"} 1`) {
		t.Fatalf("label not escaped: %s", buf.String())
	}
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" api-key = abc , broken, =x,team=core")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "core" {
		t.Fatalf("unexpected headers: %v", got)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("empty input should yield nil")
	}
	if StatusClass(404) != "4xx" || StatusClass(201) != "2xx" {
		t.Fatalf("unexpected status classes")
	}
}
