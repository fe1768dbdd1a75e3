package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposed(t *testing.T) {
	RecordPropagation("ok")
	RecordPropagation("decayed")
	RecordBatch(120*time.Millisecond, 42)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`orbitcore_propagations_total{outcome="ok"}`,
		`orbitcore_propagations_total{outcome="decayed"}`,
		"orbitcore_batch_duration_seconds",
		"orbitcore_batch_size 42",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
