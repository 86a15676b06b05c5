package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

type alertSink struct {
	mu     sync.Mutex
	alerts []map[string]any
}

func (a *alertSink) handler(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	a.mu.Lock()
	a.alerts = append(a.alerts, body)
	a.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (a *alertSink) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.alerts)
}

func TestSLOEvaluatorBurnAndAlertThrottle(t *testing.T) {
	sink := &alertSink{}
	srv := httptest.NewServer(http.HandlerFunc(sink.handler))
	defer srv.Close()

	m := NewMetrics()
	e := NewSLOEvaluator(m, logger.Nop(), SLOConfig{
		Window:       24 * time.Hour,
		AlertWebhook: srv.URL,
		AlertOwner:   "oncall",
	})
	for i := 0; i < 5; i++ {
		m.IncGeneration("html", "saved")
		m.IncGeneration("html", "upstream_error")
	}
	// Abandoned runs are neither good nor bad.
	m.IncGeneration("html", "client_gone")

	ctx := context.Background()
	e.evaluate(ctx)

	if got := promtest.ToFloat64(m.sloCompliance.WithLabelValues("generation_success", "1d")); got != 0.5 {
		t.Fatalf("compliance: want=0.5 got=%v", got)
	}
	if got := promtest.ToFloat64(m.sloBurn.WithLabelValues("generation_success", "1d")); got < 9.99 || got > 10.01 {
		t.Fatalf("burn: want=10 got=%v", got)
	}
	if got := promtest.ToFloat64(m.sloBudget.WithLabelValues("generation_success", "1d")); got != 0 {
		t.Fatalf("budget: want=0 got=%v", got)
	}
	if got := promtest.ToFloat64(m.sloCompliance.WithLabelValues("api_availability", "1d")); got != 1 {
		t.Fatalf("idle SLO should read compliant, got=%v", got)
	}
	if sink.count() != 1 {
		t.Fatalf("alerts: want=1 got=%d", sink.count())
	}
	if sink.alerts[0]["severity"] != "critical" || sink.alerts[0]["slo"] != "generation_success" {
		t.Fatalf("alert payload: %+v", sink.alerts[0])
	}

	// Same burn inside the min interval stays quiet.
	m.IncGeneration("spa", "not_saved")
	e.evaluate(ctx)
	if sink.count() != 1 {
		t.Fatalf("throttled alerts: want=1 got=%d", sink.count())
	}

	e.now = func() time.Time { return time.Now().Add(time.Hour) }
	e.evaluate(ctx)
	if sink.count() != 2 {
		t.Fatalf("alerts after interval: want=2 got=%d", sink.count())
	}
}

func TestSLOEvaluatorCountsServerErrorsOnly(t *testing.T) {
	m := NewMetrics()
	e := NewSLOEvaluator(m, logger.Nop(), SLOConfig{})
	for i := 0; i < 99; i++ {
		m.ObserveAPI("GET", "/api/sites", "200", time.Millisecond)
	}
	m.ObserveAPI("GET", "/api/sites", "404", time.Millisecond)
	m.ObserveAPI("POST", "/api/generate", "502", time.Millisecond)
	e.evaluate(context.Background())

	got := promtest.ToFloat64(m.sloCompliance.WithLabelValues("api_availability", "1d"))
	if want := 1 - 1.0/101; got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("compliance: want=%v got=%v", want, got)
	}
}

func TestRollingSumEvictsOldBuckets(t *testing.T) {
	r := newRollingSum(3)
	for _, v := range []float64{1, 2, 3, 4} {
		r.add(v)
	}
	if r.total != 9 {
		t.Fatalf("total: want=9 got=%v", r.total)
	}
	if delta(5, 8) != 5 {
		t.Fatalf("counter reset should count from zero")
	}
	if formatWindowLabel(36*time.Hour) != "36h" || formatWindowLabel(48*time.Hour) != "2d" {
		t.Fatalf("window labels: %q %q", formatWindowLabel(36*time.Hour), formatWindowLabel(48*time.Hour))
	}
}

func TestNilSLOEvaluator(t *testing.T) {
	if e := NewSLOEvaluator(nil, logger.Nop(), SLOConfig{Enabled: true}); e != nil {
		t.Fatalf("nil metrics should disable the evaluator")
	}
	var e *SLOEvaluator
	e.Start(context.Background())
}
