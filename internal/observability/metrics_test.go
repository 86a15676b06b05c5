package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.IncGeneration("html", "saved")
	m.ObserveLLM("streamed", "gpt-4o", "ok", time.Second, 10, 20)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("nil handler: want=404 got=%d", rec.Code)
	}
}

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.IncGeneration("html", "saved")
	m.IncHealed("react", "footer")
	m.ObserveLLM("streamed", "gpt-4o", "ok", 2*time.Second, 100, 400)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		`foundrr_generations_total{mode="html",outcome="saved"} 1`,
		`foundrr_healed_roles_total{dialect="react",role="footer"} 1`,
		`foundrr_llm_tokens_total{kind="completion",model="gpt-4o"} 400`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("exposition missing %q", want)
		}
	}
}
