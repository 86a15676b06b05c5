package observability

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the service exports. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec
	llmTokens   *prometheus.CounterVec

	generations      *prometheus.CounterVec
	extraction       *prometheus.CounterVec
	healedRoles      *prometheus.CounterVec
	persistAttempts  *prometheus.CounterVec
	previewSnapshots prometheus.Counter

	imageResolutions *prometheus.CounterVec
	paymentEvents    *prometheus.CounterVec

	sloCompliance *prometheus.GaugeVec
	sloBudget     *prometheus.GaugeVec
	sloBurn       *prometheus.GaugeVec

	// Raw totals the SLO evaluator diffs between ticks.
	apiReqTotal  counter
	apiReqError  counter
	genTotal     counter
	genFailed    counter
	persistTotal counter
	persistError counter
}

type counter struct{ n atomic.Uint64 }

func (c *counter) inc()           { c.n.Add(1) }
func (c *counter) Value() float64 { return float64(c.n.Load()) }

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foundrr_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foundrr_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "foundrr_http_inflight_requests",
			Help: "HTTP requests currently being served.",
		}),
		llmRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foundrr_llm_requests_total",
			Help: "Completion requests by strategy and status.",
		}, []string{"strategy", "model", "status"}),
		llmLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foundrr_llm_request_duration_seconds",
			Help:    "Completion latency from request to last delta.",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 60, 90, 120, 180, 300},
		}, []string{"strategy", "model"}),
		llmTokens: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foundrr_llm_tokens_total",
			Help: "Prompt and completion tokens.",
		}, []string{"model", "kind"}),
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foundrr_generations_total",
			Help: "Generation runs by mode and outcome.",
		}, []string{"mode", "outcome"}),
		extraction: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foundrr_extraction_strategy_total",
			Help: "Which extraction strategy produced the code.",
		}, []string{"strategy"}),
		healedRoles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foundrr_healed_roles_total",
			Help: "Structural roles injected by the self-healer.",
		}, []string{"dialect", "role"}),
		persistAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foundrr_persist_attempts_total",
			Help: "Persistence attempts by target and status.",
		}, []string{"target", "status"}),
		previewSnapshots: f.NewCounter(prometheus.CounterOpts{
			Name: "foundrr_preview_snapshots_total",
			Help: "Preview snapshots published.",
		}),
		imageResolutions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foundrr_image_resolutions_total",
			Help: "Image proxy resolutions by source.",
		}, []string{"source"}),
		paymentEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foundrr_payment_events_total",
			Help: "Payment state transitions.",
		}, []string{"event"}),
		sloCompliance: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "foundrr_slo_compliance_ratio",
			Help: "Good events over total events in the SLO window.",
		}, []string{"slo", "window"}),
		sloBudget: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "foundrr_slo_error_budget_remaining_ratio",
			Help: "Error budget left in the SLO window.",
		}, []string{"slo", "window"}),
		sloBurn: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "foundrr_slo_burn_rate",
			Help: "Error budget burn rate in the SLO window.",
		}, []string{"slo", "window"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(d.Seconds())
	m.apiReqTotal.inc()
	if strings.HasPrefix(status, "5") {
		m.apiReqError.inc()
	}
}

func (m *Metrics) ObserveLLM(strategy, model, status string, d time.Duration, promptTokens, completionTokens int) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(strategy, model, status).Inc()
	if d > 0 {
		m.llmLatency.WithLabelValues(strategy, model).Observe(d.Seconds())
	}
	if promptTokens > 0 {
		m.llmTokens.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		m.llmTokens.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
}

// IncGeneration also feeds the generation SLO. Runs the client abandoned
// count toward neither side.
func (m *Metrics) IncGeneration(mode, outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(mode, outcome).Inc()
	switch outcome {
	case "client_gone":
	case "saved":
		m.genTotal.inc()
	default:
		m.genTotal.inc()
		m.genFailed.inc()
	}
}

func (m *Metrics) IncExtraction(strategy string) {
	if m != nil {
		m.extraction.WithLabelValues(strategy).Inc()
	}
}

func (m *Metrics) IncHealed(dialect, role string) {
	if m != nil {
		m.healedRoles.WithLabelValues(dialect, role).Inc()
	}
}

func (m *Metrics) IncPersistAttempt(target, status string) {
	if m == nil {
		return
	}
	m.persistAttempts.WithLabelValues(target, status).Inc()
	m.persistTotal.inc()
	if status != "ok" {
		m.persistError.inc()
	}
}

func (m *Metrics) IncPreviewSnapshot() {
	if m != nil {
		m.previewSnapshots.Inc()
	}
}

func (m *Metrics) IncImageResolution(source string) {
	if m != nil {
		m.imageResolutions.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) IncPaymentEvent(event string) {
	if m != nil {
		m.paymentEvents.WithLabelValues(event).Inc()
	}
}
