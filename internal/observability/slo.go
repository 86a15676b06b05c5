package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

type rollingSum struct {
	values []float64
	idx    int
	total  float64
}

func newRollingSum(size int) *rollingSum {
	if size < 1 {
		size = 1
	}
	return &rollingSum{values: make([]float64, size)}
}

func (r *rollingSum) add(v float64) {
	r.total += v - r.values[r.idx]
	r.values[r.idx] = v
	r.idx++
	if r.idx >= len(r.values) {
		r.idx = 0
	}
}

type SLOConfig struct {
	Enabled  bool
	Interval time.Duration
	Window   time.Duration

	APIAvailabilityTarget   float64
	GenerationSuccessTarget float64
	PersistSuccessTarget    float64

	AlertWebhook     string
	AlertOwner       string
	AlertRunbook     string
	AlertMinInterval time.Duration
	AlertBurnWarn    float64
	AlertBurnCrit    float64
}

func (c SLOConfig) withDefaults() SLOConfig {
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	if c.Window < time.Hour {
		c.Window = 24 * time.Hour
	}
	if c.APIAvailabilityTarget <= 0 {
		c.APIAvailabilityTarget = 0.995
	}
	if c.GenerationSuccessTarget <= 0 {
		c.GenerationSuccessTarget = 0.95
	}
	if c.PersistSuccessTarget <= 0 {
		c.PersistSuccessTarget = 0.99
	}
	if c.AlertMinInterval <= 0 {
		c.AlertMinInterval = 15 * time.Minute
	}
	if c.AlertBurnWarn <= 0 {
		c.AlertBurnWarn = 2
	}
	if c.AlertBurnCrit <= 0 {
		c.AlertBurnCrit = 10
	}
	return c
}

type sloSource struct {
	name    string
	target  float64
	total   func() float64
	bad     func() float64
	sumAll  *rollingSum
	sumBad  *rollingSum
	prevAll float64
	prevBad float64
}

// SLOEvaluator turns raw counters into rolling-window compliance, budget and
// burn-rate gauges, and posts an alert when the burn rate crosses a threshold.
type SLOEvaluator struct {
	metrics     *Metrics
	log         *logger.Logger
	cfg         SLOConfig
	windowLabel string
	sources     []*sloSource
	httpClient  *http.Client
	now         func() time.Time

	alertMu    sync.Mutex
	lastAlerts map[string]time.Time
}

func NewSLOEvaluator(m *Metrics, log *logger.Logger, cfg SLOConfig) *SLOEvaluator {
	if m == nil {
		return nil
	}
	cfg = cfg.withDefaults()
	size := int(cfg.Window / cfg.Interval)
	src := func(name string, target float64, total, bad *counter) *sloSource {
		return &sloSource{
			name:   name,
			target: clamp01(target),
			total:  total.Value,
			bad:    bad.Value,
			sumAll: newRollingSum(size),
			sumBad: newRollingSum(size),
		}
	}
	return &SLOEvaluator{
		metrics:     m,
		log:         log.With("component", "SLOEvaluator"),
		cfg:         cfg,
		windowLabel: formatWindowLabel(cfg.Window),
		sources: []*sloSource{
			src("api_availability", cfg.APIAvailabilityTarget, &m.apiReqTotal, &m.apiReqError),
			src("generation_success", cfg.GenerationSuccessTarget, &m.genTotal, &m.genFailed),
			src("persist_success", cfg.PersistSuccessTarget, &m.persistTotal, &m.persistError),
		},
		httpClient: &http.Client{Timeout: 5 * time.Second, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		now:        time.Now,
		lastAlerts: map[string]time.Time{},
	}
}

// Start evaluates every interval until ctx is done. It is a no-op when the
// evaluator is nil or disabled.
func (e *SLOEvaluator) Start(ctx context.Context) {
	if e == nil || !e.cfg.Enabled {
		return
	}
	go e.run(ctx)
	e.log.Info("SLO evaluator started", "window", e.windowLabel, "interval", e.cfg.Interval.String())
}

func (e *SLOEvaluator) run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.evaluate(ctx)
		}
	}
}

func (e *SLOEvaluator) evaluate(ctx context.Context) {
	for _, s := range e.sources {
		total, bad := s.total(), s.bad()
		s.sumAll.add(delta(total, s.prevAll))
		s.sumBad.add(delta(bad, s.prevBad))
		s.prevAll, s.prevBad = total, bad
		e.evalSLO(ctx, s.name, s.sumAll.total, s.sumBad.total, s.target)
	}
}

func (e *SLOEvaluator) evalSLO(ctx context.Context, name string, total, bad, target float64) {
	if total <= 0 {
		e.metrics.sloCompliance.WithLabelValues(name, e.windowLabel).Set(1)
		e.metrics.sloBudget.WithLabelValues(name, e.windowLabel).Set(1)
		e.metrics.sloBurn.WithLabelValues(name, e.windowLabel).Set(0)
		return
	}
	sli := clamp01(1 - bad/total)
	burn := 0.0
	if target < 1 {
		burn = (1 - sli) / (1 - target)
	}
	budget := clamp01(1 - burn)
	e.metrics.sloCompliance.WithLabelValues(name, e.windowLabel).Set(sli)
	e.metrics.sloBudget.WithLabelValues(name, e.windowLabel).Set(budget)
	e.metrics.sloBurn.WithLabelValues(name, e.windowLabel).Set(burn)

	severity := ""
	switch {
	case burn >= e.cfg.AlertBurnCrit:
		severity = "critical"
	case burn >= e.cfg.AlertBurnWarn:
		severity = "warning"
	}
	if severity == "" {
		return
	}
	e.log.Warn("SLO burning", "slo", name, "severity", severity, "sli", sli, "burn_rate", burn)
	if e.cfg.AlertWebhook == "" {
		return
	}

	key := name + ":" + severity
	now := e.now()
	e.alertMu.Lock()
	last := e.lastAlerts[key]
	if !last.IsZero() && now.Sub(last) < e.cfg.AlertMinInterval {
		e.alertMu.Unlock()
		return
	}
	e.lastAlerts[key] = now
	e.alertMu.Unlock()
	e.sendAlert(ctx, name, severity, sli, target, burn, budget)
}

func (e *SLOEvaluator) sendAlert(ctx context.Context, name, severity string, sli, target, burn, budget float64) {
	payload := map[string]any{
		"title":                  "SLO burn rate alert",
		"severity":               severity,
		"owner":                  e.cfg.AlertOwner,
		"slo":                    name,
		"window":                 e.windowLabel,
		"sli":                    sli,
		"target":                 target,
		"burn_rate":              burn,
		"error_budget_remaining": budget,
		"runbook":                e.cfg.AlertRunbook,
		"timestamp":              e.now().UTC().Format(time.RFC3339),
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.AlertWebhook, bytes.NewReader(body))
	if err != nil {
		e.log.Warn("SLO alert request build failed", "error", err, "slo", name)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.log.Warn("SLO alert post failed", "error", err, "slo", name)
		return
	}
	_ = resp.Body.Close()
	e.log.Info("SLO alert sent", "slo", name, "severity", severity, "status", resp.StatusCode)
}

// delta treats a counter that went backwards as reset.
func delta(current, prev float64) float64 {
	if current < prev {
		return current
	}
	return current - prev
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func formatWindowLabel(window time.Duration) string {
	hours := window.Hours()
	if hours >= 24 && int(hours)%24 == 0 && hours == float64(int(hours)) {
		return strconv.Itoa(int(hours/24)) + "d"
	}
	if hours >= 1 {
		return strconv.Itoa(int(hours)) + "h"
	}
	return strconv.Itoa(int(window.Minutes())) + "m"
}
