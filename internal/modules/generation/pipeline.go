package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/foundrr/foundrr-backend/internal/data/repos"
	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/observability"
	"github.com/foundrr/foundrr-backend/internal/platform/apierr"
	"github.com/foundrr/foundrr-backend/internal/platform/ctxutil"
	"github.com/foundrr/foundrr-backend/internal/platform/dbctx"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
	"github.com/foundrr/foundrr-backend/internal/platform/openai"
	"github.com/foundrr/foundrr-backend/internal/realtime"
)

type Strategy string

const (
	StrategyAuto     Strategy = ""
	StrategyStreamed Strategy = "streamed"
	StrategyBuffered Strategy = "buffered"
)

const (
	nameMaxRunes = 30
	untitledName = "Untitled Project"
)

type Config struct {
	DefaultMode     types.Mode
	Strategy        Strategy
	PreviewInterval time.Duration
	Price           float64
	Currency        string
}

// Reservation is a validated request with its site id allocated. It exists
// before the first upstream byte so the preview channel can be announced.
type Reservation struct {
	Owner   uuid.UUID
	SiteID  string
	Channel string
	Request types.Request
}

type OutcomeKind string

const (
	OutcomeSaved         OutcomeKind = "saved"
	OutcomeNotSaved      OutcomeKind = "not_saved"
	OutcomeUpstreamError OutcomeKind = "upstream_error"
	OutcomeClientGone    OutcomeKind = "client_gone"
)

type Outcome struct {
	Kind     OutcomeKind
	Site     *types.Site
	Document *Document
	Injected int
}

type Pipeline struct {
	log     *logger.Logger
	llm     openai.Client
	sites   repos.SiteRepo
	sink    *Sink
	preview PreviewPublisher
	metrics *observability.Metrics
	cfg     Config
}

func NewPipeline(
	log *logger.Logger,
	llm openai.Client,
	sites repos.SiteRepo,
	sink *Sink,
	preview PreviewPublisher,
	metrics *observability.Metrics,
	cfg Config,
) *Pipeline {
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = types.ModeHTML
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	return &Pipeline{
		log:     log.With("service", "GenerationPipeline"),
		llm:     llm,
		sites:   sites,
		sink:    sink,
		preview: preview,
		metrics: metrics,
		cfg:     cfg,
	}
}

// StrategyFor maps a mode to its completion strategy unless config pins one.
func (p *Pipeline) StrategyFor(mode types.Mode) Strategy {
	if p.cfg.Strategy != StrategyAuto {
		return p.cfg.Strategy
	}
	if mode == types.ModeSPA {
		return StrategyBuffered
	}
	return StrategyStreamed
}

// Reserve validates the request and allocates its site id. Errors are
// *apierr.Error so handlers can reply before any model cost.
func (p *Pipeline) Reserve(ctx context.Context, owner uuid.UUID, req types.Request) (*Reservation, error) {
	if owner == uuid.Nil {
		return nil, apierr.Unauthorized("unauthenticated", errors.New("authentication required"))
	}
	normalized, err := req.Normalize(p.cfg.DefaultMode)
	switch {
	case errors.Is(err, types.ErrEmptyPrompt):
		return nil, apierr.BadRequest("missing_prompt", err)
	case err != nil:
		return nil, apierr.BadRequest("invalid_request", err)
	}

	siteID, err := ReserveSiteID(ctx, func(ctx context.Context, id string) (bool, error) {
		return p.sites.Exists(dbctx.With(ctx), id)
	})
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "id_reservation_failed", err)
	}
	return &Reservation{
		Owner:   owner,
		SiteID:  siteID,
		Channel: realtime.PreviewChannel(owner, siteID),
		Request: normalized,
	}, nil
}

// Run drives one generation to its trailer. It returns an error only when
// nothing was written to w, so the caller can still answer with JSON.
func (p *Pipeline) Run(ctx context.Context, res *Reservation, w StreamWriter) (*Outcome, error) {
	req := res.Request
	strategy := p.StrategyFor(req.Mode)
	log := p.log.With(append(ctxutil.LogFields(ctx),
		"site_id", res.SiteID,
		"owner_id", res.Owner.String(),
		"mode", string(req.Mode),
		"strategy", string(strategy),
	)...)

	prompt := Compose(req)
	doc := NewDocument()
	relayCfg := RelayConfig{
		Document: doc,
		Channel:  res.Channel,
		Interval: p.cfg.PreviewInterval,
		Metrics:  p.metrics,
		Log:      log,
	}
	// A buffered response commits its headers, and with them the preview
	// channel, only once the document is done, so nobody could be listening.
	if strategy == StrategyStreamed {
		relayCfg.Writer = w
		relayCfg.Publisher = p.preview
	}
	relay := NewRelay(ctx, relayCfg)

	start := time.Now()
	var err error
	if strategy == StrategyStreamed {
		_, err = p.llm.StreamChat(ctx, prompt.System, prompt.User, relay.OnDelta)
	} else {
		var comp openai.Completion
		comp, err = p.llm.Chat(ctx, prompt.System, prompt.User)
		if err == nil {
			err = relay.OnDelta(comp.Text)
		}
	}
	closeErr := relay.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		return p.fail(ctx, log, res, doc, w, err)
	}

	assembled := Assemble(doc.Raw(), req)
	if ferr := doc.Finalize(assembled.Code, assembled.Markup); ferr != nil {
		return nil, ferr
	}
	p.metrics.IncExtraction(string(assembled.Strategy))
	for _, role := range assembled.Injected {
		p.metrics.IncHealed(string(assembled.Dialect), string(role))
	}
	log.Info("Generation complete",
		"duration_ms", time.Since(start).Milliseconds(),
		"raw_bytes", len(doc.Raw()),
		"extraction", string(assembled.Strategy),
		"healed", len(assembled.Injected),
	)

	if strategy == StrategyBuffered {
		if _, werr := io.WriteString(w, assembled.Markup); werr != nil {
			// The client is gone but the work is done; keep it.
			log.Warn("Client write failed before persist", "error", werr)
		}
		w.Flush()
	}

	site, err := p.sink.Persist(ctx, res.Owner, res.SiteID, assembled.Markup, SiteMeta{
		Name:     SiteName(req.Prompt),
		Mode:     req.Mode,
		Style:    req.Style,
		Lang:     req.Lang,
		Price:    p.cfg.Price,
		Currency: p.cfg.Currency,
	})
	if err != nil {
		p.metrics.IncGeneration(string(req.Mode), string(OutcomeNotSaved))
		p.trailer(w, log, SentinelSaveFailed, res.SiteID)
		return &Outcome{Kind: OutcomeNotSaved, Document: doc, Injected: len(assembled.Injected)}, nil
	}

	p.metrics.IncGeneration(string(req.Mode), string(OutcomeSaved))
	if p.preview != nil {
		msg := realtime.SSEMessage{
			Channel: realtime.UserChannel(res.Owner),
			Event:   realtime.SSEEventSiteSaved,
			Data:    map[string]any{"site_id": site.ID, "name": site.Name},
		}
		if perr := p.preview.Publish(context.WithoutCancel(ctx), msg); perr != nil {
			log.Warn("SiteSaved publish failed", "error", perr)
		}
	}
	p.trailer(w, log, SentinelSiteID, res.SiteID)
	return &Outcome{Kind: OutcomeSaved, Site: site, Document: doc, Injected: len(assembled.Injected)}, nil
}

func (p *Pipeline) fail(ctx context.Context, log *logger.Logger, res *Reservation, doc *Document, w StreamWriter, err error) (*Outcome, error) {
	if errors.Is(err, ErrClientGone) || ctx.Err() != nil {
		p.metrics.IncGeneration(string(res.Request.Mode), string(OutcomeClientGone))
		log.Info("Client went away; generation abandoned", "received_bytes", len(doc.Raw()), "error", err)
		return &Outcome{Kind: OutcomeClientGone, Document: doc}, nil
	}

	p.metrics.IncGeneration(string(res.Request.Mode), string(OutcomeUpstreamError))
	code := openai.UpstreamCode(err)
	log.Error("Generation failed upstream", "code", code, "received_bytes", len(doc.Raw()), "error", err)
	if !w.Started() {
		status := http.StatusBadGateway
		if code == "upstream_timeout" {
			status = http.StatusGatewayTimeout
		}
		return nil, apierr.New(status, code, fmt.Errorf("generation failed: %w", err))
	}
	p.trailer(w, log, SentinelError, code)
	return &Outcome{Kind: OutcomeUpstreamError, Document: doc}, nil
}

func (p *Pipeline) trailer(w StreamWriter, log *logger.Logger, kind SentinelKind, value string) {
	if _, err := io.WriteString(w, Sentinel(kind, value)); err != nil {
		log.Warn("Trailer write failed", "kind", string(kind), "error", err)
		return
	}
	w.Flush()
}

// SiteName derives the display name from the prompt.
func SiteName(prompt string) string {
	if prompt == "" {
		return untitledName
	}
	if utf8.RuneCountInString(prompt) <= nameMaxRunes {
		return prompt
	}
	return string([]rune(prompt)[:nameMaxRunes])
}
