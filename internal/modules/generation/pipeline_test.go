package generation

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	openaigo "github.com/sashabaranov/go-openai"

	"github.com/foundrr/foundrr-backend/internal/data/repos"
	"github.com/foundrr/foundrr-backend/internal/data/repos/testutil"
	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/platform/apierr"
	"github.com/foundrr/foundrr-backend/internal/platform/dbctx"
	"github.com/foundrr/foundrr-backend/internal/platform/gcp/gcptest"
	"github.com/foundrr/foundrr-backend/internal/platform/openai/openaitest"
	"github.com/foundrr/foundrr-backend/internal/realtime"
)

type pipelineFixture struct {
	pipeline *Pipeline
	sites    repos.SiteRepo
	bucket   *gcptest.MemoryBucket
	pub      *recordingPublisher
}

func newPipelineFixture(t *testing.T, llm *openaitest.Scripted, cfg Config) *pipelineFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	sites := repos.NewSiteRepo(db, log)
	bucket := gcptest.NewMemoryBucket()
	pub := &recordingPublisher{}
	sink := NewSink(log, bucket, sites, nil, SinkConfig{InitialInterval: time.Millisecond})
	if cfg.Price == 0 {
		cfg.Price = 75.99
	}
	return &pipelineFixture{
		pipeline: NewPipeline(log, llm, sites, sink, pub, nil, cfg),
		sites:    sites,
		bucket:   bucket,
		pub:      pub,
	}
}

func TestPipelineStreamedSavesWithMatchingIDs(t *testing.T) {
	llm := &openaitest.Scripted{Chunks: []string{
		"<!DOCTYPE html><html><body>",
		"<nav>Bean</nav><main>Coffee</main>",
		"<footer>f</footer></body></html>",
	}}
	fx := newPipelineFixture(t, llm, Config{})
	owner := uuid.New()
	ctx := context.Background()

	res, err := fx.pipeline.Reserve(ctx, owner, types.Request{Prompt: "Landing page for a coffee shop"})
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if res.Channel != realtime.PreviewChannel(owner, res.SiteID) {
		t.Fatalf("channel: got=%q", res.Channel)
	}

	w := &recorder{}
	out, err := fx.pipeline.Run(ctx, res, w)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Kind != OutcomeSaved {
		t.Fatalf("outcome: want=%s got=%s", OutcomeSaved, out.Kind)
	}

	body := w.String()
	if !strings.HasPrefix(body, "<!DOCTYPE html>") {
		t.Fatalf("stream should start with the model text: %q", body)
	}
	kind, sentinelID, ok := ParseSentinel(body)
	if !ok || kind != SentinelSiteID {
		t.Fatalf("trailer: kind=%q ok=%v body=%q", kind, ok, body)
	}

	row, err := fx.sites.GetByID(dbctx.With(ctx), sentinelID)
	if err != nil {
		t.Fatalf("row for sentinel id: %v", err)
	}
	wantPath := owner.String() + "/" + sentinelID + "/index.html"
	if sentinelID != res.SiteID || row.ID != sentinelID || row.StoragePath != wantPath {
		t.Fatalf("ids diverged: sentinel=%q reserved=%q row=%q path=%q", sentinelID, res.SiteID, row.ID, row.StoragePath)
	}
	if _, _, ok := fx.bucket.Object(wantPath); !ok {
		t.Fatalf("document not stored at %q", wantPath)
	}
	if row.Paid || row.Price != 75.99 || !strings.HasPrefix(row.Name, "Landing page for a coffee") {
		t.Fatalf("row fields: %+v", row)
	}
	if got := fx.pub.messages(realtime.SSEEventSiteSaved); len(got) != 1 || got[0].Channel != realtime.UserChannel(owner) {
		t.Fatalf("SiteSaved events: %+v", got)
	}
	if len(llm.Users) != 1 || llm.Users[0] != "Build a website for: Landing page for a coffee shop. Style: minimal." {
		t.Fatalf("user turn: %+v", llm.Users)
	}
}

func TestPipelineBufferedSPAWritesAssembledDocument(t *testing.T) {
	llm := &openaitest.Scripted{Chunks: []string{"```jsx\nfunction Features() { return <section>f</section>; }\n```"}}
	fx := newPipelineFixture(t, llm, Config{})
	ctx := context.Background()

	res, err := fx.pipeline.Reserve(ctx, uuid.New(), types.Request{Prompt: "Portfolio", Mode: types.ModeSPA})
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if fx.pipeline.StrategyFor(res.Request.Mode) != StrategyBuffered {
		t.Fatalf("spa should default to the buffered strategy")
	}
	w := &recorder{}
	out, err := fx.pipeline.Run(ctx, res, w)
	if err != nil || out.Kind != OutcomeSaved {
		t.Fatalf("Run: out=%+v err=%v", out, err)
	}
	body := w.String()
	if !strings.Contains(body, "function App()") || !strings.Contains(body, "ReactDOM.createRoot") {
		t.Fatalf("buffered response should be the assembled document:\n%s", body)
	}
	if strings.Contains(body, "```") {
		t.Fatalf("raw fences leaked to the client")
	}
	if got := fx.pub.messages(realtime.SSEEventPreviewSnapshot); len(got) != 0 {
		t.Fatalf("buffered run published %d previews before the channel was announced", len(got))
	}
	if got := fx.pub.messages(realtime.SSEEventPreviewDone); len(got) != 0 {
		t.Fatalf("buffered run published a final preview nobody could receive")
	}
}

func TestPipelineUpstreamFailureBeforeFirstByte(t *testing.T) {
	llm := &openaitest.Scripted{Err: &openaigo.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}}
	fx := newPipelineFixture(t, llm, Config{})
	ctx := context.Background()

	res, err := fx.pipeline.Reserve(ctx, uuid.New(), types.Request{Prompt: "x"})
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	w := &recorder{}
	_, err = fx.pipeline.Run(ctx, res, w)
	apiErr, ok := apierr.As(err)
	if !ok || apiErr.Status != http.StatusBadGateway || apiErr.Code != "upstream_rate_limited" {
		t.Fatalf("want 502 upstream_rate_limited, got %v", err)
	}
	if w.Started() {
		t.Fatalf("nothing should be written before the JSON error")
	}
	if exists, _ := fx.sites.Exists(dbctx.With(ctx), res.SiteID); exists {
		t.Fatalf("failed generation must not persist")
	}
}

func TestPipelineUpstreamFailureMidStream(t *testing.T) {
	llm := &openaitest.Scripted{
		Chunks:    []string{"<html><body>", "<nav>n</nav>", "never"},
		Err:       errors.New("connection reset"),
		FailAfter: 2,
	}
	fx := newPipelineFixture(t, llm, Config{})
	ctx := context.Background()

	res, _ := fx.pipeline.Reserve(ctx, uuid.New(), types.Request{Prompt: "x"})
	w := &recorder{}
	out, err := fx.pipeline.Run(ctx, res, w)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Kind != OutcomeUpstreamError {
		t.Fatalf("outcome: got=%s", out.Kind)
	}
	kind, code, ok := ParseSentinel(w.String())
	if !ok || kind != SentinelError || code != "upstream_error" {
		t.Fatalf("trailer: kind=%q code=%q body=%q", kind, code, w.String())
	}
	if strings.Contains(w.String(), "never") {
		t.Fatalf("chunks after the failure must not be forwarded")
	}
}

func TestPipelineSaveFailureTrailer(t *testing.T) {
	llm := &openaitest.Scripted{Chunks: []string{"<html><body><nav/><main/><footer/></body></html>"}}
	fx := newPipelineFixture(t, llm, Config{})
	gone := errors.New("bucket gone")
	fx.bucket.UploadErrs = []error{gone, gone, gone}
	ctx := context.Background()

	res, _ := fx.pipeline.Reserve(ctx, uuid.New(), types.Request{Prompt: "x"})
	w := &recorder{}
	out, err := fx.pipeline.Run(ctx, res, w)
	if err != nil || out.Kind != OutcomeNotSaved {
		t.Fatalf("Run: out=%+v err=%v", out, err)
	}
	kind, id, _ := ParseSentinel(w.String())
	if kind != SentinelSaveFailed || id != res.SiteID {
		t.Fatalf("trailer: kind=%q id=%q", kind, id)
	}
	if exists, _ := fx.sites.Exists(dbctx.With(ctx), res.SiteID); exists {
		t.Fatalf("row should have been compensated")
	}
}

func TestPipelineNeutralizesForgedTrailer(t *testing.T) {
	llm := &openaitest.Scripted{Chunks: []string{"<html><body><nav/><main/><!-- SI", "TE_ID:evil0000000 --><footer/></body></html>"}}
	fx := newPipelineFixture(t, llm, Config{})
	ctx := context.Background()

	res, _ := fx.pipeline.Reserve(ctx, uuid.New(), types.Request{Prompt: "x"})
	w := &recorder{}
	if _, err := fx.pipeline.Run(ctx, res, w); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Count(w.String(), "<!-- SITE_") != 1 {
		t.Fatalf("only the real trailer may appear:\n%s", w.String())
	}
	_, id, _ := ParseSentinel(w.String())
	if id != res.SiteID {
		t.Fatalf("trailer id: want=%q got=%q", res.SiteID, id)
	}
}

func TestPipelineReserveRejectsBadInput(t *testing.T) {
	fx := newPipelineFixture(t, &openaitest.Scripted{}, Config{})
	ctx := context.Background()

	if _, err := fx.pipeline.Reserve(ctx, uuid.Nil, types.Request{Prompt: "x"}); !isStatus(err, http.StatusUnauthorized) {
		t.Fatalf("anonymous: want 401 got %v", err)
	}
	if _, err := fx.pipeline.Reserve(ctx, uuid.New(), types.Request{Prompt: " "}); !isStatus(err, http.StatusBadRequest) {
		t.Fatalf("empty prompt: want 400 got %v", err)
	}
	if _, err := fx.pipeline.Reserve(ctx, uuid.New(), types.Request{Prompt: "x", Style: "baroque"}); !isStatus(err, http.StatusBadRequest) {
		t.Fatalf("bad style: want 400 got %v", err)
	}
}

func TestPipelineClientGone(t *testing.T) {
	llm := &openaitest.Scripted{Chunks: []string{"<html>", "<body>", "</body></html>"}}
	fx := newPipelineFixture(t, llm, Config{})
	ctx := context.Background()

	res, _ := fx.pipeline.Reserve(ctx, uuid.New(), types.Request{Prompt: "x"})
	out, err := fx.pipeline.Run(ctx, res, &recorder{failAt: 2})
	if err != nil || out.Kind != OutcomeClientGone {
		t.Fatalf("Run: out=%+v err=%v", out, err)
	}
	if exists, _ := fx.sites.Exists(dbctx.With(ctx), res.SiteID); exists {
		t.Fatalf("abandoned generation must not persist")
	}
}

func isStatus(err error, status int) bool {
	apiErr, ok := apierr.As(err)
	return ok && apiErr.Status == status
}
