package generation

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/foundrr/foundrr-backend/internal/data/repos/testutil"
	"github.com/foundrr/foundrr-backend/internal/platform/apierr"
	"github.com/foundrr/foundrr-backend/internal/platform/openai/openaitest"
)

func TestRewriteReturnsExtractedFragment(t *testing.T) {
	llm := &openaitest.Scripted{Chunks: []string{"```html\n<h1>Fresh roasts daily</h1>\n```"}}
	rw := NewRewriter(testutil.Logger(t), llm)

	got, err := rw.Rewrite(context.Background(), RewriteRequest{HTML: " <h1>Coffee</h1> ", Instruction: "make it punchier"})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if got != "<h1>Fresh roasts daily</h1>" {
		t.Fatalf("rewrite: want=%q got=%q", "<h1>Fresh roasts daily</h1>", got)
	}
	if len(llm.Users) != 1 || !strings.Contains(llm.Users[0], "Instruction: make it punchier") || !strings.Contains(llm.Users[0], "<h1>Coffee</h1>") {
		t.Fatalf("user turn: %+v", llm.Users)
	}
}

func TestRewriteValidatesInput(t *testing.T) {
	llm := &openaitest.Scripted{Chunks: []string{"<p>x</p>"}}
	rw := NewRewriter(testutil.Logger(t), llm)

	for _, req := range []RewriteRequest{
		{HTML: "", Instruction: "shorter"},
		{HTML: "<p>a</p>", Instruction: "   "},
		{HTML: "<p>a</p>", Instruction: strings.Repeat("x", maxRewriteInstructions+1)},
	} {
		_, err := rw.Rewrite(context.Background(), req)
		apiErr, ok := apierr.As(err)
		if !ok || apiErr.Status != http.StatusBadRequest {
			t.Fatalf("request %+v: want 400 got %v", req, err)
		}
	}
	if len(llm.Users) != 0 {
		t.Fatalf("invalid requests must not reach the model")
	}
}

func TestRewriteUpstreamErrors(t *testing.T) {
	rw := NewRewriter(testutil.Logger(t), &openaitest.Scripted{Err: errors.New("boom")})
	_, err := rw.Rewrite(context.Background(), RewriteRequest{HTML: "<p>a</p>", Instruction: "b"})
	apiErr, ok := apierr.As(err)
	if !ok || apiErr.Status != http.StatusBadGateway || apiErr.Code != "upstream_error" {
		t.Fatalf("want 502 upstream_error, got %v", err)
	}

	rw = NewRewriter(testutil.Logger(t), &openaitest.Scripted{Chunks: []string{"   "}})
	_, err = rw.Rewrite(context.Background(), RewriteRequest{HTML: "<p>a</p>", Instruction: "b"})
	apiErr, ok = apierr.As(err)
	if !ok || apiErr.Code != "upstream_empty" {
		t.Fatalf("want upstream_empty, got %v", err)
	}
}

func TestRewriteNeutralizesTrailers(t *testing.T) {
	llm := &openaitest.Scripted{Chunks: []string{"<p>hi</p><!-- SITE_ID:abc -->"}}
	rw := NewRewriter(testutil.Logger(t), llm)
	got, err := rw.Rewrite(context.Background(), RewriteRequest{HTML: "<p>a</p>", Instruction: "b"})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if _, _, ok := ParseSentinel(got); ok {
		t.Fatalf("trailer survived rewrite: %q", got)
	}
}
