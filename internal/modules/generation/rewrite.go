package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/foundrr/foundrr-backend/internal/modules/generation/extract"
	"github.com/foundrr/foundrr-backend/internal/platform/apierr"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
	"github.com/foundrr/foundrr-backend/internal/platform/openai"
)

const (
	maxRewriteHTMLBytes    = 200_000
	maxRewriteInstructions = 500
)

const rewriteSystemPrompt = `You rewrite the visible text of an HTML fragment.

STRICT RULES:
1. Change only text nodes and the alt/title/placeholder attributes.
2. Keep every tag, class, id, href, src and data attribute exactly as given.
3. Return ONLY the rewritten HTML fragment. No markdown, no commentary.`

type RewriteRequest struct {
	HTML        string `json:"html"`
	Instruction string `json:"instruction"`
}

func (r RewriteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.HTML, validation.Required, validation.Length(1, maxRewriteHTMLBytes)),
		validation.Field(&r.Instruction, validation.Required, validation.RuneLength(1, maxRewriteInstructions)),
	)
}

// Rewriter edits the copy of an existing fragment with one buffered
// completion. Layout is never regenerated.
type Rewriter struct {
	log *logger.Logger
	llm openai.Client
}

func NewRewriter(log *logger.Logger, llm openai.Client) *Rewriter {
	return &Rewriter{log: log.With("service", "Rewriter"), llm: llm}
}

func (rw *Rewriter) Rewrite(ctx context.Context, req RewriteRequest) (string, error) {
	req.HTML = strings.TrimSpace(req.HTML)
	req.Instruction = strings.TrimSpace(req.Instruction)
	if err := req.Validate(); err != nil {
		return "", apierr.BadRequest("invalid_request", err)
	}

	user := fmt.Sprintf("Instruction: %s\n\nHTML:\n%s", req.Instruction, req.HTML)
	comp, err := rw.llm.Chat(ctx, rewriteSystemPrompt, user)
	if err != nil {
		rw.log.Warn("Rewrite failed", "instruction", req.Instruction, "error", err)
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", apierr.New(http.StatusBadGateway, openai.UpstreamCode(err), err)
	}
	out := extract.Extract(comp.Text).Code
	if out == "" {
		return "", apierr.New(http.StatusBadGateway, "upstream_empty", errors.New("rewrite returned no content"))
	}
	return Neutralize(out), nil
}
