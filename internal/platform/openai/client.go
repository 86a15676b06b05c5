package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/foundrr/foundrr-backend/internal/observability"
	"github.com/foundrr/foundrr-backend/internal/platform/ctxutil"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

// ErrUpstream wraps every failure that originates at the completion provider.
var ErrUpstream = errors.New("upstream completion failed")

// Client is the chat completion surface used by generation.
type Client interface {
	// StreamChat forwards content deltas to onDelta in arrival order and
	// returns the accumulated text once the provider closes the stream.
	// An error from onDelta aborts the stream.
	StreamChat(ctx context.Context, system, user string, onDelta func(delta string) error) (Completion, error)

	// Chat waits for the full completion.
	Chat(ctx context.Context, system, user string) (Completion, error)
}

type Completion struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Duration         time.Duration
	// TokensEstimated is set when usage was not reported by the provider.
	TokensEstimated bool
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
	CountTokens bool
}

type client struct {
	log     *logger.Logger
	api     *openaigo.Client
	cfg     Config
	metrics *observability.Metrics
	tokens  *tokenCounter
}

func NewClient(log *logger.Logger, cfg Config, metrics *observability.Metrics) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = openaigo.GPT4o
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}

	apiCfg := openaigo.DefaultConfig(cfg.APIKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		apiCfg.BaseURL = strings.TrimRight(base, "/")
	}
	// No client-level timeout: streams are bounded by the request context.
	apiCfg.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

	return &client{
		log:     log.With("client", "OpenAIClient", "model", cfg.Model),
		api:     openaigo.NewClientWithConfig(apiCfg),
		cfg:     cfg,
		metrics: metrics,
		tokens:  newTokenCounter(cfg.Model, cfg.CountTokens),
	}, nil
}

func (c *client) request(system, user string, stream bool) openaigo.ChatCompletionRequest {
	req := openaigo.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleSystem, Content: system},
			{Role: openaigo.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Stream:      stream,
	}
	if stream {
		req.StreamOptions = &openaigo.StreamOptions{IncludeUsage: true}
	}
	return req
}

func (c *client) StreamChat(ctx context.Context, system, user string, onDelta func(delta string) error) (Completion, error) {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), c.cfg.Timeout)
	defer cancel()

	log := c.log.With(ctxutil.LogFields(ctx)...)
	start := time.Now()
	out := Completion{Model: c.cfg.Model}

	stream, err := c.api.CreateChatCompletionStream(ctx, c.request(system, user, true))
	if err != nil {
		c.metrics.ObserveLLM("streamed", c.cfg.Model, "error_init", time.Since(start), 0, 0)
		log.Warn("OpenAI stream init failed", "error", err)
		return out, wrapUpstream("create stream", err)
	}
	defer stream.Close()

	var text strings.Builder
	var usage *openaigo.Usage
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.metrics.ObserveLLM("streamed", c.cfg.Model, "error_read", time.Since(start), 0, 0)
			log.Warn("OpenAI stream read failed", "error", err, "received_bytes", text.Len())
			return out, wrapUpstream("read stream", err)
		}
		if resp.Usage != nil && resp.Usage.TotalTokens > 0 {
			usage = resp.Usage
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		text.WriteString(delta)
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				c.metrics.ObserveLLM("streamed", c.cfg.Model, "error_sink", time.Since(start), 0, 0)
				return out, wrapUpstream("deliver delta", err)
			}
		}
	}

	out.Text = text.String()
	out.Duration = time.Since(start)
	c.fillUsage(&out, usage, system, user)
	c.metrics.ObserveLLM("streamed", c.cfg.Model, "ok", out.Duration, out.PromptTokens, out.CompletionTokens)
	log.Debug("OpenAI stream complete",
		"duration_ms", out.Duration.Milliseconds(),
		"prompt_tokens", out.PromptTokens,
		"completion_tokens", out.CompletionTokens,
		"estimated", out.TokensEstimated,
	)
	return out, nil
}

func (c *client) Chat(ctx context.Context, system, user string) (Completion, error) {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	out := Completion{Model: c.cfg.Model}
	resp, err := c.api.CreateChatCompletion(ctx, c.request(system, user, false))
	if err != nil {
		c.metrics.ObserveLLM("buffered", c.cfg.Model, "error", time.Since(start), 0, 0)
		c.log.Warn("OpenAI completion failed", append(ctxutil.LogFields(ctx), "error", err)...)
		return out, wrapUpstream("create completion", err)
	}
	if len(resp.Choices) == 0 {
		c.metrics.ObserveLLM("buffered", c.cfg.Model, "error_empty", time.Since(start), 0, 0)
		return out, wrapUpstream("create completion", errors.New("no choices returned"))
	}
	out.Text = resp.Choices[0].Message.Content
	out.Duration = time.Since(start)
	usage := resp.Usage
	c.fillUsage(&out, &usage, system, user)
	c.metrics.ObserveLLM("buffered", c.cfg.Model, "ok", out.Duration, out.PromptTokens, out.CompletionTokens)
	return out, nil
}

func (c *client) fillUsage(out *Completion, usage *openaigo.Usage, system, user string) {
	if usage != nil && usage.TotalTokens > 0 {
		out.PromptTokens = usage.PromptTokens
		out.CompletionTokens = usage.CompletionTokens
		return
	}
	out.PromptTokens = c.tokens.Count(system) + c.tokens.Count(user)
	out.CompletionTokens = c.tokens.Count(out.Text)
	out.TokensEstimated = true
}

func wrapUpstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}

// UpstreamCode maps a completion error to a short machine-readable code.
func UpstreamCode(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "upstream_timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	var apiErr *openaigo.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return "upstream_rate_limited"
		case apiErr.HTTPStatusCode >= 500:
			return "upstream_unavailable"
		default:
			return "upstream_rejected"
		}
	}
	var reqErr *openaigo.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "upstream_rate_limited"
		}
		return "upstream_unavailable"
	}
	return "upstream_error"
}
