package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/foundrr/foundrr-backend/internal/observability"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
	"github.com/foundrr/foundrr-backend/internal/realtime"
)

var ErrClientGone = errors.New("client stopped reading")

// StreamWriter is the HTTP side of a generation. Started reports whether any
// byte has reached the client, after which errors must travel in-band.
type StreamWriter interface {
	io.Writer
	Flush()
	Started() bool
}

// PreviewPublisher is satisfied by realtime.Publisher.
type PreviewPublisher interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
}

type RelayConfig struct {
	Document  *Document
	Writer    StreamWriter
	Publisher PreviewPublisher
	Channel   string
	Interval  time.Duration
	Metrics   *observability.Metrics
	Log       *logger.Logger
}

// Relay fans each delta out to the client response, unthrottled, and to the
// preview channel, at most once per interval. Every snapshot is the whole
// text so far, so it is always a prefix of the final text.
type Relay struct {
	ctx     context.Context
	doc     *Document
	out     StreamWriter
	pub     PreviewPublisher
	channel string
	metrics *observability.Metrics
	log     *logger.Logger

	every *rate.Sometimes
	guard sentinelGuard

	mu     sync.Mutex
	seq    int
	closed bool
}

func NewRelay(ctx context.Context, cfg RelayConfig) *Relay {
	every := &rate.Sometimes{Interval: cfg.Interval}
	if cfg.Interval <= 0 {
		every = &rate.Sometimes{Every: 1}
	}
	doc := cfg.Document
	if doc == nil {
		doc = NewDocument()
	}
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Relay{
		ctx:     ctx,
		doc:     doc,
		out:     cfg.Writer,
		pub:     cfg.Publisher,
		channel: cfg.Channel,
		metrics: cfg.Metrics,
		log:     log,
		every:   every,
	}
}

// OnDelta is the completion client callback.
func (r *Relay) OnDelta(delta string) error {
	if err := r.doc.Append(delta); err != nil {
		return err
	}
	if r.out != nil {
		if safe := r.guard.push(delta); safe != "" {
			if err := r.write(safe); err != nil {
				return err
			}
		}
	}
	r.every.Do(func() { r.publish(false) })
	return nil
}

// Close releases any held-back bytes and publishes the final snapshot. It is
// safe to call more than once; only the first call publishes.
func (r *Relay) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	var err error
	if r.out != nil {
		if tail := r.guard.flush(); tail != "" {
			err = r.write(tail)
		}
	}
	r.publish(true)
	return err
}

// Snapshots reports how many previews were published.
func (r *Relay) Snapshots() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

func (r *Relay) write(s string) error {
	if _, err := io.WriteString(r.out, s); err != nil {
		return fmt.Errorf("%w: %w", ErrClientGone, err)
	}
	r.out.Flush()
	return nil
}

func (r *Relay) publish(final bool) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	if r.pub == nil || r.channel == "" {
		return
	}
	event := realtime.SSEEventPreviewSnapshot
	if final {
		event = realtime.SSEEventPreviewDone
	}
	msg := realtime.SSEMessage{
		Channel: r.channel,
		Event:   event,
		Data: map[string]any{
			"seq":  seq,
			"text": r.doc.Raw(),
			"done": final,
		},
	}
	// Preview is best effort; the response stream is the source of truth.
	ctx := context.WithoutCancel(r.ctx)
	if err := r.pub.Publish(ctx, msg); err != nil {
		r.log.Warn("Preview publish failed", "channel", r.channel, "seq", seq, "error", err)
		return
	}
	r.metrics.IncPreviewSnapshot()
}
