package images

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/foundrr/foundrr-backend/internal/observability"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

// GradientURL is served when no query is given.
const GradientURL = "https://images.unsplash.com/photo-1557683316-973673baf926?w=800&q=80"

const (
	maxQueryRunes = 120
	cacheTTL      = 24 * time.Hour
	cachePrefix   = "foundrr:img:"
)

// ErrNoImage means a source answered but had nothing for the query.
var ErrNoImage = errors.New("no image for query")

// Source is one step of the resolution chain.
type Source interface {
	Name() string
	Resolve(ctx context.Context, query string) (string, error)
}

// Cache stores resolved URLs. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type Resolution struct {
	URL    string
	Source string
	Cached bool
}

type Resolver struct {
	log     *logger.Logger
	sources []Source
	cache   Cache
	metrics *observability.Metrics
}

func NewResolver(log *logger.Logger, cache Cache, metrics *observability.Metrics, sources ...Source) *Resolver {
	var chain []Source
	for _, s := range sources {
		if s != nil {
			chain = append(chain, s)
		}
	}
	return &Resolver{
		log:     log.With("service", "ImageResolver"),
		sources: chain,
		cache:   cache,
		metrics: metrics,
	}
}

// Resolve always yields a usable URL. Source failures fall through to the
// next source and finally to a static placeholder.
func (r *Resolver) Resolve(ctx context.Context, query string) Resolution {
	query = NormalizeQuery(query)
	if query == "" {
		r.metrics.IncImageResolution("gradient")
		return Resolution{URL: GradientURL, Source: "gradient"}
	}

	key := cachePrefix + strings.ToLower(query)
	if r.cache != nil {
		if u, ok, err := r.cache.Get(ctx, key); err != nil {
			r.log.Warn("Image cache read failed", "error", err)
		} else if ok && u != "" {
			r.metrics.IncImageResolution("cache")
			return Resolution{URL: u, Source: "cache", Cached: true}
		}
	}

	for _, src := range r.sources {
		u, err := src.Resolve(ctx, query)
		if err != nil {
			if !errors.Is(err, ErrNoImage) {
				r.log.Warn("Image source failed", "source", src.Name(), "query", query, "error", err)
			}
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if u == "" {
			continue
		}
		r.metrics.IncImageResolution(src.Name())
		if r.cache != nil {
			if err := r.cache.Set(ctx, key, u, cacheTTL); err != nil {
				r.log.Warn("Image cache write failed", "error", err)
			}
		}
		return Resolution{URL: u, Source: src.Name()}
	}

	r.metrics.IncImageResolution("placeholder")
	return Resolution{URL: PlaceholderURL(query), Source: "placeholder"}
}

// PlaceholderURL is the last resort and never touches the network.
func PlaceholderURL(query string) string {
	if query == "" {
		query = "Image"
	}
	return "https://placehold.co/800x600/1e1e1e/FFF.png?text=" + url.QueryEscape(query)
}

// NormalizeQuery trims, collapses whitespace and bounds the query length.
func NormalizeQuery(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	if r := []rune(q); len(r) > maxQueryRunes {
		q = strings.TrimSpace(string(r[:maxQueryRunes]))
	}
	return q
}
