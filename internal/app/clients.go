package app

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/foundrr/foundrr-backend/internal/observability"
	"github.com/foundrr/foundrr-backend/internal/platform/auth"
	"github.com/foundrr/foundrr-backend/internal/platform/gcp"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
	"github.com/foundrr/foundrr-backend/internal/platform/openai"
	"github.com/foundrr/foundrr-backend/internal/platform/paymentprovider"
	"github.com/foundrr/foundrr-backend/internal/realtime/bus"
)

type Clients struct {
	Redis           goredis.UniversalClient
	SSEBus          bus.Bus
	OpenaiClient    openai.Client
	GcpBucket       gcp.BucketService
	Payments        paymentprovider.Client
	WebhookVerifier *paymentprovider.Verifier
	AuthVerifier    *auth.Verifier
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	verifier, err := auth.NewVerifier(cfg.JWTSecretKey, cfg.AdminRole)
	if err != nil {
		return Clients{}, fmt.Errorf("init auth verifier: %w", err)
	}
	out.AuthVerifier = verifier

	// Redis
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     addr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("ping redis: %w", err)
		}
		out.Redis = rdb
		b, err := bus.NewRedisBus(log, rdb, cfg.RedisChannel)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		out.SSEBus = b
	} else {
		log.Warn("REDIS_ADDR not set; realtime stays in-process and image URLs are not cached")
	}

	// Gcs
	bucketCfg, err := cfg.Bucket()
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("object storage config: %w", err)
	}
	bucket, err := gcp.NewBucketService(log, bucketCfg)
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init bucket client: %w", err)
	}
	out.GcpBucket = bucket

	// Openai
	openaiClient, err := openai.NewClient(log, openai.Config{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Timeout:     cfg.OpenAITimeout,
		CountTokens: cfg.OpenAITokens,
	}, metrics)
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}
	out.OpenaiClient = openaiClient

	// Payments are optional; manual transfers work without them.
	if strings.TrimSpace(cfg.PaymentsAPIKey) != "" {
		pc, err := paymentprovider.New(log, paymentprovider.Config{
			BaseURL:   cfg.PaymentsBaseURL,
			APIKey:    cfg.PaymentsAPIKey,
			ProductID: cfg.PaymentsProductID,
			Timeout:   cfg.PaymentsTimeout,
		})
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init payment provider: %w", err)
		}
		out.Payments = pc
	} else {
		log.Warn("PAYMENTS_API_KEY not set; card checkout disabled")
	}
	if strings.TrimSpace(cfg.PaymentsWebhookSecret) != "" {
		v, err := paymentprovider.NewVerifier(cfg.PaymentsWebhookSecret, paymentprovider.DefaultTolerance)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init webhook verifier: %w", err)
		}
		out.WebhookVerifier = v
	}

	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
	if c.GcpBucket != nil {
		_ = c.GcpBucket.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
