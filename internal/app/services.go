package app

import (
	"github.com/foundrr/foundrr-backend/internal/modules/generation"
	"github.com/foundrr/foundrr-backend/internal/modules/images"
	"github.com/foundrr/foundrr-backend/internal/modules/payments"
	"github.com/foundrr/foundrr-backend/internal/modules/sites"
	"github.com/foundrr/foundrr-backend/internal/observability"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
	"github.com/foundrr/foundrr-backend/internal/realtime"
)

type Services struct {
	// Generation
	Sink     *generation.Sink
	Pipeline *generation.Pipeline
	Rewriter *generation.Rewriter

	// Sites + payments
	Sites    *sites.Service
	Payments *payments.Service

	Images *images.Resolver

	Publisher *realtime.Publisher
}

func wireServices(log *logger.Logger, cfg Config, metrics *observability.Metrics, clients Clients, reposet Repos, hub *realtime.SSEHub) Services {
	log.Info("Wiring services...")

	// Preview and save notifications go through redis when it is configured.
	var fwd realtime.Forwarder
	if clients.SSEBus != nil {
		fwd = clients.SSEBus
	}
	pub := realtime.NewPublisher(hub, fwd)

	sink := generation.NewSink(log, clients.GcpBucket, reposet.Site, metrics, generation.SinkConfig{})
	pipeline := generation.NewPipeline(log, clients.OpenaiClient, reposet.Site, sink, pub, metrics, cfg.Generation())

	imageHTTP := images.NewHTTPClient(cfg.ImageTimeout)
	resolver := images.NewResolver(
		log,
		images.NewRedisCache(clients.Redis),
		metrics,
		images.NewUnsplash(imageHTTP, "", cfg.UnsplashAccessKey),
		images.NewPexels(imageHTTP, "", cfg.PexelsAPIKey),
		images.NewPollinations(cfg.PollinationsEnabled),
	)

	return Services{
		Sink:      sink,
		Pipeline:  pipeline,
		Rewriter:  generation.NewRewriter(log, clients.OpenaiClient),
		Sites:     sites.NewService(log, reposet.Site, clients.GcpBucket),
		Payments:  payments.NewService(log, reposet.Site, clients.Payments, clients.WebhookVerifier, pub, metrics, cfg.Payments()),
		Images:    resolver,
		Publisher: pub,
	}
}
