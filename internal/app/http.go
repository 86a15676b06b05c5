package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/foundrr/foundrr-backend/internal/http"
	httpH "github.com/foundrr/foundrr-backend/internal/http/handlers"
	httpMW "github.com/foundrr/foundrr-backend/internal/http/middleware"
	"github.com/foundrr/foundrr-backend/internal/observability"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
	"github.com/foundrr/foundrr-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Generate *httpH.GenerateHandler
	Rewrite  *httpH.RewriteHandler
	Image    *httpH.ImageHandler
	Site     *httpH.SiteHandler
	Payment  *httpH.PaymentHandler
	Admin    *httpH.AdminHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, clients Clients, services Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(readinessChecks(db, clients)...),
		Generate: httpH.NewGenerateHandler(log, services.Pipeline),
		Rewrite:  httpH.NewRewriteHandler(services.Rewriter),
		Image:    httpH.NewImageHandler(services.Images),
		Site:     httpH.NewSiteHandler(services.Sites),
		Payment:  httpH.NewPaymentHandler(services.Payments),
		Admin:    httpH.NewAdminHandler(services.Payments),
		Realtime: httpH.NewRealtimeHandler(log, sseHub),
	}
}

func readinessChecks(db *gorm.DB, clients Clients) []httpH.Check {
	var checks []httpH.Check
	if db != nil {
		checks = append(checks, httpH.Check{Name: "postgres", Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}})
	}
	if clients.Redis != nil {
		checks = append(checks, httpH.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return clients.Redis.Ping(ctx).Err()
		}})
	}
	return checks
}

func wireMiddleware(log *logger.Logger, clients Clients) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, clients.AuthVerifier),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		ServiceName:     cfg.ServiceName,
		TracingEnabled:  cfg.OtelEnabled,
		CORSOrigins:     cfg.CORSOriginList(),
		AuthMiddleware:  middleware.Auth,
		HealthHandler:   handlers.Health,
		GenerateHandler: handlers.Generate,
		RewriteHandler:  handlers.Rewrite,
		ImageHandler:    handlers.Image,
		SiteHandler:     handlers.Site,
		PaymentHandler:  handlers.Payment,
		AdminHandler:    handlers.Admin,
		RealtimeHandler: handlers.Realtime,
	})
}
