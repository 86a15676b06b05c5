package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/foundrr/foundrr-backend/internal/http/handlers"
	httpMW "github.com/foundrr/foundrr-backend/internal/http/middleware"
	"github.com/foundrr/foundrr-backend/internal/observability"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	CORSOrigins    []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	GenerateHandler *httpH.GenerateHandler
	RewriteHandler  *httpH.RewriteHandler
	ImageHandler    *httpH.ImageHandler
	SiteHandler     *httpH.SiteHandler
	PaymentHandler  *httpH.PaymentHandler
	AdminHandler    *httpH.AdminHandler
	RealtimeHandler *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Public
		if cfg.ImageHandler != nil {
			api.GET("/images/proxy", cfg.ImageHandler.Proxy)
		}
		if cfg.PaymentHandler != nil {
			api.POST("/webhooks/payments", cfg.PaymentHandler.Webhook)
			pricing := api.Group("/pricing")
			if cfg.AuthMiddleware != nil {
				pricing.Use(cfg.AuthMiddleware.OptionalAuth())
			}
			pricing.GET("/:id", cfg.PaymentHandler.Pricing)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Generation
		if cfg.GenerateHandler != nil {
			protected.POST("/generate", cfg.GenerateHandler.Generate)
		}
		if cfg.RewriteHandler != nil {
			protected.POST("/rewrite", cfg.RewriteHandler.Rewrite)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
		}

		// Sites
		if cfg.SiteHandler != nil {
			protected.GET("/sites", cfg.SiteHandler.List)
			protected.GET("/sites/:id", cfg.SiteHandler.Get)
			protected.GET("/sites/:id/document", cfg.SiteHandler.Document)
			protected.GET("/sites/:id/download", cfg.SiteHandler.Download)
		}

		// Payments
		if cfg.PaymentHandler != nil {
			protected.POST("/checkout", cfg.PaymentHandler.Checkout)
			protected.POST("/sites/:id/manual-payment", cfg.PaymentHandler.ManualPayment)
		}

		// Admin
		if cfg.AdminHandler != nil {
			admin := protected.Group("/admin")
			if cfg.AuthMiddleware != nil {
				admin.Use(cfg.AuthMiddleware.RequireAdmin())
			}
			admin.GET("/pending", cfg.AdminHandler.Pending)
			admin.POST("/approve", cfg.AdminHandler.Approve)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "code": "not_found"})
	})
	return r
}
