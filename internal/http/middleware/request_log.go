package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foundrr/foundrr-backend/internal/platform/ctxutil"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

// headerSiteID mirrors the generate handler's response header so a
// generation's log line carries the id it was saved under.
const headerSiteID = "X-Site-Id"

// RequestLogger writes one line per completed request. Probes log at debug.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		kv = append(kv, ctxutil.LogFields(c.Request.Context())...)
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
			kv = append(kv, "user_id", rd.UserID.String())
		}
		if siteID := c.Writer.Header().Get(headerSiteID); siteID != "" {
			kv = append(kv, "site_id", siteID)
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "error", c.Errors.Last().Error())
		}

		switch {
		case probeRoutes[route]:
			log.Debug("request", kv...)
		case status >= 500:
			log.Error("request", kv...)
		case status >= 400:
			log.Warn("request", kv...)
		default:
			log.Info("request", kv...)
		}
	}
}
