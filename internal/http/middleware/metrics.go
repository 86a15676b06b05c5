package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foundrr/foundrr-backend/internal/observability"
)

// probe routes are scraped constantly and would swamp the availability SLO.
var probeRoutes = map[string]bool{
	"/healthcheck": true,
	"/readyz":      true,
	"/metrics":     true,
}

// Metrics records request counts and latency per matched route. A generate
// stream is observed when it ends, so its latency covers the whole model run.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if probeRoutes[route] {
			c.Next()
			return
		}
		if route == "" {
			// Unmatched paths would otherwise explode label cardinality.
			route = "unmatched"
		}

		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()
		c.Next()

		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
