package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartblog/server/internal/shared/metrics"
)

// Scrapes and health checks would dominate the request series on an
// idle blog instance, so they are left out.
var unmeteredPaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
}

// Metrics returns a middleware that records HTTP metrics.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, skip := unmeteredPaths[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		start := time.Now()
		path := c.FullPath() // route pattern, not the raw path
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		c.Next()

		duration := time.Since(start)
		m.RecordHTTPRequest(method, path, c.Writer.Status(), duration)
	}
}
