package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/classical-poetry/internal/metrics"
)

// Metrics records request counts and latency per route template.
func Metrics(m *metrics.HTTPMetrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.RequestStarted()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
