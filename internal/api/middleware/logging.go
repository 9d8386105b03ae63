package middleware

import (
	"strconv"
	"time"

	"carecase-workers/internal/common/logger"
	"carecase-workers/internal/common/metrics"

	"github.com/gin-gonic/gin"
)

// Logging emits one structured log line and one latency sample per request.
func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.APIRequestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(latency.Seconds())

		fields := map[string]interface{}{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       route,
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
		}
		if domain := c.Param("domain"); domain != "" {
			fields["domain"] = domain
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.String()
		}

		if status >= 500 {
			log.Error("request.complete", fields)
			return
		}
		log.Info("request.complete", fields)
	}
}
