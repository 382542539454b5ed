package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/lotpilot/internal/logger"
	"github.com/ajharbinger/lotpilot/internal/metrics"
)

// LoggingMiddleware logs every request and records request metrics
func LoggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(latency.Seconds())

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", latency,
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= 500:
			var err error
			if last := c.Errors.Last(); last != nil {
				err = last
			}
			log.Error("request failed", err, fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request served", fields...)
		}
	}
}

// RecoveryMiddleware turns panics into 500 responses and logs them
func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered", nil, "panic", recovered, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(500, gin.H{"error": "internal server error", "code": "INTERNAL_ERROR"})
	})
}
