// internal/web/middleware.go
package web

import (
	"time"

	"listing-predictor/internal/common/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request with status and latency.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"clientIp":  c.ClientIP(),
		}
		if c.Writer.Status() >= 500 {
			log.Error("request completed", fields)
			return
		}
		log.Debug("request completed", fields)
	}
}
