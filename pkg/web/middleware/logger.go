package middleware

import (
	"time"

	"github.com/egallis31/unifi-network-mcp/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Logger 适配 pkg/logger 的 Gin 日志中间件
func Logger(l logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"ip", c.ClientIP(),
			"latency", time.Since(start).String(),
		}

		switch {
		case len(c.Errors) > 0:
			for _, e := range c.Errors.Errors() {
				l.ErrorContext(c.Request.Context(), e, fields...)
			}
		case status >= 400:
			l.WarnContext(c.Request.Context(), "http request", fields...)
		default:
			l.InfoContext(c.Request.Context(), "http request", fields...)
		}
	}
}
