package middleware

import (
	"strconv"
	"time"

	"github.com/egallis31/unifi-network-mcp/pkg/web/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics 接口监控中间件
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath() // 路由定义的路径而非实际请求路径
		if path == "" {
			path = "unknown"
		}

		c.Next()

		latency := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		metrics.HttpRequestsTotal.WithLabelValues(path, c.Request.Method, status).Inc()
		metrics.HttpRequestDuration.WithLabelValues(path, c.Request.Method).Observe(latency)
	}
}
