package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
)

// Logging 访问日志中间件
func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.String("query", query),
			logger.Int("status", status),
			logger.Duration("latency", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
			logger.String("user_agent", c.Request.UserAgent()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}

		entry := log.WithContext(c.Request.Context()).WithFields(fields...)
		switch {
		case status >= 500:
			entry.Error("HTTP request error")
		case status >= 400:
			entry.Warn("HTTP request warning")
		default:
			entry.Info("HTTP request")
		}
	}
}
