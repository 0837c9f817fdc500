package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/utils"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request once it has been handled
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", utils.GetIpAddress(c.Request.Header, c.Request.RemoteAddr)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			logger.Error("request failed", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}
