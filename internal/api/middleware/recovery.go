package middleware

import (
	"io"

	"trailnote-go/internal/api/response"
	"trailnote-go/internal/metrics"
	"trailnote-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery 捕获 handler panic，记录日志与指标后返回 500；连接已断开时不再写响应
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPPanicsTotal.WithLabelValues(route).Inc()

		fields := []zap.Field{
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Stack("stack"),
		}
		if p := GetPrincipal(c); !p.IsAnonymous() {
			fields = append(fields, logger.UserID(p.ID))
		}
		logger.Error("Handler panicked", fields...)

		response.InternalError(c, "服务器内部错误")
		c.Abort()
	})
}
