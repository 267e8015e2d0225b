package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vrdaw-dev/vrdaw/internal/logging"
)

// RequestLogger writes one structured line per request.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		status := ctx.Writer.Status()
		args := []any{
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", ctx.ClientIP(),
		}

		if len(ctx.Errors) > 0 {
			args = append(args, "errors", ctx.Errors.String())
		}

		switch {
		case status >= 500:
			logger.Error(ctx.Request.Context(), "request", args...)
		case status >= 400:
			logger.Warn(ctx.Request.Context(), "request", args...)
		default:
			logger.Info(ctx.Request.Context(), "request", args...)
		}
	}
}
