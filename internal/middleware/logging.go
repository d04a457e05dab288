package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/utils"
)

// RequestLogger emits one structured line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		status := ctx.Writer.Status()
		attrs := []any{
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", ctx.ClientIP(),
		}

		if userID, err := utils.GetCurrentUserID(ctx); err == nil {
			attrs = append(attrs, "user_id", userID)
		}
		if len(ctx.Errors) > 0 {
			attrs = append(attrs, "error", ctx.Errors.Last().Error())
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		logger.Log(ctx.Request.Context(), level, "request", attrs...)
	}
}
