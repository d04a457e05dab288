package utils

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/apperr"
	"github.com/kanban-dev/kanban/internal/types"
)

// RespondError aborts the request with the status and body for err.
// Internal errors are logged and rendered with a generic message.
func RespondError(ctx *gin.Context, err error) {
	appErr := apperr.As(err)
	status := apperr.Status(appErr.Kind)

	if appErr.Kind == apperr.KindInternal {
		slog.ErrorContext(ctx.Request.Context(), "request failed",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"error", err,
		)
		ctx.AbortWithStatusJSON(status, types.ErrorResponse{
			Type:    string(apperr.KindInternal),
			Message: apperr.ErrInternal.Message,
		})
		return
	}

	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(status, types.ErrorResponse{
		Type:    string(appErr.Kind),
		Message: appErr.Message,
		Fields:  appErr.Fields,
	})
}
