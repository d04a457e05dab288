package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// BoardSocket upgrades the request and streams the project's board
// events until the client disconnects or loses access.
func (h *Handler) BoardSocket(ctx *gin.Context) {
	user, ok := h.currentUser(ctx)

	if !ok {
		return
	}

	project, ok := h.currentProject(ctx)

	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)

	if err != nil {
		// the upgrader has already written the error response
		slog.WarnContext(ctx.Request.Context(), "websocket upgrade failed", "project_id", project.ID, "error", err)
		return
	}

	h.hub.Serve(conn, project.ID, user.ID)
}
