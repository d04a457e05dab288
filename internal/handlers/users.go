package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/types"
	"github.com/kanban-dev/kanban/internal/utils"
)

func (h *Handler) GetUser(ctx *gin.Context) {
	userID, err := utils.GetUserID(ctx)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	user, err := h.store.GetUser(ctx.Request.Context(), userID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(*user))
}

// GetUserProjects lists the projects the caller shares with another user.
func (h *Handler) GetUserProjects(ctx *gin.Context) {
	viewer, ok := h.currentUser(ctx)

	if !ok {
		return
	}

	userID, err := utils.GetUserID(ctx)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if _, err := h.store.GetUser(ctx.Request.Context(), userID); err != nil {
		h.respondError(ctx, err)
		return
	}

	projects, err := h.store.ListSharedProjects(ctx.Request.Context(), viewer.ID, userID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewProjectResponses(projects))
}
