package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/types"
)

func (h *Handler) Me(ctx *gin.Context) {
	user, ok := h.currentUser(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(*user))
}

// UpdateMe applies a partial profile update.
func (h *Handler) UpdateMe(ctx *gin.Context) {
	user, ok := h.currentUser(ctx)

	if !ok {
		return
	}

	var body UpdateUserRequest

	if !h.bind(ctx, &body) {
		return
	}

	updated, err := h.store.UpdateUser(ctx.Request.Context(), user.ID, body.toStore())

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(*updated))
}

func (h *Handler) ChangePassword(ctx *gin.Context) {
	user, ok := h.currentUser(ctx)

	if !ok {
		return
	}

	var body ChangePasswordRequest

	if !h.bind(ctx, &body) {
		return
	}

	if err := h.store.ChangePassword(ctx.Request.Context(), user.ID, body.Password, body.NewPassword); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (h *Handler) MyProjects(ctx *gin.Context) {
	user, ok := h.currentUser(ctx)

	if !ok {
		return
	}

	projects, err := h.store.ListProjectsForUser(ctx.Request.Context(), user.ID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewProjectResponses(projects))
}

// DeleteMe removes the caller's account. Projects where they were the last
// member are deleted with their tasks.
func (h *Handler) DeleteMe(ctx *gin.Context) {
	user, ok := h.currentUser(ctx)

	if !ok {
		return
	}

	result, err := h.store.DeleteUserCascade(ctx.Request.Context(), user.ID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	for _, projectID := range result.DeletedProjects {
		h.hub.CloseProject(projectID, types.EventProjectDeleted)
	}
	for _, projectID := range result.LeftProjects {
		h.hub.DisconnectUser(projectID, user.ID)
		h.hub.Broadcast(projectID, types.EventMemberRemoved, gin.H{"user_id": user.ID})
	}

	h.cookie.Clear(ctx.Writer)

	ctx.JSON(http.StatusOK, gin.H{
		"message":          "Account deleted successfully",
		"deleted_projects": result.DeletedProjects,
		"left_projects":    result.LeftProjects,
	})
}
