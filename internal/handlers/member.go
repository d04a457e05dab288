package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/types"
	"github.com/kanban-dev/kanban/internal/utils"
)

func (h *Handler) ListMembers(ctx *gin.Context) {
	project, ok := h.currentProject(ctx)

	if !ok {
		return
	}

	members, err := h.store.ListMembers(ctx.Request.Context(), project.ID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponses(members))
}

// AddMembers adds users by id. Unknown ids are skipped and existing
// members are left untouched.
func (h *Handler) AddMembers(ctx *gin.Context) {
	project, ok := h.currentProject(ctx)

	if !ok {
		return
	}

	var body AddMembersRequest

	if !h.bind(ctx, &body) {
		return
	}

	members, err := h.store.AddMembers(ctx.Request.Context(), project.ID, body.UserIDs)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	response := types.NewUserResponses(members)
	h.hub.Broadcast(project.ID, types.EventMembersAdded, response)

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) GetMember(ctx *gin.Context) {
	project, ok := h.currentProject(ctx)

	if !ok {
		return
	}

	userID, err := utils.GetUserID(ctx)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	member, err := h.store.GetMember(ctx.Request.Context(), project.ID, userID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(*member))
}

// RemoveMember detaches a user from the project. Removing the last member
// deletes the project and its tasks.
func (h *Handler) RemoveMember(ctx *gin.Context) {
	project, ok := h.currentProject(ctx)

	if !ok {
		return
	}

	userID, err := utils.GetUserID(ctx)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	deleted, err := h.store.RemoveMember(ctx.Request.Context(), project.ID, userID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if deleted {
		h.hub.CloseProject(project.ID, types.EventProjectDeleted)
	} else {
		h.hub.DisconnectUser(project.ID, userID)
		h.hub.Broadcast(project.ID, types.EventMemberRemoved, gin.H{"user_id": userID})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":         "User removed from project",
		"project_deleted": deleted,
	})
}
