package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/store"
	"github.com/kanban-dev/kanban/internal/types"
)

func detailResponse(detail *store.ProjectDetail) types.ProjectDetailResponse {
	return types.NewProjectDetailResponse(detail.Project, detail.Tasks, detail.Members)
}

// CreateProject creates a project with the caller as its first member.
func (h *Handler) CreateProject(ctx *gin.Context) {
	user, ok := h.currentUser(ctx)

	if !ok {
		return
	}

	var body CreateProjectRequest

	if !h.bind(ctx, &body) {
		return
	}

	detail, err := h.store.CreateProject(ctx.Request.Context(), user.ID, body.toStore())

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, detailResponse(detail))
}

func (h *Handler) ListProjects(ctx *gin.Context) {
	h.MyProjects(ctx)
}

func (h *Handler) GetProject(ctx *gin.Context) {
	project, ok := h.currentProject(ctx)

	if !ok {
		return
	}

	detail, err := h.store.GetProjectDetail(ctx.Request.Context(), project.ID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, detailResponse(detail))
}

func (h *Handler) UpdateProject(ctx *gin.Context) {
	project, ok := h.currentProject(ctx)

	if !ok {
		return
	}

	var body UpdateProjectRequest

	if !h.bind(ctx, &body) {
		return
	}

	updated, err := h.store.UpdateProject(ctx.Request.Context(), project.ID, body.toStore())

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	response := types.NewProjectResponse(*updated)
	h.hub.Broadcast(project.ID, types.EventProjectUpdated, response)

	ctx.JSON(http.StatusOK, response)
}

// DeleteProject removes the project for everyone. Any member may do this.
func (h *Handler) DeleteProject(ctx *gin.Context) {
	project, ok := h.currentProject(ctx)

	if !ok {
		return
	}

	if err := h.store.DeleteProject(ctx.Request.Context(), project.ID); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.hub.CloseProject(project.ID, types.EventProjectDeleted)

	ctx.Status(http.StatusNoContent)
}
