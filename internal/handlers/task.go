package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/apperr"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/kanban-dev/kanban/internal/store"
	"github.com/kanban-dev/kanban/internal/types"
	"github.com/kanban-dev/kanban/internal/utils"
)

// ListTasks returns the project's tasks, optionally narrowed with
// ?status=.
func (h *Handler) ListTasks(ctx *gin.Context) {
	project, ok := h.currentProject(ctx)

	if !ok {
		return
	}

	var filter store.TaskFilter

	if raw, present := ctx.GetQuery("status"); present {
		status, err := models.ParseTaskStatus(raw)

		if err != nil {
			h.respondError(ctx, apperr.Invalid("status", "must be one of pending, in_progress, completed, failed, stashed"))
			return
		}

		filter.Status = &status
	}

	tasks, err := h.store.ListTasksForProject(ctx.Request.Context(), project.ID, filter)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponses(tasks))
}

func (h *Handler) CreateTask(ctx *gin.Context) {
	project, ok := h.currentProject(ctx)

	if !ok {
		return
	}

	var body CreateTaskRequest

	if !h.bind(ctx, &body) {
		return
	}

	task, err := h.store.CreateTask(ctx.Request.Context(), project.ID, body.toStore())

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	response := types.NewTaskResponse(*task)
	h.hub.Broadcast(project.ID, types.EventTaskCreated, response)

	ctx.JSON(http.StatusCreated, response)
}

func (h *Handler) GetTask(ctx *gin.Context) {
	project, ok := h.currentProject(ctx)

	if !ok {
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	task, err := h.store.GetTask(ctx.Request.Context(), project.ID, taskID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponse(*task))
}

// UpdateTask serves both PUT and PATCH; only supplied fields change.
func (h *Handler) UpdateTask(ctx *gin.Context) {
	project, ok := h.currentProject(ctx)

	if !ok {
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	var body UpdateTaskRequest

	if !h.bind(ctx, &body) {
		return
	}

	task, err := h.store.UpdateTask(ctx.Request.Context(), project.ID, taskID, body.toStore())

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	response := types.NewTaskResponse(*task)
	h.hub.Broadcast(project.ID, types.EventTaskUpdated, response)

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) DeleteTask(ctx *gin.Context) {
	project, ok := h.currentProject(ctx)

	if !ok {
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if err := h.store.DeleteTask(ctx.Request.Context(), project.ID, taskID); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.hub.Broadcast(project.ID, types.EventTaskDeleted, gin.H{"id": taskID})

	ctx.Status(http.StatusNoContent)
}
