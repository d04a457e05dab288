package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/apperr"
)

// GetIDParam parses a positive numeric path parameter. A malformed id can
// never name an existing row, so it is reported as not found.
func GetIDParam(ctx *gin.Context, name, label string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, apperr.NotFound(fmt.Sprintf("%s not found", label))
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, apperr.NotFound(fmt.Sprintf("%s not found", label))
	}

	return uint(id), nil
}

func GetProjectID(ctx *gin.Context) (uint, error) {
	return GetIDParam(ctx, "project_id", "Project")
}

func GetTaskID(ctx *gin.Context) (uint, error) {
	return GetIDParam(ctx, "task_id", "Task")
}

func GetUserID(ctx *gin.Context) (uint, error) {
	return GetIDParam(ctx, "user_id", "User")
}
