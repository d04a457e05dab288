package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/kanban-dev/kanban/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (*models.User, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return nil, errors.New("User not authenticated")
	}

	authenticatedUser, ok := user.(*models.User)

	if !ok {
		return nil, errors.New("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// GetCurrentProject returns the project resolved by the membership guard.
func GetCurrentProject(ctx *gin.Context) (*models.Project, error) {
	project, exists := ctx.Get(types.ContextProjectKey)

	if !exists {
		return nil, errors.New("Project not resolved")
	}

	resolved, ok := project.(*models.Project)

	if !ok {
		return nil, errors.New("Invalid project type in context")
	}

	return resolved, nil
}
