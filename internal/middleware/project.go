package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/apperr"
	"github.com/kanban-dev/kanban/internal/store"
	"github.com/kanban-dev/kanban/internal/types"
	"github.com/kanban-dev/kanban/internal/utils"
)

// RequireProjectMember guards every route below /projects/:project_id.
// It must run after RequireUser. Unknown projects answer 404 and projects
// the caller does not belong to answer 403.
func RequireProjectMember(s *store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, err := utils.GetCurrentUserID(ctx)

		if err != nil {
			utils.RespondError(ctx, apperr.Unauthenticated(err.Error()))
			return
		}

		projectID, err := utils.GetProjectID(ctx)

		if err != nil {
			utils.RespondError(ctx, err)
			return
		}

		project, err := s.AuthorizeProjectAccess(ctx.Request.Context(), userID, projectID)

		if err != nil {
			utils.RespondError(ctx, err)
			return
		}

		ctx.Set(types.ContextProjectKey, project)
		ctx.Next()
	}
}
