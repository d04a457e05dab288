package middleware

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/apperr"
	"github.com/kanban-dev/kanban/internal/auth"
	"github.com/kanban-dev/kanban/internal/store"
	"github.com/kanban-dev/kanban/internal/types"
	"github.com/kanban-dev/kanban/internal/utils"
)

// RequireUser resolves the caller from the session cookie. Requests
// without a valid token, or whose user no longer exists, get a 401 and
// the cookie is expired on the client.
func RequireUser(s *store.Store, tokens *auth.TokenService, cookie auth.SessionCookie) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		reject := func(message string) {
			cookie.Clear(ctx.Writer)
			utils.RespondError(ctx, apperr.Unauthenticated(message))
		}

		token := cookie.Read(ctx.Request)

		if token == "" {
			reject("Not authenticated")
			return
		}

		userID, err := tokens.Verify(token)

		if err != nil {
			slog.DebugContext(ctx.Request.Context(), "rejected session token", "error", err)
			reject("Invalid or expired token")
			return
		}

		user, err := s.GetUser(ctx.Request.Context(), userID)

		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				reject("User not found")
				return
			}
			utils.RespondError(ctx, err)
			return
		}

		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}
