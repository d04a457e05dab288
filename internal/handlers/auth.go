package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/store"
	"github.com/kanban-dev/kanban/internal/types"
)

// CreateUser signs a new user up and starts their session.
func (h *Handler) CreateUser(ctx *gin.Context) {
	var body CreateUserRequest

	if !h.bind(ctx, &body) {
		return
	}

	user, err := h.store.CreateUser(ctx.Request.Context(), store.NewUser{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if err := h.issueSession(ctx, user.ID); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewUserResponse(*user))
}

func (h *Handler) LoginUser(ctx *gin.Context) {
	var body LoginRequest

	if !h.bind(ctx, &body) {
		return
	}

	user, err := h.store.Authenticate(ctx.Request.Context(), body.Email, body.Password)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if err := h.issueSession(ctx, user.ID); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(*user))
}

// LogoutUser expires the session cookie. It succeeds whether or not the
// caller was logged in.
func (h *Handler) LogoutUser(ctx *gin.Context) {
	h.cookie.Clear(ctx.Writer)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
