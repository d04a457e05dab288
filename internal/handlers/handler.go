package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/kanban-dev/kanban/internal/apperr"
	"github.com/kanban-dev/kanban/internal/auth"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/kanban-dev/kanban/internal/realtime"
	"github.com/kanban-dev/kanban/internal/store"
	"github.com/kanban-dev/kanban/internal/utils"
)

// Deps are the collaborators every handler needs.
type Deps struct {
	Store          *store.Store
	Tokens         *auth.TokenService
	Cookie         auth.SessionCookie
	Hub            *realtime.Hub
	AllowedOrigins []string
}

type Handler struct {
	store    *store.Store
	tokens   *auth.TokenService
	cookie   auth.SessionCookie
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func New(deps Deps) *Handler {
	hub := deps.Hub
	if hub == nil {
		hub = realtime.NewHub(nil)
	}

	origins := slices.Clone(deps.AllowedOrigins)

	return &Handler{
		store:  deps.Store,
		tokens: deps.Tokens,
		cookie: deps.Cookie,
		hub:    hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// non-browser clients send no origin
				if origin == "" {
					return true
				}
				return slices.Contains(origins, origin)
			},
		},
	}
}

// respondError renders err. A 401 also expires the session cookie.
func (h *Handler) respondError(ctx *gin.Context, err error) {
	if apperr.As(err).Kind == apperr.KindUnauthenticated {
		h.cookie.Clear(ctx.Writer)
	}
	utils.RespondError(ctx, err)
}

// bind decodes the JSON body into dst, normalizes it when supported and
// runs its validation rules.
func (h *Handler) bind(ctx *gin.Context, dst validatable) bool {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		h.respondError(ctx, apperr.Invalid("body", "must be a valid JSON object"))
		return false
	}

	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}

	if err := dst.Validate(); err != nil {
		h.respondError(ctx, apperr.FromValidation(err))
		return false
	}

	return true
}

func (h *Handler) currentUser(ctx *gin.Context) (*models.User, bool) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		h.respondError(ctx, apperr.Unauthenticated("Not authenticated"))
		return nil, false
	}

	return user, true
}

func (h *Handler) currentProject(ctx *gin.Context) (*models.Project, bool) {
	project, err := utils.GetCurrentProject(ctx)

	if err != nil {
		h.respondError(ctx, apperr.Internal(err, "project guard missing"))
		return nil, false
	}

	return project, true
}

// issueSession signs a token for the user and sets the session cookie.
func (h *Handler) issueSession(ctx *gin.Context, userID uint) error {
	token, err := h.tokens.Issue(userID)

	if err != nil {
		return err
	}

	h.cookie.Set(ctx.Writer, token)
	return nil
}
