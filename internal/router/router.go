package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/auth"
	"github.com/kanban-dev/kanban/internal/handlers"
	"github.com/kanban-dev/kanban/internal/middleware"
	"github.com/kanban-dev/kanban/internal/realtime"
	"github.com/kanban-dev/kanban/internal/store"
)

type Options struct {
	Store          *store.Store
	Tokens         *auth.TokenService
	Cookie         auth.SessionCookie
	Hub            *realtime.Hub
	AllowedOrigins []string
	Logger         *slog.Logger
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(opts.Logger))

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	h := handlers.New(handlers.Deps{
		Store:          opts.Store,
		Tokens:         opts.Tokens,
		Cookie:         opts.Cookie,
		Hub:            opts.Hub,
		AllowedOrigins: opts.AllowedOrigins,
	})

	requireUser := middleware.RequireUser(opts.Store, opts.Tokens, opts.Cookie)
	requireMember := middleware.RequireProjectMember(opts.Store)

	r.GET("/health", h.HealthCheck)

	users := r.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("/:user_id", requireUser, h.GetUser)
		users.GET("/:user_id/projects", requireUser, h.GetUserProjects)
	}

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.LoginUser)
		authGroup.POST("/logout", h.LogoutUser)
	}

	r.GET("/me/logout", h.LogoutUser)

	me := r.Group("/me", requireUser)
	{
		me.GET("", h.Me)
		me.PATCH("", h.UpdateMe)
		me.PUT("", h.UpdateMe)
		me.DELETE("", h.DeleteMe)
		me.PUT("/password", h.ChangePassword)
		me.GET("/projects", h.MyProjects)
	}

	projects := r.Group("/projects", requireUser)
	{
		projects.GET("", h.ListProjects)
		projects.POST("", h.CreateProject)

		// everything addressing one project goes through the membership guard
		project := projects.Group("/:project_id", requireMember)
		{
			project.GET("", h.GetProject)
			project.PUT("", h.UpdateProject)
			project.PATCH("", h.UpdateProject)
			project.DELETE("", h.DeleteProject)

			project.GET("/tasks", h.ListTasks)
			project.POST("/tasks", h.CreateTask)
			project.GET("/tasks/:task_id", h.GetTask)
			project.PUT("/tasks/:task_id", h.UpdateTask)
			project.PATCH("/tasks/:task_id", h.UpdateTask)
			project.DELETE("/tasks/:task_id", h.DeleteTask)

			project.GET("/users", h.ListMembers)
			project.POST("/users", h.AddMembers)
			project.GET("/users/:user_id", h.GetMember)
			project.DELETE("/users/:user_id", h.RemoveMember)
		}
	}

	r.GET("/ws/projects/:project_id", requireUser, requireMember, h.BoardSocket)

	return r
}
