// Package router assembles the HTTP route table.
package router

import (
	"net/http"
	"time"

	"github.com/collabridge/collabridge-api/internal/auth"
	"github.com/collabridge/collabridge-api/internal/config"
	"github.com/collabridge/collabridge-api/internal/constants"
	apierrors "github.com/collabridge/collabridge-api/internal/errors"
	"github.com/collabridge/collabridge-api/internal/handlers"
	"github.com/collabridge/collabridge-api/internal/middleware"
	"github.com/collabridge/collabridge-api/internal/repository"
	"github.com/collabridge/collabridge-api/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators the routes are built from.
type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	Logger      *zap.Logger
	Revocations auth.RevocationList
	Sessions    sessions.Store
}

// NewSessionStore returns a redis-backed store when redis is configured and
// a signed cookie store otherwise.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var (
		store sessions.Store
		err   error
	)
	if cfg.Redis.Addr != "" {
		store, err = redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			cfg.Redis.Addr,
			"", // username (empty for default user)
			cfg.Redis.Password,
			[]byte(cfg.Session.Secret),
		)
		if err != nil {
			return nil, err
		}
	} else {
		store = cookie.NewStore([]byte(cfg.Session.Secret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.Server.Mode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// New builds the engine with every API route mounted under /api.
func New(deps Deps) *gin.Engine {
	cfg := deps.Config

	userRepo := repository.NewUserRepository(deps.DB)
	teamRepo := repository.NewTeamRepository(deps.DB)
	projectRepo := repository.NewProjectRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)
	commentRepo := repository.NewCommentRepository(deps.DB)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := services.NewAuthService(userRepo, tokens, deps.Revocations)
	userService := services.NewUserService(userRepo)
	teamService := services.NewTeamService(teamRepo, userRepo)
	projectService := services.NewProjectService(projectRepo, teamRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, teamRepo, userRepo)
	commentService := services.NewCommentService(commentRepo, taskRepo, projectRepo, teamRepo)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)

	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	// Without configured origins only same-origin clients are served.
	if origins := cfg.Server.Origins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.Sessions))

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Collabridge API is running",
		})
	})

	requireAuth := middleware.RequireAuth(authService)
	id := middleware.RequireIDParam("id")

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", requireAuth, authHandler.Logout)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/me", authHandler.GetCurrentUser)
			users.PATCH("/me/username", userHandler.UpdateUsername)
		}

		teams := api.Group("/teams", requireAuth)
		{
			teams.GET("", teamHandler.ListTeams)
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("/:id", id, teamHandler.GetTeam)
			teams.PATCH("/:id", id, teamHandler.UpdateTeam)
			teams.DELETE("/:id", id, teamHandler.DeleteTeam)
		}

		projects := api.Group("/projects", requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", id, projectHandler.GetProject)
			projects.PATCH("/:id", id, projectHandler.UpdateProject)
			projects.DELETE("/:id", id, projectHandler.DeleteProject)
		}

		tasks := api.Group("/tasks", requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/reorder", taskHandler.ReorderTasks)
			tasks.GET("/:id", id, taskHandler.GetTask)
			tasks.PATCH("/:id", id, taskHandler.UpdateTask)
			tasks.DELETE("/:id", id, taskHandler.DeleteTask)
			tasks.GET("/:id/comments", id, commentHandler.ListComments)
			tasks.POST("/:id/comments", id, commentHandler.CreateComment)
		}

		comments := api.Group("/comments", requireAuth)
		{
			comments.DELETE("/:id", id, commentHandler.DeleteComment)
		}
	}

	return r
}
