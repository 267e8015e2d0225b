package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vrdaw-dev/vrdaw/internal/auth"
	"github.com/vrdaw-dev/vrdaw/internal/config"
	"github.com/vrdaw-dev/vrdaw/internal/handlers"
	"github.com/vrdaw-dev/vrdaw/internal/logging"
	"github.com/vrdaw-dev/vrdaw/internal/middleware"
	"github.com/vrdaw-dev/vrdaw/internal/realtime"
	"github.com/vrdaw-dev/vrdaw/internal/services"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Config         *config.Config
	Logger         logging.Logger
	Issuer         *auth.Issuer
	Hub            *realtime.Hub
	Users          *services.UserService
	Projects       *services.ProjectService
	Files          *services.FileService
	Collaborations *services.CollaborationService
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Logger))

	r.MaxMultipartMemory = d.Config.MaxUploadSize

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handlers.NewAuthHandler(d.Users, d.Logger)
	projectHandler := handlers.NewProjectHandler(d.Projects, d.Files, d.Collaborations, d.Hub, d.Logger)
	fileHandler := handlers.NewFileHandler(d.Files, d.Config.MaxUploadSize, d.Logger)
	collabHandler := handlers.NewCollaborationHandler(d.Collaborations, d.Logger)
	eventsHandler := handlers.NewEventsHandler(d.Hub, d.Collaborations, d.Config.AllowedOrigins, d.Logger)

	requireAuth := middleware.AuthMiddleware(d.Issuer, d.Users)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:project_id", requireAuth, eventsHandler.WebSocket)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", requireAuth, authHandler.Me)
		}

		projects := api.Group("/projects", requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:project_id", projectHandler.GetProject)
			projects.POST("/:project_id/files", fileHandler.UploadFile)
		}

		collaboration := api.Group("/collaboration", requireAuth)
		{
			collaboration.POST("/:project_id", collabHandler.StartCollaboration)
			collaboration.POST("/:project_id/invite", collabHandler.InviteCollaborator)
		}
	}

	return r
}
