package main

import (
	"github.com/gin-gonic/gin"
	"github.com/teamsync/teamsync-api/internal/config"
	"github.com/teamsync/teamsync-api/internal/database"
	"github.com/teamsync/teamsync-api/internal/handlers"
	"github.com/teamsync/teamsync-api/internal/middleware"
	"github.com/teamsync/teamsync-api/internal/repository"
	"github.com/teamsync/teamsync-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	var logger *zap.Logger
	var err error
	if cfg.GinMode == gin.ReleaseMode {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := database.AddIndexes(db); err != nil {
		logger.Fatal("failed to create indexes", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	workspaceService := services.NewWorkspaceService(workspaceRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, workspaceRepo)
	statsService := services.NewStatsService(taskRepo, workspaceRepo, userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService)
	taskHandler := handlers.NewTaskHandler(taskService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TeamSync API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.RequireAuth(authService), authHandler.Me)
		}

		// Workspace routes (protected)
		workspaces := api.Group("/workspaces")
		workspaces.Use(middleware.RequireAuth(authService))
		{
			workspaces.GET("", workspaceHandler.ListWorkspaces)
			workspaces.POST("", workspaceHandler.CreateWorkspace)
			workspaces.POST("/assign-members", workspaceHandler.AssignMembers)
			workspaces.POST("/assign-manager", workspaceHandler.AssignManager)
			workspaces.GET("/:id", workspaceHandler.GetWorkspace)
			workspaces.POST("/:id/members", workspaceHandler.AddMember)
			workspaces.GET("/:id/members", workspaceHandler.ListMembers)
			workspaces.GET("/:id/tasks", taskHandler.ListWorkspaceTasks)
			workspaces.POST("/:id/tasks", taskHandler.CreateWorkspaceTask)
			workspaces.PATCH("/:id/tasks/:taskId", taskHandler.UpdateTaskStatus)
		}

		// Task and subtask routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(authService))
		{
			tasks.GET("/assigned", taskHandler.ListAssignedTasks)
			tasks.PATCH("/subtasks/:subtaskId", taskHandler.UpdateSubtaskByBody)
			tasks.POST("/:taskId/subtasks", taskHandler.AddSubtask)
			tasks.PATCH("/:taskId/subtasks/:subtaskId", taskHandler.UpdateSubtaskByPath)
			tasks.DELETE("/:taskId/subtasks/:subtaskId", taskHandler.DeleteSubtask)
		}

		// Statistics (protected)
		api.GET("/statistics", middleware.RequireAuth(authService), statsHandler.GetStatistics)
	}

	// Start server
	addr := ":" + cfg.Port
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
