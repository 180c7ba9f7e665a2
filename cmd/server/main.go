package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/buildcrew/crew-management-api/internal/config"
	"github.com/buildcrew/crew-management-api/internal/constants"
	"github.com/buildcrew/crew-management-api/internal/database"
	"github.com/buildcrew/crew-management-api/internal/handlers"
	"github.com/buildcrew/crew-management-api/internal/lock"
	"github.com/buildcrew/crew-management-api/internal/logging"
	"github.com/buildcrew/crew-management-api/internal/middleware"
	"github.com/buildcrew/crew-management-api/internal/repository"
	"github.com/buildcrew/crew-management-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode and logging
	gin.SetMode(cfg.GinMode)
	logging.Init(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// The index pass checks pg_indexes, so it runs on postgres only
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(db); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
	}

	// Repositories
	projectRepo := repository.NewProjectRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services. Lifecycle and calendar writes share one per-task lock map.
	taskLocks := lock.NewMutexMap()
	notificationService := services.NewNotificationService(notificationRepo, projectRepo)
	lifecycleService := services.NewLifecycleService(projectRepo, workerRepo, notificationService, taskLocks)
	calendarService := services.NewCalendarService(projectRepo, workerRepo, taskLocks)
	messageService := services.NewMessageService(messageRepo, projectRepo, notificationService)
	workerService := services.NewWorkerService(workerRepo)
	authService := services.NewAuthService(workerRepo, adminRepo)

	// Bootstrap the admin account from config
	if err := authService.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to bootstrap admin account: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionName, store))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, workerService)
	projectHandler := handlers.NewProjectHandler(projectRepo)
	workerHandler := handlers.NewWorkerHandler(workerService)
	taskHandler := handlers.NewTaskHandler(lifecycleService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)
	messageHandler := handlers.NewMessageHandler(messageService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Crew Management API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/worker-login", authHandler.WorkerLogin)
			auth.POST("/admin-login", authHandler.AdminLogin)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.Me)
		}

		// Project/task admin routes
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAdmin())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", middleware.RequireProjectAccess(), projectHandler.GetProject)
			projects.PUT("/:id", middleware.RequireProjectAccess(), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireProjectAccess(), projectHandler.DeleteProject)
			projects.POST("/:id/tasks", middleware.RequireProjectAccess(), projectHandler.CreateTask)
			projects.POST("/:id/tasks/import", middleware.RequireProjectAccess(), projectHandler.ImportTasks)
			projects.POST("/:id/tasks/:task_id/assign", middleware.RequireTaskAccess(), taskHandler.AssignTask)
			projects.DELETE("/:id/tasks/:task_id", middleware.RequireTaskAccess(), projectHandler.DeleteTask)
			projects.GET("/:id/tasks/:task_id/messages", middleware.RequireTaskAccess(), messageHandler.AdminThread)
		}

		// Worker admin routes
		workers := api.Group("/workers")
		workers.Use(middleware.RequireAdmin())
		{
			workers.GET("", workerHandler.ListWorkers)
			workers.POST("", workerHandler.CreateWorker)
			workers.GET("/:id", workerHandler.GetWorker)
			workers.PUT("/:id", workerHandler.UpdateWorker)
			workers.DELETE("/:id", workerHandler.DeleteWorker)
		}

		// Calendar routes (admin)
		calendar := api.Group("/calendar")
		calendar.Use(middleware.RequireAdmin())
		{
			calendar.GET("/week", calendarHandler.Week)
			calendar.POST("/schedule", calendarHandler.ScheduleTask)
		}

		// Admin message/notification feeds
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/notifications", notificationHandler.AdminList)
			admin.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			admin.POST("/messages", messageHandler.AdminSendMessage)
			admin.PUT("/messages/read", messageHandler.AdminMarkRead)
		}

		// Worker-facing routes (PIN session)
		worker := api.Group("/worker")
		worker.Use(middleware.RequireWorkerAuth())
		{
			worker.GET("/tasks", taskHandler.WorkerTasks)
			worker.POST("/projects/:id/tasks/:task_id", middleware.RequireTaskAccess(), taskHandler.WorkerUpdateTask)
			worker.GET("/messages", messageHandler.WorkerThreads)
			worker.POST("/messages", messageHandler.WorkerSendMessage)
			worker.PUT("/messages/read", messageHandler.WorkerMarkRead)
			worker.GET("/notifications", notificationHandler.WorkerList)
			worker.PUT("/notifications/:id/read", notificationHandler.WorkerMarkRead)
			worker.DELETE("/notifications", notificationHandler.WorkerClear)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
