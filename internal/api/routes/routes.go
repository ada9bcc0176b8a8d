package routes

import (
	"ops-portal-backend/internal/api/handlers"
	"ops-portal-backend/internal/api/middleware"
	"ops-portal-backend/internal/auth"
	"ops-portal-backend/internal/config"
	"ops-portal-backend/internal/logger"
	"ops-portal-backend/internal/repository"
	"ops-portal-backend/internal/service"

	_ "ops-portal-backend/docs"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRoutes wires repositories, services and handlers onto a gin engine
func SetupRoutes(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	router := gin.New()

	log := logger.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	validate := validator.New()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	joinRepo := repository.NewJoinRequestRepository(db)
	transferRepo := repository.NewTransferRequestRepository(db)
	employeeRepo := repository.NewEmployeeRequestRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	guard := service.NewAuthorizationGuard(membershipRepo, teamRepo)
	notificationService := service.NewNotificationService(notificationRepo, cfg.NotifyMaxAttempts, cfg.NotifyRetryDelay())
	workflowService := service.NewWorkflowService(
		db,
		joinRepo,
		transferRepo,
		employeeRepo,
		membershipRepo,
		teamRepo,
		guard,
		notificationService,
		validate,
	)
	joinService := service.NewJoinRequestService(joinRepo, teamRepo, userRepo, membershipRepo, validate)
	transferService := service.NewTransferRequestService(transferRepo, teamRepo, userRepo, membershipRepo, validate)
	employeeService := service.NewEmployeeRequestService(employeeRepo, teamRepo, userRepo, membershipRepo, validate)
	teamService := service.NewTeamService(teamRepo, membershipRepo, userRepo, validate)

	// Auth
	providerCfg, err := auth.LoadProviderConfig("config/auth.yaml")
	if err != nil {
		return nil, err
	}
	if providerCfg.TokenTTL == 0 {
		providerCfg.TokenTTL = cfg.JWTTTL()
	}
	authService := auth.NewAuthService(cfg.JWTSecret, providerCfg, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService)
	authHandler := auth.NewAuthHandler(authService)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	teamHandler := handlers.NewTeamHandler(teamService)
	joinHandler := handlers.NewJoinRequestHandler(joinService, workflowService)
	transferHandler := handlers.NewTransferRequestHandler(transferService, workflowService)
	employeeHandler := handlers.NewEmployeeRequestHandler(employeeService, workflowService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Health and docs
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Token issuance
	router.POST("/api/auth/token", authHandler.IssueToken)

	// Authenticated API
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		teams := v1.Group("/teams")
		{
			teams.POST("", teamHandler.Create)
			teams.GET("", teamHandler.List)
			teams.GET("/:id", teamHandler.GetByID)
			teams.GET("/:id/members", teamHandler.GetMembers)
		}

		joinRequests := v1.Group("/requests/join")
		{
			joinRequests.POST("", joinHandler.Create)
			joinRequests.GET("", joinHandler.ListMine)
			joinRequests.GET("/pending", joinHandler.ListPending)
			joinRequests.GET("/:id", joinHandler.GetByID)
			joinRequests.POST("/:id/approve", joinHandler.Approve)
			joinRequests.POST("/:id/reject", joinHandler.Reject)
			joinRequests.DELETE("/:id", joinHandler.Withdraw)
		}

		transferRequests := v1.Group("/requests/transfer")
		{
			transferRequests.POST("", transferHandler.Create)
			transferRequests.GET("", transferHandler.ListMine)
			transferRequests.GET("/pending", transferHandler.ListPending)
			transferRequests.GET("/:id", transferHandler.GetByID)
			transferRequests.POST("/:id/approve", transferHandler.Approve)
			transferRequests.POST("/:id/reject", transferHandler.Reject)
			transferRequests.DELETE("/:id", transferHandler.Withdraw)
		}

		employeeRequests := v1.Group("/requests/employee")
		{
			employeeRequests.POST("", employeeHandler.Create)
			employeeRequests.GET("", employeeHandler.ListMine)
			employeeRequests.GET("/pending", employeeHandler.ListPending)
			employeeRequests.GET("/:id", employeeHandler.GetByID)
			employeeRequests.POST("/:id/approve", employeeHandler.Approve)
			employeeRequests.POST("/:id/reject", employeeHandler.Reject)
			employeeRequests.DELETE("/:id", employeeHandler.Withdraw)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}
	}

	return router, nil
}
