package routes

import (
	"github.com/estatehub/realestate-backend/internal/api/handlers"
	"github.com/estatehub/realestate-backend/internal/api/middleware"
	"github.com/estatehub/realestate-backend/internal/config"
	"github.com/estatehub/realestate-backend/internal/models"
	"github.com/estatehub/realestate-backend/internal/services"
	"github.com/estatehub/realestate-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Initialize services
	s3Service := services.NewS3Service(cfg.AWSRegion, cfg.S3BucketName, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(db, cfg.JWTSecret, emailService)
	propertyService := services.NewPropertyService(db, s3Service)
	imageService := services.NewImageService(db, s3Service)
	favoriteService := services.NewFavoriteService(db)
	testimonialService := services.NewTestimonialService(db)
	visitorService := services.NewVisitorService(db)
	adminService := services.NewAdminService(db, propertyService)

	geminiClient := services.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	aiService := services.NewAIService(geminiClient, propertyService, cfg.AIDescriptionLimit, cfg.AIChatLimit)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, imageService)
	passwordHandler := handlers.NewPasswordHandler(authService)
	propertyHandler := handlers.NewPropertyHandler(propertyService, imageService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	testimonialHandler := handlers.NewTestimonialHandler(testimonialService)
	aiHandler := handlers.NewAIHandler(aiService)
	adminHandler := handlers.NewAdminHandler(adminService, testimonialService, visitorService)

	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RateLimitMiddleware(cfg))
	router.Use(middleware.VisitorLogger(visitorService))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})

	api := router.Group("/api/v1")
	authRequired := middleware.AuthMiddleware(db, cfg)

	// Auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh-token", authHandler.RefreshToken)
		auth.POST("/logout", authRequired, authHandler.Logout)
		auth.GET("/profile", authRequired, authHandler.GetProfile)
		auth.PUT("/profile", authRequired, authHandler.UpdateProfile)
	}

	api.PUT("/profile/avatar", authRequired, authHandler.UpdateAvatar)

	// Password routes
	password := api.Group("/password")
	{
		password.POST("/forgot", passwordHandler.ForgotPassword)
		password.POST("/reset", passwordHandler.ResetPassword)
		password.POST("/change", authRequired, passwordHandler.ChangePassword)
	}

	// Property routes
	properties := api.Group("/properties")
	{
		properties.GET("", propertyHandler.Search)
		properties.GET("/suggestions", propertyHandler.GetSuggestions)
		properties.GET("/:id", propertyHandler.GetProperty)
		properties.GET("/:id/images", propertyHandler.ListImages)

		properties.POST("", authRequired, middleware.RequireRoles(models.RoleAgent), propertyHandler.CreateProperty)
		properties.PUT("/:id", authRequired, middleware.RequireRoles(models.RoleAgent), propertyHandler.UpdateProperty)
		properties.DELETE("/:id", authRequired, middleware.RequireRoles(models.RoleAgent), propertyHandler.DeleteProperty)
		properties.POST("/:id/images", authRequired, middleware.RequireRoles(models.RoleAgent), propertyHandler.UploadImages)
		properties.DELETE("/:id/images/:imageId", authRequired, middleware.RequireRoles(models.RoleAgent), propertyHandler.DeleteImage)
	}

	// Alias kept for the search page
	api.GET("/search", propertyHandler.Search)

	api.GET("/agent/stats", authRequired, middleware.RequireRoles(models.RoleAgent), propertyHandler.GetAgentStats)

	// Favorite routes
	favorites := api.Group("/favorites", authRequired)
	{
		favorites.POST("/:propertyId", favoriteHandler.Toggle)
		favorites.GET("", favoriteHandler.List)
		favorites.GET("/check", favoriteHandler.Check)
	}

	// Testimonial routes
	testimonials := api.Group("/testimonials")
	{
		testimonials.GET("", testimonialHandler.List)
		testimonials.POST("", authRequired, testimonialHandler.Create)
		testimonials.DELETE("/:id", authRequired, testimonialHandler.Delete)
	}

	// AI routes; chat is public but IP-limited, description is agent-only
	ai := api.Group("/ai")
	{
		ai.POST("/chat", aiHandler.Chat)
		ai.POST("/generate-description", authRequired, middleware.RequireRoles(models.RoleAgent), aiHandler.GenerateDescription)
	}

	// Admin routes
	admin := api.Group("/admin", authRequired, middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/stats", adminHandler.GetDashboard)
		admin.GET("/users", adminHandler.ListUsers)
		admin.PUT("/users/:id/active", adminHandler.SetUserActive)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
		admin.GET("/properties", adminHandler.ListProperties)
		admin.DELETE("/properties/:id", propertyHandler.DeleteProperty)
		admin.GET("/testimonials", adminHandler.ListTestimonials)
		admin.PUT("/testimonials/:id/approve", adminHandler.ApproveTestimonial)
		admin.DELETE("/testimonials/:id", testimonialHandler.Delete)
		admin.GET("/visitors", adminHandler.ListVisitors)
		admin.PUT("/properties/:id/analysis", adminHandler.UpsertAnalysis)
	}

	logger.Info("Routes initialized successfully")
}
