package main

import (
	"log"

	"github.com/estatehub/realestate-backend/internal/api/routes"
	"github.com/estatehub/realestate-backend/internal/config"
	"github.com/estatehub/realestate-backend/internal/database"
	"github.com/estatehub/realestate-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize logger
	logger.Init()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// Setup routes
	routes.SetupRoutes(router, db, cfg)

	// Start server
	logger.Info("Server starting on port " + cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", err)
	}
}
