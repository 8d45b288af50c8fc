package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"telehealth-app-server/internal/config"
	"telehealth-app-server/internal/logger"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/routes"
)

func main() {
	// Load environment variables; a missing .env file is fine in production
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	appLog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer appLog.Sync()

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		appLog.Fatal("error connecting to database", "error", err)
	}

	// Seed the initial admin and starter catalog on first run
	if err := models.SeedAdmin(db, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		appLog.Fatal("error seeding admin user", "error", err)
	}
	if err := models.SeedCatalog(db); err != nil {
		appLog.Fatal("error seeding symptom catalog", "error", err)
	}

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Set up routes - passing DB and config to let routes.go create the handlers
	routes.SetupRoutes(router, db, cfg, appLog)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	appLog.Info("server starting", "port", cfg.Port)
	if err := router.Run(serverAddr); err != nil {
		appLog.Fatal("failed to start server", "error", err)
	}
}
