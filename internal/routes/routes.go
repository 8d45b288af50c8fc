package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"telehealth-app-server/internal/catalog"
	"telehealth-app-server/internal/config"
	"telehealth-app-server/internal/diagnosis"
	"telehealth-app-server/internal/handlers"
	"telehealth-app-server/internal/logger"
	"telehealth-app-server/internal/middleware"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/notify"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, log *logger.Logger) {
	// Wire the diagnosis pipeline over the catalog reader
	reader := catalog.NewRepository(db)
	pipeline := diagnosis.NewService(db, reader, cfg.Diagnosis, log)
	review := diagnosis.NewReviewService(db, diagnosis.NewUserRoles(db), notify.NewStoreNotifier(db, log), log)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	catalogHandler := handlers.NewCatalogHandler(db)
	diagnosisHandler := handlers.NewDiagnosisHandler(db, pipeline, review)
	prescriptionHandler := handlers.NewPrescriptionHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
		}

		// User management routes
		userRoutes := private.Group("/users")
		{
			// Doctors listing - accessible by all authenticated users
			userRoutes.GET("/doctors", userHandler.GetDoctors)

			// Admin-only routes
			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin)) // Only Admins
			{
				adminRoutes.POST("", userHandler.CreateUser)
				adminRoutes.GET("", userHandler.GetUsers)
			}
		}

		// Symptom catalog administration
		catalogRoutes := private.Group("/catalog")
		{
			// Reads are open to any authenticated user
			catalogRoutes.GET("/symptoms", catalogHandler.GetSymptoms)
			catalogRoutes.GET("/conditions", catalogHandler.GetConditions)

			// Writes are admin-only; the pipeline never writes catalog data
			catalogAdmin := catalogRoutes.Group("")
			catalogAdmin.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				catalogAdmin.POST("/symptoms", catalogHandler.CreateSymptom)
				catalogAdmin.POST("/conditions", catalogHandler.CreateCondition)
				catalogAdmin.POST("/condition-symptoms", catalogHandler.CreateConditionSymptom)
				catalogAdmin.GET("/condition-symptoms", catalogHandler.GetConditionSymptoms)
				catalogAdmin.POST("/aliases", catalogHandler.CreateAlias)
				catalogAdmin.GET("/aliases", catalogHandler.GetAliases)
				catalogAdmin.POST("/drug-recommendations", catalogHandler.CreateDrugRecommendation)
				catalogAdmin.GET("/drug-recommendations", catalogHandler.GetDrugRecommendations)
			}
		}

		// Diagnosis pipeline and review routes
		diagnosisRoutes := private.Group("/diagnosis")
		{
			// Patients submit symptoms for analysis
			diagnosisRoutes.POST("/analyze", middleware.RoleAuthMiddleware(models.RolePatient), diagnosisHandler.Analyze)

			// Listing and fetching differentiate by role inside the handler
			diagnosisRoutes.GET("", diagnosisHandler.GetDiagnoses)
			diagnosisRoutes.GET("/:id", diagnosisHandler.GetDiagnosisByID)

			// Review transitions are doctor-only; the state machine applies
			// its own ownership and state guards
			doctorRoutes := diagnosisRoutes.Group("")
			doctorRoutes.Use(middleware.RoleAuthMiddleware(models.RoleDoctor))
			{
				doctorRoutes.POST("/:id/claim", diagnosisHandler.ClaimDiagnosis)
				doctorRoutes.POST("/:id/approve", diagnosisHandler.ApproveDiagnosis)
				doctorRoutes.POST("/:id/modify", diagnosisHandler.ModifyDiagnosis)
				doctorRoutes.POST("/:id/reject", diagnosisHandler.RejectDiagnosis)
			}
		}

		// Prescription routes (read-only surface)
		prescriptionRoutes := private.Group("/prescriptions")
		{
			prescriptionRoutes.GET("", prescriptionHandler.GetPrescriptionsForUser)
			prescriptionRoutes.GET("/:id", prescriptionHandler.GetPrescriptionByID)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
