package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rando-pics/api-go/config"
	"github.com/rando-pics/api-go/controllers"
	"github.com/rando-pics/api-go/middleware"
	"github.com/rando-pics/api-go/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	broadcastConfig := config.GetBroadcastConfig()

	stores := services.NewGormStores(db)
	txRunner := &services.GormTxRunner{DB: db}

	fanoutService := services.NewFanoutService(txRunner, broadcastConfig.RadiusMeters, broadcastConfig.MaxRecipients)
	moderationService := services.NewModerationService(stores, txRunner)
	accountService := services.NewAccountService(txRunner)

	// Initialize controllers
	authController := controllers.NewAuthController(db, accountService)
	uploadController := controllers.NewUploadController()
	locationController := controllers.NewLocationController(stores.Locations)
	broadcastController := controllers.NewBroadcastController(fanoutService, stores.Deliveries)
	moderationController := controllers.NewModerationController(moderationService)

	submitLimiter := middleware.NewRateLimiter(broadcastConfig.SubmitPerMinute, broadcastConfig.SubmitBurst)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/auth/google", authController.GoogleLogin)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", authController.Logout)
		protected.POST("/refresh-token", authController.RefreshToken)
		protected.GET("/profile", authController.GetProfile)
		protected.DELETE("/account", authController.DeleteAccount)

		// Setup other routes within the protected group
		SetupBroadcastRoutes(protected, broadcastController, locationController, submitLimiter)
		SetupModerationRoutes(protected, moderationController)
		SetupUploadRoutes(protected, uploadController)
	}
}
