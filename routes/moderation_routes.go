package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rando-pics/api-go/controllers"
	"github.com/rando-pics/api-go/middleware"
)

func SetupModerationRoutes(protected *gin.RouterGroup, moderationController *controllers.ModerationController) {
	protected.POST("/report", moderationController.FileReport)

	moderation := protected.Group("/moderation")
	moderation.Use(middleware.RequireModerator())
	{
		moderation.GET("/reports", moderationController.ListReports)
		moderation.DELETE("/reports/:id", moderationController.DismissReport)
		moderation.POST("/ban/:userId", moderationController.BanUser)
	}
}
