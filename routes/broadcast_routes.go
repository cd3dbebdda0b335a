package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rando-pics/api-go/controllers"
	"github.com/rando-pics/api-go/middleware"
)

func SetupBroadcastRoutes(protected *gin.RouterGroup, broadcastController *controllers.BroadcastController, locationController *controllers.LocationController, submitLimiter *middleware.RateLimiter) {
	protected.POST("/location", locationController.UpdateLocation)

	protected.POST("/broadcast", submitLimiter.Middleware(), broadcastController.SubmitBroadcast)

	inbox := protected.Group("/inbox")
	{
		inbox.GET("", broadcastController.GetInbox)
		inbox.GET("/:id", broadcastController.GetDelivery)
		inbox.DELETE("/:id", broadcastController.RemoveDelivery)
	}
}
