package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rando-pics/api-go/controllers"
)

func SetupUploadRoutes(protected *gin.RouterGroup, uploadController *controllers.UploadController) {
	uploads := protected.Group("/uploads")
	{
		uploads.POST("/presigned-url", uploadController.GetPresignedURL)
	}
}
