package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rando-pics/api-go/services"
	"github.com/rando-pics/api-go/utils"
)

type LocationController struct {
	Locations services.LocationStore
}

func NewLocationController(locations services.LocationStore) *LocationController {
	return &LocationController{Locations: locations}
}

type UpdateLocationRequest struct {
	// Pointers so a missing field is distinguishable from 0,0.
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// UpdateLocation stores the caller's last known coordinate. Last write
// wins; retries are harmless.
func (lc *LocationController) UpdateLocation(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := lc.Locations.Upsert(c.Request.Context(), user.UserID, *req.Latitude, *req.Longitude); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
