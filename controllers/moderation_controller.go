package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rando-pics/api-go/metrics"
	"github.com/rando-pics/api-go/services"
	"github.com/rando-pics/api-go/utils"
)

type ModerationController struct {
	Moderation *services.ModerationService
}

func NewModerationController(moderation *services.ModerationService) *ModerationController {
	return &ModerationController{Moderation: moderation}
}

type FileReportRequest struct {
	DeliveryID uint   `json:"deliveryId" binding:"required"`
	Reason     string `json:"reason"`
}

// FileReport lets a recipient flag a delivery they received.
func (mc *ModerationController) FileReport(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req FileReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	reportID, err := mc.Moderation.FileReport(c.Request.Context(), user.UserID, req.DeliveryID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.ReportsTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{"success": true, "reportId": reportID})
}

// ListReports returns all open reports for moderator review.
func (mc *ModerationController) ListReports(c *gin.Context) {
	reports, err := mc.Moderation.ListReports(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reports": reports})
}

// DismissReport closes a report without action.
func (mc *ModerationController) DismissReport(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id", "success": false})
		return
	}

	if err := mc.Moderation.DismissReport(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// BanUser runs the full cascade against the target account.
func (mc *ModerationController) BanUser(c *gin.Context) {
	id, err := parseID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id", "success": false})
		return
	}

	if err := mc.Moderation.BanUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	metrics.BansTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User banned"})
}
