package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rando-pics/api-go/metrics"
	"github.com/rando-pics/api-go/services"
	"github.com/rando-pics/api-go/utils"
)

type BroadcastController struct {
	Fanout     *services.FanoutService
	Deliveries services.DeliveryLedger
}

func NewBroadcastController(fanout *services.FanoutService, deliveries services.DeliveryLedger) *BroadcastController {
	return &BroadcastController{Fanout: fanout, Deliveries: deliveries}
}

type SubmitBroadcastRequest struct {
	ImageRef string `json:"imageRef" binding:"required"`
}

// SubmitBroadcast fans a photo out to nearby users. The image itself
// was already uploaded through the presigned-URL flow; the core only
// ever sees the opaque ref.
func (bc *BroadcastController) SubmitBroadcast(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req SubmitBroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	result, err := bc.Fanout.SubmitBroadcast(c.Request.Context(), user.UserID, req.ImageRef)
	if err != nil {
		if errors.Is(err, services.ErrNoRecipients) {
			metrics.NoRecipientsTotal.Inc()
		}
		respondError(c, err)
		return
	}

	metrics.BroadcastsTotal.Inc()
	metrics.DeliveriesTotal.Add(float64(result.RecipientCount))

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"recipientCount": result.RecipientCount,
		"recipientIds":   result.RecipientIDs,
	})
}

// GetInbox lists the caller's deliveries, newest first.
func (bc *BroadcastController) GetInbox(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	deliveries, err := bc.Deliveries.ListInbox(c.Request.Context(), user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "deliveries": deliveries})
}

// GetDelivery returns a single delivery. Only the receiver may look at
// their copy.
func (bc *BroadcastController) GetDelivery(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery id", "success": false})
		return
	}

	delivery, err := bc.Deliveries.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if delivery.ReceiverID != user.UserID {
		respondError(c, services.ErrForbidden)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "delivery": delivery})
}

// RemoveDelivery discards the caller's copy of a delivery.
func (bc *BroadcastController) RemoveDelivery(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery id", "success": false})
		return
	}

	if err := bc.Deliveries.Remove(c.Request.Context(), id, user.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
