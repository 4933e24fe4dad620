package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PayoutHandler handles payout-related HTTP requests
type PayoutHandler struct {
	payoutService services.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler
func NewPayoutHandler(payoutService services.PayoutService) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
	}
}

// GetPayouts handles GET /payouts
func (h *PayoutHandler) GetPayouts(c *gin.Context) {
	page, limit := pagination(c)
	status := models.PayoutStatus(strings.ToUpper(c.DefaultQuery("status", string(models.PayoutStatusPending))))

	payouts, err := h.payoutService.GetPayouts(c.Request.Context(), status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payouts)
}

// RecordPayoutAttempt handles POST /payouts/:id/attempt
func (h *PayoutHandler) RecordPayoutAttempt(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var req models.PayoutAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payout, err := h.payoutService.RecordPayoutAttempt(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payout)
}

// SweepPayouts handles POST /payouts/sweep
func (h *PayoutHandler) SweepPayouts(c *gin.Context) {
	result, err := h.payoutService.Sweep(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
