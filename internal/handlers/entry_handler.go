package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryHandler handles entry-related HTTP requests
type EntryHandler struct {
	entryService services.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService services.EntryService) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
	}
}

// SubmitEntry handles POST /entries. The payment collaborator calls
// this after a transfer confirms; resubmitting the same payment
// reference returns the entry it already produced.
func (h *EntryHandler) SubmitEntry(c *gin.Context) {
	var req models.SubmitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	raffleID, err := primitive.ObjectIDFromHex(req.RaffleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid raffle ID format"})
		return
	}

	entry, err := h.entryService.SubmitEntry(c.Request.Context(), raffleID,
		req.WalletAddress, req.NumEntries, req.TotalPaid, req.PaymentReference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetRaffleEntries handles GET /raffles/:id/entries
func (h *EntryHandler) GetRaffleEntries(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	page, limit := pagination(c)

	entries, err := h.entryService.GetEntriesByRaffleID(c.Request.Context(), id, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetWalletEntries handles GET /wallets/:address/entries
func (h *EntryHandler) GetWalletEntries(c *gin.Context) {
	page, limit := pagination(c)

	entries, err := h.entryService.GetEntriesByWallet(c.Request.Context(), c.Param("address"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetWalletWinners handles GET /wallets/:address/winners
func (h *EntryHandler) GetWalletWinners(c *gin.Context) {
	page, limit := pagination(c)

	winners, err := h.entryService.GetWinnersByWallet(c.Request.Context(), c.Param("address"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, winners)
}
