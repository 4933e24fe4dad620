package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/services"
)

// StatsHandler handles platform statistics HTTP requests
type StatsHandler struct {
	statsService services.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetPlatformStats handles GET /stats
func (h *StatsHandler) GetPlatformStats(c *gin.Context) {
	stats, err := h.statsService.GetPlatformStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
