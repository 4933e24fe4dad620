package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/apperrors"
)

// respondError writes the JSON error body for a failed service call,
// with the HTTP status derived from the error kind.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
}

// pagination reads the standard page/limit query parameters
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
