package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/palemoky/classical-poetry/internal/errors"
	"github.com/palemoky/classical-poetry/internal/logger"
	"github.com/palemoky/classical-poetry/internal/poetry"
)

// parseID extracts and validates a positive int64 ID from a URL parameter.
// Returns the ID and true if successful, or sends an error response and returns false.
func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apierrors.InvalidID(param))
		return 0, false
	}
	return id, true
}

// respondError sends the failure envelope.
func respondError(c *gin.Context, err *apierrors.APIError) {
	c.AbortWithStatusJSON(err.HTTPStatus, gin.H{
		"success": false,
		"error":   err,
	})
}

// respondServiceError maps a query service error to a response through
// apierrors.From. Errors that map to an internal error are logged.
func respondServiceError(c *gin.Context, err error, resource string) {
	if errors.Is(err, poetry.ErrNotFound) {
		respondError(c, apierrors.NotFound(resource))
		return
	}

	apiErr := apierrors.From(err)
	if apiErr.Code == apierrors.CodeInternal {
		_ = c.Error(err)
		logger.Error("Query failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	respondError(c, apiErr)
}

// respondOK sends a JSON success response with the given data.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondPaged sends a success response with pagination details.
func respondPaged(c *gin.Context, data any, p Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": p,
	})
}
