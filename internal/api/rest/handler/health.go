package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/palemoky/classical-poetry/internal/errors"
	"github.com/palemoky/classical-poetry/internal/logger"
	"github.com/palemoky/classical-poetry/internal/poetry"
)

// Pinger is the part of the database handle the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
	FullTextModule() string
}

// HealthHandler reports whether the database answers and which full-text
// module backs search ("none" when search runs on substring matching only).
func HealthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			respondError(c, apierrors.ErrUnavailable)
			return
		}

		fts := db.FullTextModule()
		if fts == "" {
			fts = "none"
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"status":    "healthy",
				"full_text": fts,
			},
		})
	}
}

// StatsHandler returns overall statistics
func StatsHandler(svc poetry.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.GetStats(c.Request.Context())
		if err != nil {
			respondServiceError(c, err, "Statistics")
			return
		}

		respondOK(c, stats)
	}
}
