package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/palemoky/classical-poetry/internal/errors"
	"github.com/palemoky/classical-poetry/internal/poetry"
)

// RelatedCount is how many poems /poems/:id/related returns at most.
const RelatedCount = 3

// PoemHandler handles poem-related requests
type PoemHandler struct {
	svc            poetry.Querier
	searchLimit    int
	maxRandomCount int
}

// NewPoemHandler creates a new poem handler. searchLimit applies when
// ?limit is absent; maxRandomCount caps ?count.
func NewPoemHandler(svc poetry.Querier, searchLimit, maxRandomCount int) *PoemHandler {
	return &PoemHandler{
		svc:            svc,
		searchLimit:    searchLimit,
		maxRandomCount: maxRandomCount,
	}
}

// GetPoem returns a single poem by ID
func (h *PoemHandler) GetPoem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	poem, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Poem")
		return
	}

	respondOK(c, formatPoem(poem))
}

// RelatedPoems returns other poems by the same author
func (h *PoemHandler) RelatedPoems(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	poems, err := h.svc.Related(c.Request.Context(), id, RelatedCount)
	if err != nil {
		respondServiceError(c, err, "Poem")
		return
	}

	respondOK(c, formatPoems(poems))
}

// RandomPoems returns ?count random poems (default 1, capped). A count of
// one returns a single object, anything larger an array.
func (h *PoemHandler) RandomPoems(c *gin.Context) {
	count := 1
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, apierrors.InvalidRequest("count must be a positive integer"))
			return
		}
		count = min(n, h.maxRandomCount)
	}

	ctx := c.Request.Context()
	if count == 1 {
		poem, err := h.svc.Random(ctx)
		if err != nil {
			respondServiceError(c, err, "Poem")
			return
		}
		respondOK(c, formatPoem(poem))
		return
	}

	poems, err := h.svc.RandomN(ctx, count)
	if err != nil {
		respondServiceError(c, err, "Poem")
		return
	}
	respondOK(c, formatPoems(poems))
}

// SearchPoems searches titles, authors and content for ?q
func (h *PoemHandler) SearchPoems(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, apierrors.InvalidRequest("query parameter 'q' is required"))
		return
	}

	limit := h.searchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, apierrors.InvalidRequest("limit must be a positive integer"))
			return
		}
		limit = min(n, MaxPageSize)
	}

	poems, err := h.svc.Search(c.Request.Context(), query, limit)
	if err != nil {
		respondServiceError(c, err, "Poem")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    formatPoems(poems),
		"query":   query,
		"count":   len(poems),
	})
}
