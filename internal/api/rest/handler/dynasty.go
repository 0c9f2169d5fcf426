package handler

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/palemoky/classical-poetry/internal/errors"
	"github.com/palemoky/classical-poetry/internal/poetry"
)

// DynastyHandler handles dynasty-related requests
type DynastyHandler struct {
	svc poetry.Querier
}

// NewDynastyHandler creates a new dynasty handler
func NewDynastyHandler(svc poetry.Querier) *DynastyHandler {
	return &DynastyHandler{svc: svc}
}

// ListDynasties returns every dynasty in chronological order
func (h *DynastyHandler) ListDynasties(c *gin.Context) {
	dynasties, err := h.svc.GetDynasties(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Dynasty")
		return
	}

	data := make([]map[string]any, len(dynasties))
	for i, d := range dynasties {
		data[i] = formatDynasty(d)
	}

	respondOK(c, data)
}

// DynastyPoems returns one page of a dynasty's poems
func (h *DynastyHandler) DynastyPoems(c *gin.Context) {
	params := ParsePagination(c)

	result, err := h.svc.GetByDynasty(c.Request.Context(), c.Param("name"), params.Page, params.PageSize)
	if err != nil {
		respondServiceError(c, err, "Dynasty")
		return
	}
	if len(result.Poems) == 0 {
		respondError(c, apierrors.NotFound("Dynasty"))
		return
	}

	respondPagedPoems(c, result)
}
