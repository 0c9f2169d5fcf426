package handler

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/palemoky/classical-poetry/internal/errors"
	"github.com/palemoky/classical-poetry/internal/poetry"
)

// AuthorHandler handles author-related requests
type AuthorHandler struct {
	svc poetry.Querier
}

// NewAuthorHandler creates a new author handler
func NewAuthorHandler(svc poetry.Querier) *AuthorHandler {
	return &AuthorHandler{svc: svc}
}

// ListAuthors returns authors grouped by dynasty with poem counts
func (h *AuthorHandler) ListAuthors(c *gin.Context) {
	params := ParsePagination(c)

	result, err := h.svc.GetAllAuthors(c.Request.Context(), params.Page, params.PageSize)
	if err != nil {
		respondServiceError(c, err, "Author")
		return
	}

	respondPaged(c, result.Authors, Pagination{
		Page:       result.Page,
		PageSize:   result.PageSize,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}

// AuthorPoems returns one page of an author's poems
func (h *AuthorHandler) AuthorPoems(c *gin.Context) {
	params := ParsePagination(c)

	result, err := h.svc.GetByAuthor(c.Request.Context(), c.Param("name"), params.Page, params.PageSize)
	if err != nil {
		respondServiceError(c, err, "Author")
		return
	}
	if len(result.Poems) == 0 {
		respondError(c, apierrors.NotFound("Author"))
		return
	}

	respondPagedPoems(c, result)
}

func respondPagedPoems(c *gin.Context, result *poetry.PagedPoems) {
	respondPaged(c, formatPoems(result.Poems), Pagination{
		Page:       result.Page,
		PageSize:   result.PageSize,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}
