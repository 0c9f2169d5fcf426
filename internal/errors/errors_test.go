package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantCode   Code
		wantStatus int
		wantMsg    string
	}{
		{"not found", NotFound("poem"), CodeNotFound, http.StatusNotFound, "poem not found"},
		{"invalid id", InvalidID("id"), CodeInvalidID, http.StatusBadRequest, "Invalid id: must be a positive integer"},
		{"invalid request", InvalidRequest("q is required"), CodeInvalidRequest, http.StatusBadRequest, "q is required"},
		{"internal default", Internal(""), CodeInternal, http.StatusInternalServerError, "Internal server error"},
		{"internal custom", Internal("search failed"), CodeInternal, http.StatusInternalServerError, "search failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestFrom(t *testing.T) {
	t.Run("wrapped api error", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", NotFound("author"))
		got := From(err)
		assert.Equal(t, CodeNotFound, got.Code)
	})

	t.Run("plain error", func(t *testing.T) {
		assert.Same(t, ErrInternal, From(io.EOF))
	})
}
