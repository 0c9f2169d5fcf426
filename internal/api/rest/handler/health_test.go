package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/classical-poetry/internal/poetry"
	"github.com/palemoky/classical-poetry/internal/testutil"
)

type downDB struct{}

func (downDB) Ping(context.Context) error { return errors.New("database is locked") }
func (downDB) FullTextModule() string     { return "" }

func TestHealthHandler(t *testing.T) {
	_, db, _ := setupService(t)

	tests := []struct {
		name           string
		db             Pinger
		expectedStatus int
		expectedCode   string
	}{
		{"healthy database", db, http.StatusOK, ""},
		{"unreachable database", downDB{}, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testutil.SetupTestGin()
			router.GET("/health", HealthHandler(tt.db))

			status, resp := doGet(t, router, "/health")
			assert.Equal(t, tt.expectedStatus, status)
			if tt.expectedCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.expectedCode, resp.Error.Code)
				return
			}

			data := decodeData[map[string]string](t, resp)
			assert.Equal(t, "healthy", data["status"])
			assert.NotEmpty(t, data["full_text"])
		})
	}
}

func TestStatsHandler(t *testing.T) {
	svc, _, _ := setupService(t, testutil.ClassicPoems()...)

	router := testutil.SetupTestGin()
	router.GET("/stats", StatsHandler(svc))

	status, resp := doGet(t, router, "/stats")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, poetry.Statistics{TotalPoems: 5, TotalAuthors: 4, TotalDynasties: 3},
		decodeData[poetry.Statistics](t, resp))

	router = testutil.SetupTestGin()
	router.GET("/stats", StatsHandler(brokenQuerier{}))
	status, _ = doGet(t, router, "/stats")
	assert.Equal(t, http.StatusInternalServerError, status)
}
