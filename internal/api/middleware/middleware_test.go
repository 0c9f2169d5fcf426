package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/classical-poetry/internal/metrics"
	"github.com/palemoky/classical-poetry/internal/testutil"
)

func okHandler(c *gin.Context) {
	c.Status(http.StatusOK)
}

func TestRateLimiter(t *testing.T) {
	router := testutil.SetupTestGin()
	router.Use(NewRateLimiter(1, 2).Middleware())
	router.GET("/ping", okHandler)

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes[i] = rec.Code

		if rec.Code == http.StatusTooManyRequests {
			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, "RATE_LIMITED", body.Error.Code)
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "192.0.2.2:1234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name      string
		allowed   []string
		origin    string
		wantAllow string
	}{
		{"wildcard", []string{"*"}, "https://example.org", "*"},
		{"no origins configured", nil, "https://example.org", "*"},
		{"listed origin", []string{"https://poems.example"}, "https://poems.example", "https://poems.example"},
		{"unlisted origin", []string{"https://poems.example"}, "https://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testutil.SetupTestGin()
			router.Use(CORS(tt.allowed))
			router.GET("/ping", okHandler)

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantAllow, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := metrics.NewHTTPMetrics(registry)
	require.NoError(t, err)

	router := testutil.SetupTestGin()
	router.Use(Metrics(m))
	router.GET("/poems/:id", okHandler)

	for _, path := range []string{"/poems/1", "/poems/2", "/missing"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	// two requests share the route template, the unmatched one is labelled "unknown"
	count, err := promtest.GatherAndCount(registry, "poetry_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetricsDisabled(t *testing.T) {
	router := testutil.SetupTestGin()
	router.Use(Metrics(nil), RequestLogger())
	router.GET("/ping", okHandler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
