package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/classical-poetry/internal/database"
	"github.com/palemoky/classical-poetry/internal/poetry"
	"github.com/palemoky/classical-poetry/internal/search"
	"github.com/palemoky/classical-poetry/internal/testutil"
)

// envelope is the decoded response body shared by every endpoint.
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// setupService seeds an in-memory database and returns a query service over it
func setupService(t *testing.T, fixtures ...testutil.PoemFixture) (*poetry.Service, *database.DB, []int64) {
	db, repo := testutil.SetupTestDB(t)
	ids := testutil.SeedPoems(t, repo, fixtures...)
	return poetry.NewService(repo, search.NewEngine(db), poetry.Config{}, nil), db, ids
}

func doGet(t *testing.T, router *gin.Engine, path string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func decodeData[T any](t *testing.T, resp envelope) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

var errBroken = errors.New("disk I/O error")

// brokenQuerier fails every call with a storage error.
type brokenQuerier struct{}

func (brokenQuerier) GetByID(context.Context, int64) (*poetry.Poem, error) { return nil, errBroken }
func (brokenQuerier) GetByAuthor(context.Context, string, int, int) (*poetry.PagedPoems, error) {
	return nil, errBroken
}
func (brokenQuerier) GetByDynasty(context.Context, string, int, int) (*poetry.PagedPoems, error) {
	return nil, errBroken
}
func (brokenQuerier) Random(context.Context) (*poetry.Poem, error)        { return nil, errBroken }
func (brokenQuerier) RandomN(context.Context, int) ([]poetry.Poem, error) { return nil, errBroken }
func (brokenQuerier) Search(context.Context, string, int) ([]poetry.Poem, error) {
	return nil, errBroken
}
func (brokenQuerier) GetAllAuthors(context.Context, int, int) (*poetry.PagedAuthors, error) {
	return nil, errBroken
}
func (brokenQuerier) GetDynasties(context.Context) ([]poetry.DynastyStat, error) {
	return nil, errBroken
}
func (brokenQuerier) GetStats(context.Context) (*poetry.Statistics, error) { return nil, errBroken }
func (brokenQuerier) Related(context.Context, int64, int) ([]poetry.Poem, error) {
	return nil, errBroken
}

var _ poetry.Querier = brokenQuerier{}
