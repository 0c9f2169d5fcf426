// Package testutil provides shared utilities for testing.
package testutil

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/classical-poetry/internal/database"
)

// PoemFixture describes a poem to seed into a test database.
type PoemFixture struct {
	Title      string
	Author     string
	Dynasty    string
	Paragraphs []string
	Tags       []string
}

// SetupTestDB creates an in-memory SQLite database with migrations applied.
// Returns the DB wrapper and Repository. Automatically cleans up on test completion.
func SetupTestDB(t testing.TB) (*database.DB, *database.Repository) {
	t.Helper()

	db, err := database.Open(":memory:", 1, 1)
	require.NoError(t, err, "Failed to open in-memory database")
	require.NoError(t, db.Migrate(), "Failed to run migrations")

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, database.NewRepository(db)
}

// SeedPoems inserts fixtures in order, rebuilds the full-text index when one
// exists and returns the assigned ids.
func SeedPoems(t testing.TB, repo *database.Repository, fixtures ...PoemFixture) []int64 {
	t.Helper()

	ctx := context.Background()
	ids := make([]int64, len(fixtures))
	for i, f := range fixtures {
		rec, err := database.NewPoemRecord(f.Title, f.Author, f.Dynasty, f.Paragraphs, f.Tags)
		require.NoError(t, err)
		require.NoError(t, repo.InsertPoem(ctx, rec))
		ids[i] = rec.ID
	}

	if repo.DB().HasFullTextIndex() {
		require.NoError(t, repo.DB().RebuildFullTextIndex(ctx))
	}
	return ids
}

// ClassicPoems is a small corpus spanning three dynasties.
func ClassicPoems() []PoemFixture {
	return []PoemFixture{
		{Title: "静夜思", Author: "李白", Dynasty: "唐", Paragraphs: []string{"床前明月光，疑是地上霜。", "举头望明月，低头思故乡。"}, Tags: []string{"思乡"}},
		{Title: "望庐山瀑布", Author: "李白", Dynasty: "唐", Paragraphs: []string{"日照香炉生紫烟，遥看瀑布挂前川。", "飞流直下三千尺，疑是银河落九天。"}},
		{Title: "春望", Author: "杜甫", Dynasty: "唐", Paragraphs: []string{"国破山河在，城春草木深。"}},
		{Title: "水调歌头", Author: "苏轼", Dynasty: "宋", Paragraphs: []string{"明月几时有？把酒问青天。"}},
		{Title: "关雎", Author: "佚名", Dynasty: "先秦", Paragraphs: []string{"关关雎鸠，在河之洲。"}},
	}
}

// SetupTestGin creates a test Gin engine with test mode enabled.
func SetupTestGin() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}
