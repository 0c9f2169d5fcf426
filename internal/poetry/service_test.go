package poetry

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/classical-poetry/internal/database"
	"github.com/palemoky/classical-poetry/internal/metrics"
	"github.com/palemoky/classical-poetry/internal/search"
	"github.com/palemoky/classical-poetry/internal/testutil"
)

func setupService(t testing.TB, fixtures ...testutil.PoemFixture) (*Service, []int64) {
	db, repo := testutil.SetupTestDB(t)
	ids := testutil.SeedPoems(t, repo, fixtures...)
	return NewService(repo, search.NewEngine(db), Config{}, nil), ids
}

func fixtures(author, dynasty string, titles ...string) []testutil.PoemFixture {
	out := make([]testutil.PoemFixture, len(titles))
	for i, title := range titles {
		out[i] = testutil.PoemFixture{
			Title:      title,
			Author:     author,
			Dynasty:    dynasty,
			Paragraphs: []string{fmt.Sprintf("%s第%d句", author, i)},
		}
	}
	return out
}

func poemTitles(poems []Poem) []string {
	out := make([]string, len(poems))
	for i, p := range poems {
		out[i] = p.Title
	}
	return out
}

func TestGetByID(t *testing.T) {
	svc, ids := setupService(t, testutil.ClassicPoems()...)
	ctx := context.Background()

	poem, err := svc.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "静夜思", poem.Title)
	assert.Equal(t, "床前明月光，疑是地上霜。举头望明月，低头思故乡。", poem.Content)
	assert.Equal(t, []string{"思乡"}, poem.Tags)

	_, err = svc.GetByID(ctx, 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByAuthor(t *testing.T) {
	poems := fixtures("王维", "唐", database.UntitledTitle, "山居秋暝", "鹿柴", database.UntitledTitle, "相思", "竹里馆")
	svc, ids := setupService(t, poems...)
	ctx := context.Background()

	t.Run("untitled last", func(t *testing.T) {
		page, err := svc.GetByAuthor(ctx, "王维", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"山居秋暝", "鹿柴", "相思", "竹里馆", "无题", "无题"}, poemTitles(page.Poems))
		assert.Equal(t, ids[0], page.Poems[4].ID)
		assert.Equal(t, ids[3], page.Poems[5].ID)
	})

	t.Run("pages cover the set once", func(t *testing.T) {
		seen := map[int64]int{}
		first, err := svc.GetByAuthor(ctx, "王维", 1, 4)
		require.NoError(t, err)
		assert.Equal(t, 6, first.Total)
		assert.Equal(t, 2, first.TotalPages)

		for page := 1; page <= first.TotalPages; page++ {
			result, err := svc.GetByAuthor(ctx, "王维", page, 4)
			require.NoError(t, err)
			for _, p := range result.Poems {
				seen[p.ID]++
			}
		}
		assert.Len(t, seen, 6)
		for _, id := range ids {
			assert.Equal(t, 1, seen[id])
		}
	})

	t.Run("unspecified paging takes defaults", func(t *testing.T) {
		page, err := svc.GetByAuthor(ctx, "王维", 0, -1)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, DefaultPoemsPerPage, page.PageSize)
		assert.Len(t, page.Poems, 6)
	})

	t.Run("past the end", func(t *testing.T) {
		page, err := svc.GetByAuthor(ctx, "王维", 9, 4)
		require.NoError(t, err)
		assert.Empty(t, page.Poems)
		assert.NotNil(t, page.Poems)
		assert.Equal(t, 6, page.Total)

		page, err = svc.GetByAuthor(ctx, "王维", math.MaxInt64, 20)
		require.NoError(t, err)
		assert.Empty(t, page.Poems)
		assert.Equal(t, 6, page.Total)
		assert.Equal(t, math.MaxInt64, page.Page)
	})

	t.Run("unknown author", func(t *testing.T) {
		page, err := svc.GetByAuthor(ctx, "无名氏", 1, 4)
		require.NoError(t, err)
		assert.Empty(t, page.Poems)
		assert.Equal(t, 0, page.Total)
		assert.Equal(t, 0, page.TotalPages)
	})
}

func TestGetByDynasty(t *testing.T) {
	poems := append(fixtures("李白", "唐", "静夜思", "将进酒"), fixtures("苏轼", "宋", "赤壁赋")...)
	svc, _ := setupService(t, poems...)

	page, err := svc.GetByDynasty(context.Background(), "唐", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"静夜思", "将进酒"}, poemTitles(page.Poems))
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestRandom(t *testing.T) {
	ctx := context.Background()

	t.Run("empty collection", func(t *testing.T) {
		svc, _ := setupService(t)

		_, err := svc.Random(ctx)
		assert.ErrorIs(t, err, ErrNotFound)

		poems, err := svc.RandomN(ctx, 3)
		require.NoError(t, err)
		assert.Empty(t, poems)
	})

	t.Run("distinct poems", func(t *testing.T) {
		svc, ids := setupService(t, testutil.ClassicPoems()...)

		poem, err := svc.Random(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, poem.ID)

		poems, err := svc.RandomN(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, poems, len(ids))

		seen := map[int64]bool{}
		for _, p := range poems {
			assert.False(t, seen[p.ID], "poem %d returned twice", p.ID)
			seen[p.ID] = true
		}
	})

	t.Run("non-positive count", func(t *testing.T) {
		svc, _ := setupService(t, testutil.ClassicPoems()...)
		poems, err := svc.RandomN(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, poems)
	})
}

func TestSearch(t *testing.T) {
	svc, _ := setupService(t, testutil.ClassicPoems()...)
	ctx := context.Background()

	poems, err := svc.Search(ctx, "明月", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"静夜思", "水调歌头"}, poemTitles(poems))

	poems, err = svc.Search(ctx, "明月", 1)
	require.NoError(t, err)
	assert.Len(t, poems, 1)

	poems, err = svc.Search(ctx, "不存在的词", 10)
	require.NoError(t, err)
	assert.NotNil(t, poems)
	assert.Empty(t, poems)
}

func TestSearchDefaultLimit(t *testing.T) {
	many := make([]testutil.PoemFixture, DefaultSearchLimit+5)
	for i := range many {
		many[i] = testutil.PoemFixture{
			Title:      fmt.Sprintf("秋兴%d", i),
			Author:     "杜甫",
			Dynasty:    "唐",
			Paragraphs: []string{"玉露凋伤枫树林"},
		}
	}
	svc, _ := setupService(t, many...)

	poems, err := svc.Search(context.Background(), "枫树", 0)
	require.NoError(t, err)
	assert.Len(t, poems, DefaultSearchLimit)
}

func TestGetAllAuthors(t *testing.T) {
	var poems []testutil.PoemFixture
	poems = append(poems, fixtures("李白", "唐", "a", "b", "c")...)
	poems = append(poems, fixtures("杜甫", "唐", "d", "e")...)
	poems = append(poems, fixtures("佚名", "先秦", "f", "g")...)
	poems = append(poems, fixtures("佚名", "汉", "h", "i")...)
	poems = append(poems, fixtures("苏轼", "宋", "j")...)
	svc, _ := setupService(t, poems...)
	ctx := context.Background()

	all, err := svc.GetAllAuthors(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultAuthorsPerPage, all.PageSize)
	assert.Equal(t, 5, all.Total)
	assert.Equal(t, []AuthorStat{
		{Author: "李白", Dynasty: "唐", PoemCount: 3},
		{Author: "佚名", Dynasty: "先秦", PoemCount: 2},
		{Author: "佚名", Dynasty: "汉", PoemCount: 2},
		{Author: "杜甫", Dynasty: "唐", PoemCount: 2},
		{Author: "苏轼", Dynasty: "宋", PoemCount: 1},
	}, all.Authors)

	var walked []AuthorStat
	for page := 1; ; page++ {
		result, err := svc.GetAllAuthors(ctx, page, 2)
		require.NoError(t, err)
		if len(result.Authors) == 0 {
			assert.Equal(t, 3, result.TotalPages)
			break
		}
		walked = append(walked, result.Authors...)
	}
	assert.Equal(t, all.Authors, walked)

	beyond, err := svc.GetAllAuthors(ctx, math.MaxInt64, 50)
	require.NoError(t, err)
	assert.Empty(t, beyond.Authors)
	assert.NotNil(t, beyond.Authors)
	assert.Equal(t, 5, beyond.Total)
}

func TestPageOffset(t *testing.T) {
	tests := []struct {
		name           string
		page, pageSize int
		want           int
	}{
		{"first page", 1, 20, 0},
		{"third page", 3, 20, 40},
		{"largest exact page", math.MaxInt/20 + 1, 20, math.MaxInt / 20 * 20},
		{"overflowing page", math.MaxInt/20 + 2, 20, math.MaxInt},
		{"max page", math.MaxInt, 20, math.MaxInt},
		{"max page size one", math.MaxInt, 1, math.MaxInt - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pageOffset(tt.page, tt.pageSize))
		})
	}
}

func TestGetDynasties(t *testing.T) {
	var poems []testutil.PoemFixture
	poems = append(poems, fixtures("苏轼", "宋", "a")...)
	poems = append(poems, fixtures("某人", "民国", "b")...)
	poems = append(poems, fixtures("李白", "唐", "c", "d")...)
	poems = append(poems, fixtures("佚名", "先秦", "e")...)
	poems = append(poems, fixtures("纳兰性德", "清", "f")...)
	svc, _ := setupService(t, poems...)

	dynasties, err := svc.GetDynasties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []DynastyStat{
		{Dynasty: "先秦", PoemCount: 1},
		{Dynasty: "唐", PoemCount: 2},
		{Dynasty: "宋", PoemCount: 1},
		{Dynasty: "清", PoemCount: 1},
		{Dynasty: "民国", PoemCount: 1},
	}, dynasties)
}

func TestGetStats(t *testing.T) {
	svc, _ := setupService(t, testutil.ClassicPoems()...)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Statistics{TotalPoems: 5, TotalAuthors: 4, TotalDynasties: 3}, stats)
}

func TestRelated(t *testing.T) {
	poems := fixtures("白居易", "唐", "长恨歌", "琵琶行", "赋得古原草送别", "钱塘湖春行", "忆江南")
	svc, ids := setupService(t, poems...)
	ctx := context.Background()

	related, err := svc.Related(ctx, ids[1], 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"长恨歌", "赋得古原草送别", "钱塘湖春行"}, poemTitles(related))

	related, err = svc.Related(ctx, ids[4], 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"长恨歌", "琵琶行", "赋得古原草送别"}, poemTitles(related))

	_, err = svc.Related(ctx, 424242, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceRecordsMetrics(t *testing.T) {
	db, repo := testutil.SetupTestDB(t)
	testutil.SeedPoems(t, repo, testutil.ClassicPoems()...)

	registry := prometheus.NewRegistry()
	m, err := metrics.NewQueryMetrics(registry)
	require.NoError(t, err)
	svc := NewService(repo, search.NewEngine(db), Config{}, m)
	ctx := context.Background()

	_, _ = svc.GetByID(ctx, 1)
	_, _ = svc.GetByID(ctx, 999)
	_, _ = svc.Search(ctx, "明月", 5)

	count, err := promtest.GatherAndCount(registry,
		"poetry_query_operations_total", "poetry_search_stage_total")
	require.NoError(t, err)
	// get_by_id/success, get_by_id/not_found, search/success and one stage series
	assert.Equal(t, 4, count)
}

func BenchmarkGetByAuthor(b *testing.B) {
	poems := make([]testutil.PoemFixture, 200)
	for i := range poems {
		poems[i] = testutil.PoemFixture{
			Title:      fmt.Sprintf("诗%d", i),
			Author:     []string{"李白", "杜甫", "白居易", "王维"}[i%4],
			Dynasty:    "唐",
			Paragraphs: []string{"床前明月光", "疑是地上霜"},
		}
	}
	svc, _ := setupService(b, poems...)
	ctx := context.Background()

	for b.Loop() {
		_, _ = svc.GetByAuthor(ctx, "杜甫", 2, 20)
	}
}

func BenchmarkGetDynasties(b *testing.B) {
	svc, _ := setupService(b, testutil.ClassicPoems()...)
	ctx := context.Background()

	for b.Loop() {
		_, _ = svc.GetDynasties(ctx)
	}
}
