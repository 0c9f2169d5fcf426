// Package poetry is the read side of the collection: lookups, paged
// listings by author and dynasty, random picks, keyword search and
// aggregate counts. Every caller outside the offline tooling reads poems
// through a Service.
package poetry

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/palemoky/classical-poetry/internal/classifier"
	"github.com/palemoky/classical-poetry/internal/database"
	"github.com/palemoky/classical-poetry/internal/metrics"
	"github.com/palemoky/classical-poetry/internal/search"
)

// ErrNotFound is returned by GetByID, Random and Related when there is no
// poem to return.
var ErrNotFound = database.ErrNotFound

type (
	Poem        = database.Poem
	AuthorStat  = database.AuthorStat
	DynastyStat = database.DynastyStat
	Statistics  = database.Statistics
)

// PagedPoems is one page of a filtered poem listing.
type PagedPoems struct {
	Poems      []Poem `json:"poems"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}

// PagedAuthors is one page of the author listing.
type PagedAuthors struct {
	Authors    []AuthorStat `json:"authors"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// Querier is the query surface consumed by the REST handlers.
type Querier interface {
	GetByID(ctx context.Context, id int64) (*Poem, error)
	GetByAuthor(ctx context.Context, author string, page, pageSize int) (*PagedPoems, error)
	GetByDynasty(ctx context.Context, dynasty string, page, pageSize int) (*PagedPoems, error)
	Random(ctx context.Context) (*Poem, error)
	RandomN(ctx context.Context, n int) ([]Poem, error)
	Search(ctx context.Context, keyword string, limit int) ([]Poem, error)
	GetAllAuthors(ctx context.Context, page, pageSize int) (*PagedAuthors, error)
	GetDynasties(ctx context.Context) ([]DynastyStat, error)
	GetStats(ctx context.Context) (*Statistics, error)
	Related(ctx context.Context, id int64, n int) ([]Poem, error)
}

// Default page sizes and limits, used when Config leaves a field at zero.
const (
	DefaultPoemsPerPage   = 20
	DefaultAuthorsPerPage = 50
	DefaultSearchLimit    = 50
)

// Config holds the defaults applied to unspecified paging arguments.
type Config struct {
	PoemsPerPage   int
	AuthorsPerPage int
	SearchLimit    int
}

func (c Config) withDefaults() Config {
	if c.PoemsPerPage <= 0 {
		c.PoemsPerPage = DefaultPoemsPerPage
	}
	if c.AuthorsPerPage <= 0 {
		c.AuthorsPerPage = DefaultAuthorsPerPage
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = DefaultSearchLimit
	}
	return c
}

// Service implements Querier over the repository and the search engine.
type Service struct {
	repo    *database.Repository
	engine  *search.Engine
	cfg     Config
	metrics *metrics.QueryMetrics
}

var _ Querier = (*Service)(nil)

// NewService creates a query service. m may be nil.
func NewService(repo *database.Repository, engine *search.Engine, cfg Config, m *metrics.QueryMetrics) *Service {
	return &Service{
		repo:    repo,
		engine:  engine,
		cfg:     cfg.withDefaults(),
		metrics: m,
	}
}

// GetByID returns the poem with the given id, or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id int64) (poem *Poem, err error) {
	defer s.observe("get_by_id", time.Now(), &err)
	return s.repo.GetPoemByID(ctx, id)
}

// GetByAuthor returns one page of an author's poems. Titled poems come
// before untitled ones, then ascending id.
func (s *Service) GetByAuthor(ctx context.Context, author string, page, pageSize int) (result *PagedPoems, err error) {
	defer s.observe("get_by_author", time.Now(), &err)
	return s.pagePoems(ctx, s.repo.ListPoemsByAuthor, author, page, pageSize)
}

// GetByDynasty returns one page of a dynasty's poems, ordered like GetByAuthor.
func (s *Service) GetByDynasty(ctx context.Context, dynasty string, page, pageSize int) (result *PagedPoems, err error) {
	defer s.observe("get_by_dynasty", time.Now(), &err)
	return s.pagePoems(ctx, s.repo.ListPoemsByDynasty, dynasty, page, pageSize)
}

type listFunc func(ctx context.Context, value string, limit, offset int) ([]Poem, int, error)

func (s *Service) pagePoems(ctx context.Context, list listFunc, value string, page, pageSize int) (*PagedPoems, error) {
	page, pageSize = normalizePage(page, pageSize, s.cfg.PoemsPerPage)

	poems, total, err := list(ctx, value, pageSize, pageOffset(page, pageSize))
	if err != nil {
		return nil, err
	}

	return &PagedPoems{
		Poems:      poems,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Random returns one uniformly chosen poem, or ErrNotFound on an empty
// collection.
func (s *Service) Random(ctx context.Context) (poem *Poem, err error) {
	defer s.observe("random", time.Now(), &err)

	poems, err := s.repo.RandomPoems(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(poems) == 0 {
		return nil, ErrNotFound
	}
	return &poems[0], nil
}

// RandomN returns up to n distinct poems chosen uniformly. An empty
// collection gives an empty slice.
func (s *Service) RandomN(ctx context.Context, n int) (poems []Poem, err error) {
	defer s.observe("random_n", time.Now(), &err)
	return s.repo.RandomPoems(ctx, n)
}

// Search returns up to limit poems matching keyword, ordered by id. A limit
// of zero or less takes the configured default.
func (s *Service) Search(ctx context.Context, keyword string, limit int) (poems []Poem, err error) {
	defer s.observe("search", time.Now(), &err)

	if limit <= 0 {
		limit = s.cfg.SearchLimit
	}

	poems, stage, err := s.engine.Search(ctx, keyword, limit)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordSearch(string(stage), len(poems))
	return poems, nil
}

// GetAllAuthors returns one page of (author, dynasty) groups ordered by
// poem count descending, then author, then dynasty.
func (s *Service) GetAllAuthors(ctx context.Context, page, pageSize int) (result *PagedAuthors, err error) {
	defer s.observe("get_all_authors", time.Now(), &err)

	page, pageSize = normalizePage(page, pageSize, s.cfg.AuthorsPerPage)

	authors, total, err := s.repo.ListAuthors(ctx, pageSize, pageOffset(page, pageSize))
	if err != nil {
		return nil, err
	}

	return &PagedAuthors{
		Authors:    authors,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// GetDynasties returns every dynasty with its poem count in chronological
// display order.
func (s *Service) GetDynasties(ctx context.Context) (dynasties []DynastyStat, err error) {
	defer s.observe("get_dynasties", time.Now(), &err)

	dynasties, err = s.repo.ListDynasties(ctx)
	if err != nil {
		return nil, err
	}
	classifier.SortDynasties(dynasties, func(d DynastyStat) string { return d.Dynasty })
	return dynasties, nil
}

// GetStats returns collection-wide counts.
func (s *Service) GetStats(ctx context.Context) (stats *Statistics, err error) {
	defer s.observe("get_stats", time.Now(), &err)
	return s.repo.GetStatistics(ctx)
}

// Related returns up to n other poems by the author of poem id, taken from
// the first page of that author's listing.
func (s *Service) Related(ctx context.Context, id int64, n int) ([]Poem, error) {
	poem, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []Poem{}, nil
	}

	page, err := s.GetByAuthor(ctx, poem.Author, 1, n+1)
	if err != nil {
		return nil, err
	}

	related := make([]Poem, 0, n)
	for _, p := range page.Poems {
		if p.ID != poem.ID && len(related) < n {
			related = append(related, p)
		}
	}
	return related, nil
}

func (s *Service) observe(operation string, start time.Time, errp *error) {
	status := metrics.StatusSuccess
	switch err := *errp; {
	case errors.Is(err, ErrNotFound):
		status = metrics.StatusNotFound
	case err != nil:
		status = metrics.StatusError
	}
	s.metrics.RecordOperation(operation, status, time.Since(start))
}

// normalizePage treats a page or page size of zero or less as unspecified.
func normalizePage(page, pageSize, defaultSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	return page, pageSize
}

// pageOffset is the row offset of page. An offset too large for int is
// clamped to math.MaxInt, which lies past the end of any listing.
func pageOffset(page, pageSize int) int {
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

func totalPages(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
