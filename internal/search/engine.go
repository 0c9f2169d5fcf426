// Package search runs keyword queries against the poem corpus.
//
// A query goes through two stages: the full-text index first, then a
// substring scan of title, author and content when the index is missing,
// rejects the query or finds nothing.
package search

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/palemoky/classical-poetry/internal/database"
	"github.com/palemoky/classical-poetry/internal/logger"
)

// Stage names the step that produced a search result.
type Stage string

const (
	StageFullText  Stage = "fulltext"
	StageSubstring Stage = "substring"
)

// stageResult is what a stage hands back: rows, or the reason it could not
// produce any.
type stageResult struct {
	poems []database.Poem
	err   error
}

func (r stageResult) usable() bool {
	return r.err == nil && len(r.poems) > 0
}

// Engine handles all search operations
type Engine struct {
	db *database.DB
}

// NewEngine creates a new search engine
func NewEngine(db *database.DB) *Engine {
	return &Engine{db: db}
}

// Search returns up to limit poems matching keyword, ordered by id, and the
// stage that served them. A full-text failure is never reported; only an
// error from the substring stage is.
func (e *Engine) Search(ctx context.Context, keyword string, limit int) ([]database.Poem, Stage, error) {
	primary := e.fullTextStage(ctx, keyword, limit)
	if primary.usable() {
		return primary.poems, StageFullText, nil
	}
	if primary.err != nil {
		logger.Debug("Full-text stage failed, falling back to substring match",
			zap.String("keyword", keyword),
			zap.Error(primary.err),
		)
	}

	fallback := e.substringStage(ctx, keyword, limit)
	if fallback.err != nil {
		return nil, StageSubstring, fallback.err
	}
	return fallback.poems, StageSubstring, nil
}

func (e *Engine) baseQuery(ctx context.Context) *gorm.DB {
	return e.db.WithContext(ctx).Model(&database.PoemRecord{})
}

// fullTextStage matches keyword against poems_fts using the module's own
// query syntax. Syntax errors surface as a failed stage.
func (e *Engine) fullTextStage(ctx context.Context, keyword string, limit int) stageResult {
	if !e.db.HasFullTextIndex() {
		return stageResult{err: database.ErrFullTextUnavailable}
	}

	var records []database.PoemRecord
	err := e.baseQuery(ctx).
		Select("poems.*").
		Joins("JOIN poems_fts ON poems_fts.rowid = poems.id").
		Where("poems_fts MATCH ?", keyword).
		Order("poems.id").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return stageResult{err: err}
	}
	return stageResult{poems: decode(records)}
}

// substringStage looks for keyword verbatim in title, author or content.
// LIKE wildcards in the keyword are escaped.
func (e *Engine) substringStage(ctx context.Context, keyword string, limit int) stageResult {
	pattern := "%" + escapeLike(keyword) + "%"

	var records []database.PoemRecord
	err := e.baseQuery(ctx).
		Where(`title LIKE ? ESCAPE '\' OR author LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern).
		Order("id").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return stageResult{err: err}
	}
	return stageResult{poems: decode(records)}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func decode(records []database.PoemRecord) []database.Poem {
	poems := make([]database.Poem, len(records))
	for i := range records {
		poems[i] = records[i].Decode()
	}
	return poems
}
