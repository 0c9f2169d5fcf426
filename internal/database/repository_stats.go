package database

import (
	"context"
	"fmt"
)

// ListAuthors returns one page of (author, dynasty) groups, busiest first.
// The total counts groups, not distinct author names, so walking every page
// yields each group exactly once.
func (r *Repository) ListAuthors(ctx context.Context, limit, offset int) ([]AuthorStat, int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM (SELECT 1 FROM poems GROUP BY author, dynasty)`).
		Scan(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("count authors: %w", err)
	}

	authors := []AuthorStat{}
	if total == 0 || offset < 0 || offset >= int(total) {
		return authors, int(total), nil
	}

	err = r.poems(ctx).
		Select("author, dynasty, COUNT(*) AS poem_count").
		Group("author, dynasty").
		Order("poem_count DESC, author ASC, dynasty ASC").
		Limit(limit).Offset(offset).
		Scan(&authors).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}

	return authors, int(total), nil
}

// ListDynasties returns every dynasty with its poem count, ordered by name.
// Display order is the caller's concern.
func (r *Repository) ListDynasties(ctx context.Context) ([]DynastyStat, error) {
	dynasties := []DynastyStat{}
	err := r.poems(ctx).
		Select("dynasty, COUNT(*) AS poem_count").
		Group("dynasty").
		Order("dynasty").
		Scan(&dynasties).Error
	if err != nil {
		return nil, fmt.Errorf("list dynasties: %w", err)
	}
	return dynasties, nil
}

// GetStatistics returns overall statistics
func (r *Repository) GetStatistics(ctx context.Context) (*Statistics, error) {
	var row struct {
		TotalPoems     int
		TotalAuthors   int
		TotalDynasties int
	}

	err := r.poems(ctx).
		Select("COUNT(*) AS total_poems, COUNT(DISTINCT author) AS total_authors, COUNT(DISTINCT dynasty) AS total_dynasties").
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("get statistics: %w", err)
	}

	return &Statistics{
		TotalPoems:     row.TotalPoems,
		TotalAuthors:   row.TotalAuthors,
		TotalDynasties: row.TotalDynasties,
	}, nil
}
