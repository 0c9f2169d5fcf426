package database

import (
	"context"
	"fmt"
)

// untitledLast puts poems titled 无题 after every titled poem, then orders by id.
const untitledLast = "CASE WHEN title = '" + UntitledTitle + "' THEN 1 ELSE 0 END, id"

// ListPoemsByAuthor returns one page of an author's poems and the author's total.
func (r *Repository) ListPoemsByAuthor(ctx context.Context, author string, limit, offset int) ([]Poem, int, error) {
	return r.listPoemsWhere(ctx, "author", author, limit, offset)
}

// ListPoemsByDynasty returns one page of a dynasty's poems and the dynasty's total.
func (r *Repository) ListPoemsByDynasty(ctx context.Context, dynasty string, limit, offset int) ([]Poem, int, error) {
	return r.listPoemsWhere(ctx, "dynasty", dynasty, limit, offset)
}

func (r *Repository) listPoemsWhere(ctx context.Context, column, value string, limit, offset int) ([]Poem, int, error) {
	var total int64
	if err := r.poems(ctx).Where(column+" = ?", value).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count poems by %s: %w", column, err)
	}

	if total == 0 || offset < 0 || offset >= int(total) {
		return []Poem{}, int(total), nil
	}

	var records []PoemRecord
	err := r.poems(ctx).
		Where(column+" = ?", value).
		Order(untitledLast).
		Limit(limit).Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list poems by %s: %w", column, err)
	}

	return decodeRecords(records), int(total), nil
}
