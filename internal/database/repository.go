package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup by id or a random pick finds nothing.
var ErrNotFound = errors.New("poem not found")

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// DB returns the wrapped connection.
func (r *Repository) DB() *DB {
	return r.db
}

func (r *Repository) poems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&PoemRecord{})
}

// GetPoemByID retrieves a poem by ID.
func (r *Repository) GetPoemByID(ctx context.Context, id int64) (*Poem, error) {
	var rec PoemRecord
	err := r.poems(ctx).Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get poem %d: %w", id, err)
	}

	poem := rec.Decode()
	return &poem, nil
}

// RandomPoems samples up to n distinct poems uniformly.
func (r *Repository) RandomPoems(ctx context.Context, n int) ([]Poem, error) {
	if n <= 0 {
		return []Poem{}, nil
	}

	var records []PoemRecord
	err := r.poems(ctx).Order("RANDOM()").Limit(n).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("random poems: %w", err)
	}
	return decodeRecords(records), nil
}

// CountPoems returns the total number of poems
func (r *Repository) CountPoems(ctx context.Context) (int, error) {
	var count int64
	err := r.poems(ctx).Count(&count).Error
	return int(count), err
}
