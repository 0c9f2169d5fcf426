package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/classical-poetry/internal/logger"
)

// ErrFullTextUnavailable is returned when the SQLite build offers no
// full-text module and the index was never created.
var ErrFullTextUnavailable = errors.New("full-text index unavailable")

// HasFullTextIndex reports whether poems_fts exists.
func (db *DB) HasFullTextIndex() bool {
	return db.ftsModule != ""
}

// FullTextModule names the module backing poems_fts ("fts5", "fts4" or "").
func (db *DB) FullTextModule() string {
	return db.ftsModule
}

// RebuildFullTextIndex repopulates poems_fts from the poems table. The index
// is not maintained by triggers, so this runs after every bulk change.
func (db *DB) RebuildFullTextIndex(ctx context.Context) error {
	if !db.HasFullTextIndex() {
		return ErrFullTextUnavailable
	}

	start := time.Now()
	err := db.WithContext(ctx).
		Exec(`INSERT INTO poems_fts(poems_fts) VALUES('rebuild')`).Error
	if err != nil {
		return fmt.Errorf("rebuild full-text index: %w", err)
	}

	if err := setMeta(db.WithContext(ctx), metaFullTextBuilt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	logger.Info("Full-text index rebuilt",
		zap.String("module", db.ftsModule),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// FullTextRebuiltAt returns when the index was last rebuilt, or the zero
// time when it never was.
func (db *DB) FullTextRebuiltAt() (time.Time, error) {
	value, err := db.getMeta(metaFullTextBuilt)
	if err != nil || value == "" {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}
