package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/palemoky/classical-poetry/internal/logger"
)

// InsertPoem inserts a poem and fills in its id.
func (r *Repository) InsertPoem(ctx context.Context, poem *PoemRecord) error {
	return r.db.WithContext(ctx).Create(poem).Error
}

// BatchInsertPoemsWithTransaction inserts poems in large transactions.
// transactionSize is the number of poems per transaction, batchSize the
// number per INSERT statement. Poems are inserted in slice order, so ids
// follow that order. progress may be nil.
func (r *Repository) BatchInsertPoemsWithTransaction(poems []*PoemRecord, transactionSize, batchSize int, progress *mpb.Progress) error {
	if len(poems) == 0 {
		return nil
	}

	if transactionSize <= 0 {
		transactionSize = 20000
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	totalTransactions := (len(poems) + transactionSize - 1) / transactionSize

	var poemBar *mpb.Bar
	if progress != nil {
		poemBar = progress.AddBar(int64(len(poems)),
			mpb.PrependDecorators(
				decor.Name("Inserting Poems: ", decor.WC{W: 17, C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Percentage(decor.WC{W: 5}),
				decor.Name(" | "),
				decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}),
			),
		)
	}

	logger.Debug("Starting batch insertion",
		zap.Int("poems", len(poems)),
		zap.Int("transactions", totalTransactions),
		zap.Int("batch_size", batchSize),
	)

	for i := 0; i < len(poems); i += transactionSize {
		end := min(i+transactionSize, len(poems))
		chunk := poems[i:end]

		err := r.db.Transaction(func(tx *gorm.DB) error {
			for j := 0; j < len(chunk); j += batchSize {
				batch := chunk[j:min(j+batchSize, len(chunk))]
				if err := tx.Create(&batch).Error; err != nil {
					return err
				}
				if poemBar != nil {
					poemBar.IncrBy(len(batch))
				}
			}
			return nil
		})
		if err != nil {
			if poemBar != nil {
				poemBar.Abort(false)
			}
			txNum := i/transactionSize + 1
			return fmt.Errorf("failed to insert transaction %d/%d (poems %d-%d): %w",
				txNum, totalTransactions, i, end, err)
		}
	}

	return nil
}

// ResetPoems deletes every poem, restarts id assignment and empties the
// full-text index.
func (r *Repository) ResetPoems(ctx context.Context) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM poems`).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM sqlite_sequence WHERE name = 'poems'`).Error
	})
	if err != nil {
		return fmt.Errorf("reset poems: %w", err)
	}

	if r.db.HasFullTextIndex() {
		return r.db.RebuildFullTextIndex(ctx)
	}
	return nil
}

// UpdatePinyin overwrites the pinyin column of a single poem.
func (r *Repository) UpdatePinyin(ctx context.Context, id int64, lines [][]string) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&PoemRecord{}).
		Where("id = ?", id).
		Update("pinyin", datatypes.JSON(raw)).Error
}

// PinyinUpdate pairs a poem id with its per-line pinyin.
type PinyinUpdate struct {
	ID     int64
	Pinyin [][]string
}

// UpdatePinyinBatch writes several pinyin values in one transaction.
func (r *Repository) UpdatePinyinBatch(ctx context.Context, updates []PinyinUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			raw, err := json.Marshal(u.Pinyin)
			if err != nil {
				return err
			}
			err = tx.Model(&PoemRecord{}).
				Where("id = ?", u.ID).
				Update("pinyin", datatypes.JSON(raw)).Error
			if err != nil {
				return fmt.Errorf("update pinyin for poem %d: %w", u.ID, err)
			}
		}
		return nil
	})
}

// EachPoemBatch walks every poem in id order, batchSize records at a time.
func (r *Repository) EachPoemBatch(ctx context.Context, batchSize int, fn func([]Poem) error) error {
	if batchSize <= 0 {
		batchSize = 1000
	}

	var records []PoemRecord
	result := r.poems(ctx).FindInBatches(&records, batchSize, func(_ *gorm.DB, _ int) error {
		return fn(decodeRecords(records))
	})
	return result.Error
}
