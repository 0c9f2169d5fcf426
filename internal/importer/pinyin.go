package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"

	"github.com/palemoky/classical-poetry/internal/classifier"
	"github.com/palemoky/classical-poetry/internal/database"
	"github.com/palemoky/classical-poetry/internal/logger"
)

// DefaultPinyinBatchSize is the number of poems read and updated per round.
const DefaultPinyinBatchSize = 500

// PinyinEnricher fills the pinyin column of every poem. Running it again
// overwrites the previous values.
type PinyinEnricher struct {
	repo      *database.Repository
	batchSize int
	output    io.Writer
}

// NewPinyinEnricher creates an enricher. output receives the progress bar
// and may be nil.
func NewPinyinEnricher(repo *database.Repository, batchSize int, output io.Writer) *PinyinEnricher {
	if batchSize <= 0 {
		batchSize = DefaultPinyinBatchSize
	}
	if output == nil {
		output = io.Discard
	}
	return &PinyinEnricher{repo: repo, batchSize: batchSize, output: output}
}

// Run transcribes every poem and returns how many were updated.
func (e *PinyinEnricher) Run(ctx context.Context) (int, error) {
	total, err := e.repo.CountPoems(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count poems: %w", err)
	}

	if total == 0 {
		logger.Info("No poems to transcribe")
		return 0, nil
	}

	start := time.Now()
	progress := mpb.NewWithContext(ctx, mpb.WithOutput(e.output), mpb.WithWidth(60))
	bar := progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Pinyin: ", decor.WC{W: 8, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.Name(" | "),
			decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}),
		),
	)

	updated := 0
	err = e.repo.EachPoemBatch(ctx, e.batchSize, func(poems []database.Poem) error {
		updates := make([]database.PinyinUpdate, len(poems))
		for i, poem := range poems {
			updates[i] = database.PinyinUpdate{
				ID:     poem.ID,
				Pinyin: classifier.PoemPinyin(poem.Paragraphs),
			}
		}

		if err := e.repo.UpdatePinyinBatch(ctx, updates); err != nil {
			return err
		}
		updated += len(updates)
		bar.IncrBy(len(updates))
		return nil
	})
	if err != nil {
		bar.Abort(false)
		progress.Wait()
		return updated, fmt.Errorf("pinyin enrichment failed after %d poems: %w", updated, err)
	}

	// rows removed while running leave the bar short of its total
	if updated < total {
		bar.Abort(false)
	}
	progress.Wait()

	logger.Info("Pinyin enrichment finished",
		zap.Int("poems", updated),
		zap.Duration("took", time.Since(start)),
	)
	return updated, nil
}
