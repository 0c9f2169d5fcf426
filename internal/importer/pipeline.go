// Package importer turns loaded source poems into rows: it normalizes them
// on a worker pool, inserts them in load order and rebuilds the full-text
// index. It also runs the pinyin enrichment pass.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"

	"github.com/palemoky/classical-poetry/internal/classifier"
	"github.com/palemoky/classical-poetry/internal/database"
	"github.com/palemoky/classical-poetry/internal/loader"
	"github.com/palemoky/classical-poetry/internal/logger"
)

const (
	// MaxErrorsToCollect bounds the errors kept in a Result
	MaxErrorsToCollect = 100

	// SampleErrorCount is how many collected errors are logged
	SampleErrorCount = 5
)

// ErrNotEmpty is returned when importing into a database that already
// holds poems without Options.Reset.
var ErrNotEmpty = errors.New("database already contains poems")

// errNoText marks a poem left without any line after normalization.
var errNoText = errors.New("no text after normalization")

// Options configures an import run.
type Options struct {
	Workers         int  // 0 means runtime.NumCPU()
	Simplify        bool // convert traditional characters to simplified
	Reset           bool // delete existing poems first
	TransactionSize int  // poems per transaction, 0 for the repository default
	BatchSize       int  // poems per INSERT, 0 for the repository default
	Output          io.Writer
}

// Result summarizes an import run.
type Result struct {
	Loaded   int
	Inserted int
	Skipped  int
	Failed   int
	Errors   []error
}

// Processor handles concurrent poem normalization and ordered insertion
type Processor struct {
	repo *database.Repository
	opts Options
}

// NewProcessor creates a new processor
func NewProcessor(repo *database.Repository, opts Options) *Processor {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	return &Processor{repo: repo, opts: opts}
}

// Import normalizes poems with a worker pool, inserts the survivors in the
// order they were loaded and rebuilds the full-text index.
func (p *Processor) Import(ctx context.Context, poems []loader.PoemWithMeta) (*Result, error) {
	if err := p.prepare(ctx); err != nil {
		return nil, err
	}

	if len(poems) == 0 {
		logger.Warn("Nothing to import")
		return &Result{}, nil
	}

	start := time.Now()
	logger.Info("Processing poems",
		zap.Int("poems", len(poems)),
		zap.Int("workers", p.opts.Workers),
		zap.Bool("simplify", p.opts.Simplify),
	)

	progress := mpb.NewWithContext(ctx,
		mpb.WithOutput(p.opts.Output),
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100*time.Millisecond),
	)

	records, result, err := p.normalize(ctx, poems, progress)
	if err != nil {
		progress.Wait()
		return nil, err
	}

	err = p.repo.BatchInsertPoemsWithTransaction(records, p.opts.TransactionSize, p.opts.BatchSize, progress)
	progress.Wait()
	if err != nil {
		return nil, fmt.Errorf("batch insertion failed: %w", err)
	}
	result.Inserted = len(records)

	if p.repo.DB().HasFullTextIndex() {
		if err := p.repo.DB().RebuildFullTextIndex(ctx); err != nil {
			return nil, err
		}
	}

	p.report(result, time.Since(start))
	return result, nil
}

// prepare refuses to import into a populated database unless Reset is set.
func (p *Processor) prepare(ctx context.Context) error {
	existing, err := p.repo.CountPoems(ctx)
	if err != nil {
		return fmt.Errorf("failed to count existing poems: %w", err)
	}
	if existing == 0 {
		return nil
	}
	if !p.opts.Reset {
		return fmt.Errorf("%w (%d poems); rerun with reset to replace them", ErrNotEmpty, existing)
	}

	logger.Info("Clearing existing poems", zap.Int("poems", existing))
	return p.repo.ResetPoems(ctx)
}

// normalize runs processPoem on a worker pool. Each worker writes only its
// own slots of records, so the output keeps the input order.
func (p *Processor) normalize(ctx context.Context, poems []loader.PoemWithMeta, progress *mpb.Progress) ([]*database.PoemRecord, *Result, error) {
	bar := progress.AddBar(int64(len(poems)),
		mpb.PrependDecorators(
			decor.Name("Processing: ", decor.WC{W: 12, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.Name(" | "),
			decor.AverageSpeed(0, "%.0f poems/s", decor.WC{W: 12}),
		),
	)

	slots := make([]*database.PoemRecord, len(poems))
	workCh := make(chan int, p.opts.Workers*2)
	errorCh := make(chan error, MaxErrorsToCollect)

	var skipped, failed atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < p.opts.Workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range workCh {
				rec, err := p.processPoem(poems[i])
				switch {
				case errors.Is(err, errNoText):
					skipped.Add(1)
				case err != nil:
					failed.Add(1)
					// Non-blocking error recording
					select {
					case errorCh <- fmt.Errorf("worker %d: %s/%s %q: %w", workerID, poems[i].SourceName, poems[i].File, poems[i].Title, err):
					default:
					}
				default:
					slots[i] = rec
				}
				bar.Increment()
			}
		}(w)
	}

	var cancelled error
feed:
	for i := range poems {
		select {
		case workCh <- i:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(workCh)
	wg.Wait()
	close(errorCh)

	if cancelled != nil {
		bar.Abort(false)
		return nil, nil, cancelled
	}

	result := &Result{
		Loaded:  len(poems),
		Skipped: int(skipped.Load()),
		Failed:  int(failed.Load()),
	}
	for err := range errorCh {
		result.Errors = append(result.Errors, err)
	}

	records := make([]*database.PoemRecord, 0, len(poems))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, rec)
		}
	}
	return records, result, nil
}

// processPoem trims every field, applies the title and author defaults and
// optionally simplifies the text.
func (p *Processor) processPoem(meta loader.PoemWithMeta) (*database.PoemRecord, error) {
	title := classifier.NormalizeText(meta.Title)
	if title == "" {
		title = classifier.NormalizeOrDefault(meta.Rhythmic, database.UntitledTitle)
	}
	author := classifier.NormalizeOrDefault(meta.Author, database.UnknownAuthor)
	paragraphs := classifier.NormalizeTextArray(meta.Paragraphs)
	tags := classifier.NormalizeTextArray(meta.Tags)

	if len(paragraphs) == 0 {
		return nil, errNoText
	}

	if p.opts.Simplify {
		var err error
		if title, err = classifier.ToSimplified(title); err != nil {
			return nil, fmt.Errorf("failed to convert title: %w", err)
		}
		if author, err = classifier.ToSimplified(author); err != nil {
			return nil, fmt.Errorf("failed to convert author: %w", err)
		}
		if paragraphs, err = classifier.ToSimplifiedArray(paragraphs); err != nil {
			return nil, fmt.Errorf("failed to convert paragraphs: %w", err)
		}
		if tags, err = classifier.ToSimplifiedArray(tags); err != nil {
			return nil, fmt.Errorf("failed to convert tags: %w", err)
		}
	}

	return database.NewPoemRecord(title, author, meta.Dynasty, paragraphs, tags)
}

func (p *Processor) report(result *Result, took time.Duration) {
	fields := []zap.Field{
		zap.Int("loaded", result.Loaded),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Duration("took", took),
	}

	if result.Failed == 0 {
		logger.Info("Import finished", fields...)
		return
	}

	logger.Warn("Import finished with errors", fields...)
	for i := 0; i < min(len(result.Errors), SampleErrorCount); i++ {
		logger.Warn("Sample error", zap.Int("n", i+1), zap.Error(result.Errors[i]))
	}
}
