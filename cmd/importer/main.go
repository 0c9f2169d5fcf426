package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/palemoky/classical-poetry/internal/database"
	"github.com/palemoky/classical-poetry/internal/importer"
	"github.com/palemoky/classical-poetry/internal/loader"
	"github.com/palemoky/classical-poetry/internal/logger"
	"github.com/palemoky/classical-poetry/internal/poetry"
	"github.com/palemoky/classical-poetry/internal/search"
)

var (
	dbPath     string
	inputDir   string
	workers    int
	simplify   bool
	reset      bool
	batchSize  int
	debugLevel bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "importer",
		Short: "Classical poetry data importer",
		Long:  "Build and maintain the SQLite poem database served by the API: bulk import, pinyin enrichment, full-text rebuild and statistics",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(debugLevel)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "poetry.db", "SQLite database file")
	rootCmd.PersistentFlags().BoolVar(&debugLevel, "debug", false, "Enable debug logging")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import poems from a chinese-poetry checkout",
		RunE:  runImport,
	}
	importCmd.Flags().StringVarP(&inputDir, "input", "i", "chinese-poetry", "Root directory of the poetry JSON data")
	importCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of concurrent workers (0 = number of CPUs)")
	importCmd.Flags().BoolVar(&simplify, "simplify", false, "Convert traditional characters to simplified")
	importCmd.Flags().BoolVar(&reset, "reset", false, "Delete existing poems before importing")

	pinyinCmd := &cobra.Command{
		Use:   "pinyin",
		Short: "Fill the pinyin column of every poem",
		RunE:  runPinyin,
	}
	pinyinCmd.Flags().IntVarP(&batchSize, "batch", "b", importer.DefaultPinyinBatchSize, "Poems per update transaction")

	reindexCmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the full-text search index",
		RunE:  runReindex,
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print corpus statistics",
		RunE:  runStats,
	}

	rootCmd.AddCommand(importCmd, pinyinCmd, reindexCmd, statsCmd)

	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// openDB opens the database with a single connection, which is all the
// offline passes need, and applies migrations.
func openDB() (*database.DB, error) {
	db, err := database.Open(dbPath, 1, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	logger.Info("Loading poetry data", zap.String("input", inputDir))

	jsonLoader, err := loader.NewJSONLoader(inputDir)
	if err != nil {
		return fmt.Errorf("failed to create loader: %w", err)
	}

	poems, sources, err := jsonLoader.LoadAll(loader.DefaultSources())
	if err != nil {
		return fmt.Errorf("failed to load poems: %w", err)
	}
	for _, s := range sources {
		logger.Info("Loaded source",
			zap.String("source", s.Source),
			zap.Int("files", s.Files),
			zap.Int("failed_files", s.FailedFiles),
			zap.Int("poems", s.Poems),
			zap.Int("skipped", s.Skipped),
		)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	proc := importer.NewProcessor(database.NewRepository(db), importer.Options{
		Workers:  workers,
		Simplify: simplify,
		Reset:    reset,
		Output:   os.Stderr,
	})
	result, err := proc.Import(ctx, poems)
	if err != nil {
		return err
	}

	logger.Info("Optimizing database")
	if err := db.Exec("VACUUM").Error; err != nil {
		logger.Warn("Failed to vacuum database", zap.Error(err))
	}
	if err := db.Exec("ANALYZE").Error; err != nil {
		logger.Warn("Failed to analyze database", zap.Error(err))
	}

	logger.Info("Import complete",
		zap.String("database", dbPath),
		zap.Int("inserted", result.Inserted),
	)
	return nil
}

func runPinyin(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	_, err = importer.NewPinyinEnricher(database.NewRepository(db), batchSize, os.Stderr).Run(ctx)
	return err
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if !db.HasFullTextIndex() {
		return database.ErrFullTextUnavailable
	}
	if err := db.RebuildFullTextIndex(ctx); err != nil {
		return err
	}
	logger.Info("Full-text index rebuilt", zap.String("module", db.FullTextModule()))
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	repo := database.NewRepository(db)
	svc := poetry.NewService(repo, search.NewEngine(db), poetry.Config{}, nil)

	stats, err := svc.GetStats(cmd.Context())
	if err != nil {
		return err
	}
	dynasties, err := svc.GetDynasties(cmd.Context())
	if err != nil {
		return err
	}
	return renderStats(cmd.OutOrStdout(), stats, dynasties)
}
