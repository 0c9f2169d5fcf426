package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/palemoky/classical-poetry/internal/logger"
)

// DB wraps the gorm connection and remembers which full-text module backs
// the search index ("" when none is available).
type DB struct {
	*gorm.DB
	ftsModule string
}

// Open opens a connection to the SQLite database at path.
// ":memory:" gives a private in-memory database; keep maxOpen at 1 for it,
// since every pooled connection would otherwise see its own empty database.
func Open(path string, maxOpen, maxIdle int) (*DB, error) {
	dsn := path
	inMemory := strings.Contains(path, ":memory:")
	if !inMemory {
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	level := gormlogger.Warn
	if inMemory {
		level = gormlogger.Silent
	}

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Gorm(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if maxOpen <= 0 {
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	if !inMemory {
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	return NewDBFromGorm(gormDB), nil
}

// NewDBFromGorm wraps an already opened gorm connection.
func NewDBFromGorm(gormDB *gorm.DB) *DB {
	db := &DB{DB: gormDB}
	db.ftsModule = db.detectFullTextModule()
	return db
}

// Migrate creates tables, indexes and the full-text index. It is safe to
// run against an existing database.
func (db *DB) Migrate() error {
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range CreateTablesSQL {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to create table: %w", err)
			}
		}

		// databases created before pinyin enrichment existed lack the column
		if !tx.Migrator().HasColumn(&PoemRecord{}, "pinyin") {
			if err := tx.Exec(`ALTER TABLE poems ADD COLUMN pinyin TEXT`).Error; err != nil {
				return fmt.Errorf("failed to add pinyin column: %w", err)
			}
		}

		for _, stmt := range CreateIndexesSQL {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}

		return setMeta(tx, metaSchemaVersion, strconv.Itoa(SchemaVersion))
	})
	if err != nil {
		return err
	}

	if db.ftsModule == "" {
		db.ftsModule = db.createFullTextIndex()
	}
	if db.ftsModule != "" {
		if err := setMeta(db.DB, metaFullTextKind, db.ftsModule); err != nil {
			return err
		}
	}

	return nil
}

// createFullTextIndex tries each module in turn and returns the name of the
// one that worked, or "" when the SQLite build has none of them.
func (db *DB) createFullTextIndex() string {
	for _, m := range fullTextModules {
		err := db.Exec(m.DDL).Error
		if err == nil {
			logger.Debug("Full-text index ready", zap.String("module", m.Name))
			return m.Name
		}
		logger.Debug("Full-text module unavailable", zap.String("module", m.Name), zap.Error(err))
	}

	logger.Warn("No full-text module available, search will use substring matching only")
	return ""
}

// detectFullTextModule inspects an existing poems_fts table.
func (db *DB) detectFullTextModule() string {
	var ddl string
	err := db.Raw(`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, fullTextTable).
		Scan(&ddl).Error
	if err != nil || ddl == "" {
		return ""
	}

	lower := strings.ToLower(ddl)
	for _, m := range fullTextModules {
		if strings.Contains(lower, "using "+m.Name) {
			return m.Name
		}
	}
	return ""
}

// GetSchemaVersion returns the current schema version
func (db *DB) GetSchemaVersion() (int, error) {
	value, err := db.getMeta(metaSchemaVersion)
	if err != nil || value == "" {
		return 0, err
	}
	return strconv.Atoi(value)
}

// Ping checks that the database answers.
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func setMeta(tx *gorm.DB, key, value string) error {
	err := tx.Exec(
		`INSERT OR REPLACE INTO metadata (key, value, updated_at) VALUES (?, ?, ?)`,
		key, value, time.Now(),
	).Error
	if err != nil {
		return fmt.Errorf("failed to update metadata %s: %w", key, err)
	}
	return nil
}

func (db *DB) getMeta(key string) (string, error) {
	var value string
	err := db.Raw(`SELECT value FROM metadata WHERE key = ?`, key).Row().Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}
