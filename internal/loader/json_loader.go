// Package loader reads poems from a chinese-poetry repository checkout.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/palemoky/classical-poetry/internal/logger"
)

// PoemData represents a poem from JSON
type PoemData struct {
	Title      string
	Author     string
	Rhythmic   string // 词牌名 for ci, used when there is no title
	Paragraphs []string
	Tags       []string
}

// PoemWithMeta includes metadata about the poem's source
type PoemWithMeta struct {
	PoemData
	Dynasty    string
	SourceName string
	File       string
}

// SourceStats reports what a source contributed.
type SourceStats struct {
	Source      string
	Files       int
	FailedFiles int
	Poems       int
	Skipped     int
}

// JSONLoader loads poetry data from JSON files under a root directory
type JSONLoader struct {
	root string
}

// NewJSONLoader creates a loader rooted at a chinese-poetry checkout
func NewJSONLoader(root string) (*JSONLoader, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat data root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data root %s is not a directory", root)
	}
	return &JSONLoader{root: root}, nil
}

// LoadAll loads every source in order. Sources whose directory is missing
// are skipped; files that fail to parse are logged and skipped.
func (l *JSONLoader) LoadAll(sources []Source) ([]PoemWithMeta, []SourceStats, error) {
	var all []PoemWithMeta
	stats := make([]SourceStats, 0, len(sources))

	for _, src := range sources {
		poems, st, err := l.LoadSource(src)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load source %s: %w", src.Name, err)
		}
		all = append(all, poems...)
		stats = append(stats, st)
	}

	return all, stats, nil
}

// LoadSource loads the files of one source in lexical order, so the
// resulting slice order is stable across runs.
func (l *JSONLoader) LoadSource(src Source) ([]PoemWithMeta, SourceStats, error) {
	st := SourceStats{Source: src.Name}
	dir := filepath.Join(l.root, src.Dir)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Info("Source directory not found, skipping",
			zap.String("source", src.Name),
			zap.String("dir", dir),
		)
		return nil, st, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, src.Pattern))
	if err != nil {
		return nil, st, fmt.Errorf("bad pattern %q: %w", src.Pattern, err)
	}
	sort.Strings(files)

	var poems []PoemWithMeta
	for _, path := range files {
		st.Files++

		filePoems, skipped, err := loadJSONFile(path)
		if err != nil {
			st.FailedFiles++
			logger.Warn("Failed to load file",
				zap.String("file", path),
				zap.Error(err),
			)
			continue
		}

		st.Skipped += skipped
		for _, p := range filePoems {
			poems = append(poems, PoemWithMeta{
				PoemData:   p,
				Dynasty:    src.Dynasty,
				SourceName: src.Name,
				File:       filepath.Base(path),
			})
		}
	}

	st.Poems = len(poems)
	logger.Debug("Loaded source",
		zap.String("source", src.Name),
		zap.Int("files", st.Files),
		zap.Int("poems", st.Poems),
		zap.Int("skipped", st.Skipped),
	)
	return poems, st, nil
}

// loadJSONFile parses one file holding a JSON array of poems and returns
// the usable ones plus the number of entries without text.
func loadJSONFile(path string) ([]PoemData, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read file: %w", err)
	}

	var rawPoems []map[string]any
	if err := json.Unmarshal(data, &rawPoems); err != nil {
		return nil, 0, fmt.Errorf("failed to parse JSON: %w", err)
	}

	poems := make([]PoemData, 0, len(rawPoems))
	skipped := 0
	for _, raw := range rawPoems {
		poem := PoemData{
			Title:      getString(raw, "title"),
			Author:     getString(raw, "author"),
			Rhythmic:   getString(raw, "rhythmic"),
			Paragraphs: extractParagraphs(raw),
			Tags:       getStringArray(raw, "tags"),
		}

		if strings.TrimSpace(strings.Join(poem.Paragraphs, "")) == "" {
			skipped++
			continue
		}
		poems = append(poems, poem)
	}

	return poems, skipped, nil
}

// extractParagraphs tries paragraphs, then content (array or string), then para.
func extractParagraphs(raw map[string]any) []string {
	if paras := getStringArray(raw, "paragraphs"); len(paras) > 0 {
		return paras
	}
	if paras := getStringArray(raw, "content"); len(paras) > 0 {
		return paras
	}
	if content := getString(raw, "content"); content != "" {
		return []string{content}
	}
	return getStringArray(raw, "para")
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getStringArray(m map[string]any, key string) []string {
	arr, ok := m[key].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(arr))
	for _, item := range arr {
		if str, ok := item.(string); ok {
			result = append(result, str)
		}
	}
	return result
}
