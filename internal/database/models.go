package database

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// PoemRecord is the stored form of a poem. Paragraphs, Tags and Pinyin are
// JSON text the storage layer never looks into.
type PoemRecord struct {
	ID         int64          `gorm:"primaryKey;autoIncrement"`
	Title      string         `gorm:"not null"`
	Author     string         `gorm:"not null"`
	Dynasty    string         `gorm:"not null"`
	Content    string         `gorm:"not null"`
	Paragraphs datatypes.JSON `gorm:"not null"`
	Tags       datatypes.JSON
	Pinyin     datatypes.JSON
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for PoemRecord
func (PoemRecord) TableName() string {
	return "poems"
}

// NewPoemRecord builds a record ready for insertion. Content is derived from
// the paragraphs; empty tags are stored as NULL.
func NewPoemRecord(title, author, dynasty string, paragraphs, tags []string) (*PoemRecord, error) {
	if paragraphs == nil {
		paragraphs = []string{}
	}
	paras, err := json.Marshal(paragraphs)
	if err != nil {
		return nil, err
	}

	rec := &PoemRecord{
		Title:      title,
		Author:     author,
		Dynasty:    dynasty,
		Content:    strings.Join(paragraphs, ""),
		Paragraphs: datatypes.JSON(paras),
	}

	if len(tags) > 0 {
		raw, err := json.Marshal(tags)
		if err != nil {
			return nil, err
		}
		rec.Tags = datatypes.JSON(raw)
	}

	return rec, nil
}

// Poem is the decoded view handed to callers.
type Poem struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Dynasty    string     `json:"dynasty"`
	Content    string     `json:"content"`
	Paragraphs []string   `json:"paragraphs"`
	Tags       []string   `json:"tags"`
	Pinyin     [][]string `json:"pinyin"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Decode turns a stored record into a Poem. Malformed JSON fields come back
// as empty slices.
func (r *PoemRecord) Decode() Poem {
	return Poem{
		ID:         r.ID,
		Title:      r.Title,
		Author:     r.Author,
		Dynasty:    r.Dynasty,
		Content:    r.Content,
		Paragraphs: decodeList[string](r.Paragraphs, "paragraphs", r.ID),
		Tags:       decodeList[string](r.Tags, "tags", r.ID),
		Pinyin:     decodeList[[]string](r.Pinyin, "pinyin", r.ID),
		CreatedAt:  r.CreatedAt,
	}
}

func decodeRecords(records []PoemRecord) []Poem {
	poems := make([]Poem, len(records))
	for i := range records {
		poems[i] = records[i].Decode()
	}
	return poems
}

// AuthorStat is one (author, dynasty) group with its poem count.
type AuthorStat struct {
	Author    string `json:"author"`
	Dynasty   string `json:"dynasty"`
	PoemCount int    `json:"poem_count"`
}

// DynastyStat is one dynasty with its poem count.
type DynastyStat struct {
	Dynasty   string `json:"dynasty"`
	PoemCount int    `json:"poem_count"`
}

// Statistics holds overall statistics
type Statistics struct {
	TotalPoems     int `json:"total_poems"`
	TotalAuthors   int `json:"total_authors"`
	TotalDynasties int `json:"total_dynasties"`
}
