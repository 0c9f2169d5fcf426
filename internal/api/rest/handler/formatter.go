package handler

import (
	"github.com/palemoky/classical-poetry/internal/classifier"
	"github.com/palemoky/classical-poetry/internal/poetry"
)

// formatPoem flattens a poem for API response. Pinyin is omitted until the
// enrichment pass has filled it.
func formatPoem(p *poetry.Poem) map[string]any {
	result := map[string]any{
		"id":         p.ID,
		"title":      p.Title,
		"author":     p.Author,
		"dynasty":    p.Dynasty,
		"content":    p.Content,
		"paragraphs": p.Paragraphs,
		"tags":       p.Tags,
	}
	if len(p.Pinyin) > 0 {
		result["pinyin"] = p.Pinyin
	}
	return result
}

func formatPoems(poems []poetry.Poem) []map[string]any {
	data := make([]map[string]any, len(poems))
	for i := range poems {
		data[i] = formatPoem(&poems[i])
	}
	return data
}

// formatDynasty adds the display name and rank to a dynasty count.
func formatDynasty(d poetry.DynastyStat) map[string]any {
	info := classifier.GetDynastyInfo(d.Dynasty)
	return map[string]any{
		"dynasty":    d.Dynasty,
		"name_en":    info.NameEn,
		"rank":       info.Rank,
		"poem_count": d.PoemCount,
	}
}
