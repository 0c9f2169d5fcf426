package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/palemoky/classical-poetry/internal/classifier"
	"github.com/palemoky/classical-poetry/internal/poetry"
)

// renderStats writes corpus totals followed by one row per dynasty in
// chronological order.
func renderStats(w io.Writer, stats *poetry.Statistics, dynasties []poetry.DynastyStat) error {
	totals := tablewriter.NewWriter(w)
	totals.Header("Poems", "Authors", "Dynasties")
	if err := totals.Append([]string{
		strconv.Itoa(stats.TotalPoems),
		strconv.Itoa(stats.TotalAuthors),
		strconv.Itoa(stats.TotalDynasties),
	}); err != nil {
		return err
	}
	if err := totals.Render(); err != nil {
		return err
	}

	if len(dynasties) == 0 {
		return nil
	}

	rows := make([][]string, len(dynasties))
	for i, d := range dynasties {
		info := classifier.GetDynastyInfo(d.Dynasty)
		rows[i] = []string{d.Dynasty, info.NameEn, strconv.Itoa(d.PoemCount)}
	}

	table := tablewriter.NewWriter(w)
	table.Header("Dynasty", "English", "Poems")
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
