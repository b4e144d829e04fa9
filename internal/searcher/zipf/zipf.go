// Package zipf aggregates per-term frequency statistics and produces the
// top-K table used for Zipf's-law reporting.
package zipf

import (
	"log/slog"
	"sort"

	"github.com/fts-lab/searchcore/internal/indexer/index"
)

// Row is one line of the Zipf report: a term, its corpus-wide total
// frequency, its 1-based rank, and the frequency-rank product.
type Row struct {
	Term              string
	TotalFrequency    int
	DocumentFrequency int
	Rank              int
	Constant          int64
}

// Analyze decompresses every posting list once, sorts terms by total
// frequency descending, and returns the top K rows. Undecodable posting
// lists are dropped with a warning.
func Analyze(inv *index.Inverted, topK int) []Row {
	logger := slog.Default().With("component", "zipf")
	rows := make([]Row, 0, inv.TermCount())
	for term, data := range inv.Postings {
		postings, err := index.Decompress(data)
		if err != nil {
			logger.Warn("dropping undecodable posting list", "term", term, "error", err)
			continue
		}
		total := 0
		for _, p := range postings {
			total += p.Frequency
		}
		rows = append(rows, Row{
			Term:              term,
			TotalFrequency:    total,
			DocumentFrequency: len(postings),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalFrequency != rows[j].TotalFrequency {
			return rows[i].TotalFrequency > rows[j].TotalFrequency
		}
		return rows[i].Term < rows[j].Term
	})
	if topK > 0 && len(rows) > topK {
		rows = rows[:topK]
	}
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].Constant = int64(rows[i].TotalFrequency) * int64(rows[i].Rank)
	}
	return rows
}
