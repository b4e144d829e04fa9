// Package ranker scores candidate documents with TF-IDF and ranks them.
package ranker

import (
	"math"
	"sort"

	"github.com/fts-lab/searchcore/internal/indexer/index"
)

// ScoredDoc is one ranked result.
type ScoredDoc struct {
	DocID int     `json:"doc_id"`
	Score float64 `json:"score"`
}

// Params controls the score cutoff and result count.
type Params struct {
	MinScore float64
	TopK     int
}

// Rank accumulates tf·idf per document over the query terms' posting lists,
// with tf = termFreq/docLength and idf = ln(totalDocs/docFreq). Documents
// with a missing or zero length are skipped. Results below MinScore are
// dropped; the rest are sorted by score descending with ties broken by
// ascending docId, truncated to TopK.
func Rank(
	postingsPerTerm map[string][]index.Posting,
	totalDocs int,
	docLength func(docID int) int,
	params Params,
) []ScoredDoc {
	scores := make(map[int]float64)
	for _, postings := range postingsPerTerm {
		if len(postings) == 0 {
			continue
		}
		idf := math.Log(float64(totalDocs) / float64(len(postings)))
		for _, p := range postings {
			length := docLength(p.DocID)
			if length == 0 {
				continue
			}
			tf := float64(p.Frequency) / float64(length)
			scores[p.DocID] += tf * idf
		}
	}

	result := make([]ScoredDoc, 0, len(scores))
	for docID, score := range scores {
		if score >= params.MinScore {
			result = append(result, ScoredDoc{DocID: docID, Score: score})
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].DocID < result[j].DocID
	})
	if params.TopK > 0 && len(result) > params.TopK {
		result = result[:params.TopK]
	}
	return result
}
