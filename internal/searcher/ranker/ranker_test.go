package ranker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fts-lab/searchcore/internal/indexer/index"
)

// The five-document reference corpus: every term has df=3, so
// idf = ln(5/3) ~ 0.5108.
var (
	testLengths  = map[int]int{1: 2, 2: 3, 3: 2, 4: 2, 5: 3}
	testPostings = map[string][]index.Posting{
		"cat":  {{DocID: 1, Frequency: 1}, {DocID: 2, Frequency: 2}, {DocID: 4, Frequency: 1}},
		"dog":  {{DocID: 1, Frequency: 1}, {DocID: 2, Frequency: 1}, {DocID: 3, Frequency: 1}},
		"bird": {{DocID: 3, Frequency: 1}, {DocID: 4, Frequency: 1}, {DocID: 5, Frequency: 3}},
	}
)

func docLength(docID int) int { return testLengths[docID] }

func TestRankSingleTerm(t *testing.T) {
	ranked := Rank(map[string][]index.Posting{"cat": testPostings["cat"]}, 5, docLength,
		Params{MinScore: 0.05, TopK: 10})

	require.Len(t, ranked, 3)
	idf := math.Log(5.0 / 3.0)
	assert.Equal(t, 2, ranked[0].DocID)
	assert.InDelta(t, (2.0/3.0)*idf, ranked[0].Score, 1e-9)

	// Docs 1 and 4 tie; ascending docId breaks the tie.
	assert.Equal(t, 1, ranked[1].DocID)
	assert.Equal(t, 4, ranked[2].DocID)
	assert.InDelta(t, 0.5*idf, ranked[1].Score, 1e-9)
	assert.InDelta(t, 0.5*idf, ranked[2].Score, 1e-9)
}

func TestRankCutoff(t *testing.T) {
	ranked := Rank(map[string][]index.Posting{"cat": testPostings["cat"]}, 5, docLength,
		Params{MinScore: 0.3, TopK: 10})
	require.Len(t, ranked, 1)
	assert.Equal(t, 2, ranked[0].DocID)
}

func TestRankTopK(t *testing.T) {
	ranked := Rank(map[string][]index.Posting{"cat": testPostings["cat"]}, 5, docLength,
		Params{MinScore: 0, TopK: 2})
	require.Len(t, ranked, 2)
	assert.Equal(t, 2, ranked[0].DocID)
	assert.Equal(t, 1, ranked[1].DocID)
}

func TestRankAccumulatesAcrossTerms(t *testing.T) {
	ranked := Rank(map[string][]index.Posting{
		"cat": testPostings["cat"],
		"dog": testPostings["dog"],
	}, 5, docLength, Params{MinScore: 0.05, TopK: 10})

	require.Len(t, ranked, 4)
	idf := math.Log(5.0 / 3.0)
	// Docs 1 (1/2 + 1/2) and 2 (2/3 + 1/3) both accumulate to idf and lead
	// the ranking; their relative order depends on floating-point rounding.
	lead := map[int]float64{ranked[0].DocID: ranked[0].Score, ranked[1].DocID: ranked[1].Score}
	assert.InDelta(t, (2.0/3.0)*idf+(1.0/3.0)*idf, lead[2], 1e-9)
	assert.InDelta(t, 0.5*idf+0.5*idf, lead[1], 1e-9)
}

func TestRankSkipsMissingLengths(t *testing.T) {
	partial := func(docID int) int {
		if docID == 2 {
			return 0
		}
		return testLengths[docID]
	}
	ranked := Rank(map[string][]index.Posting{"cat": testPostings["cat"]}, 5, partial,
		Params{MinScore: 0, TopK: 10})
	for _, doc := range ranked {
		assert.NotEqual(t, 2, doc.DocID)
	}
}

func TestRankEmptyInput(t *testing.T) {
	assert.Empty(t, Rank(nil, 5, docLength, Params{MinScore: 0.05, TopK: 10}))
	assert.Empty(t, Rank(map[string][]index.Posting{"cat": nil}, 5, docLength, Params{TopK: 10}))
}

func TestScoresNonNegative(t *testing.T) {
	ranked := Rank(testPostings, 5, docLength, Params{MinScore: 0, TopK: 0})
	for _, doc := range ranked {
		assert.GreaterOrEqual(t, doc.Score, 0.0)
	}
}
