package boolean

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huandu/skiplist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fts-lab/searchcore/internal/indexer/index"
	"github.com/fts-lab/searchcore/internal/indexer/tokenizer"
	"github.com/fts-lab/searchcore/internal/searcher/parser"
)

var testCorpus = map[string]string{
	"1.txt": "cat dog",
	"2.txt": "cat cat dog",
	"3.txt": "dog bird",
	"4.txt": "cat bird",
	"5.txt": "bird bird bird",
}

// newTestEvaluator builds the five-document index by hand and writes the
// corpus files so the re-verification pass has something to read.
func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	dataDir := t.TempDir()
	inv := index.New()
	docID := 0
	for _, name := range []string{"1.txt", "2.txt", "3.txt", "4.txt", "5.txt"} {
		docID++
		content := testCorpus[name]
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0644))
		inv.Names[docID] = name
		tokens := tokenizer.Tokenize([]byte(content))
		inv.Lengths[docID] = len(tokens)
	}
	mustPut(t, inv, "cat", []index.Posting{{DocID: 1, Frequency: 1}, {DocID: 2, Frequency: 2}, {DocID: 4, Frequency: 1}})
	mustPut(t, inv, "dog", []index.Posting{{DocID: 1, Frequency: 1}, {DocID: 2, Frequency: 1}, {DocID: 3, Frequency: 1}})
	mustPut(t, inv, "bird", []index.Posting{{DocID: 3, Frequency: 1}, {DocID: 4, Frequency: 1}, {DocID: 5, Frequency: 3}})
	return New(inv, dataDir)
}

func mustPut(t *testing.T, inv *index.Inverted, term string, postings []index.Posting) {
	t.Helper()
	data, err := index.Compress(postings)
	require.NoError(t, err)
	inv.Postings[term] = data
}

func evaluate(ev *Evaluator, query string) []int {
	q := parser.Parse(query, func(word string) []string {
		return tokenizer.Tokenize([]byte(word))
	})
	return ev.Evaluate(q)
}

func TestRequiredIntersection(t *testing.T) {
	ev := newTestEvaluator(t)
	assert.Equal(t, []int{1, 2}, evaluate(ev, "+cat +dog"))
}

func TestRequiredWithExclusion(t *testing.T) {
	ev := newTestEvaluator(t)
	assert.Equal(t, []int{1, 2}, evaluate(ev, "+cat -bird"))
}

func TestOptionalUnion(t *testing.T) {
	ev := newTestEvaluator(t)
	assert.Equal(t, []int{1, 2, 3, 4}, evaluate(ev, "cat dog"))
}

func TestImpossibleConjunction(t *testing.T) {
	ev := newTestEvaluator(t)
	assert.Empty(t, evaluate(ev, "+bird +cat +dog"))
}

func TestUnknownRequiredTermShortCircuits(t *testing.T) {
	ev := newTestEvaluator(t)
	assert.Empty(t, evaluate(ev, "+cat +unicorn"))
}

func TestExclusionOnly(t *testing.T) {
	// No required and no optional terms: nothing to start from.
	ev := newTestEvaluator(t)
	assert.Empty(t, evaluate(ev, "-cat"))
}

func TestOptionalWithExclusion(t *testing.T) {
	ev := newTestEvaluator(t)
	assert.Equal(t, []int{1, 2}, evaluate(ev, "cat dog -bird"))
}

func TestEmptyQuery(t *testing.T) {
	ev := newTestEvaluator(t)
	assert.Empty(t, evaluate(ev, ""))
	assert.Empty(t, evaluate(ev, "!@#$"))
}

func TestReverificationDropsStaleDocuments(t *testing.T) {
	ev := newTestEvaluator(t)
	// The index still claims doc 4 contains "cat", but the file has moved on.
	require.NoError(t, os.WriteFile(filepath.Join(ev.dataDir, "4.txt"), []byte("bird bird"), 0644))
	assert.Equal(t, []int{1, 2}, evaluate(ev, "+cat"))
}

func TestReverificationDropsUnreadableDocuments(t *testing.T) {
	ev := newTestEvaluator(t)
	require.NoError(t, os.Remove(filepath.Join(ev.dataDir, "2.txt")))
	assert.Equal(t, []int{1, 4}, evaluate(ev, "+cat"))
}

func TestReverificationMatchesSubstrings(t *testing.T) {
	ev := newTestEvaluator(t)
	// "cat" appears inside "cattle"; the substring check keeps the document.
	require.NoError(t, os.WriteFile(filepath.Join(ev.dataDir, "1.txt"), []byte("cattle dog"), 0644))
	assert.Contains(t, evaluate(ev, "+cat"), 1)
}

func TestOptionalSkipsReverification(t *testing.T) {
	ev := newTestEvaluator(t)
	// Without required terms the stale file is not re-checked.
	require.NoError(t, os.Remove(filepath.Join(ev.dataDir, "2.txt")))
	assert.Equal(t, []int{1, 2, 4}, evaluate(ev, "cat"))
}

func TestMonotonicity(t *testing.T) {
	ev := newTestEvaluator(t)

	base := evaluate(ev, "+cat")
	narrowed := evaluate(ev, "+cat +dog")
	assert.Subset(t, base, narrowed, "adding a required term must not enlarge the result")

	excluded := evaluate(ev, "+cat -bird")
	assert.Subset(t, base, excluded, "adding an excluded term must not enlarge the result")

	optional := evaluate(ev, "cat")
	widened := evaluate(ev, "cat dog")
	assert.Subset(t, widened, optional, "adding an optional term must not shrink the result")
}

func TestSetAlgebra(t *testing.T) {
	a := newDocSet()
	for _, id := range []int{1, 3, 5, 7} {
		a.Set(id, struct{}{})
	}
	b := newDocSet()
	for _, id := range []int{3, 4, 5} {
		b.Set(id, struct{}{})
	}

	assert.Equal(t, []int{3, 5}, keys(intersect(a, b)))
	assert.Equal(t, []int{1, 3, 4, 5, 7}, keys(union(a, b)))
	assert.Equal(t, []int{1, 7}, keys(subtract(a, b)))

	empty := newDocSet()
	assert.Empty(t, keys(intersect(a, empty)))
	assert.Equal(t, []int{1, 3, 5, 7}, keys(union(a, empty)))
	assert.Equal(t, []int{1, 3, 5, 7}, keys(subtract(a, empty)))
}

func keys(s *skiplist.SkipList) []int {
	out := make([]int, 0, s.Len())
	for node := s.Front(); node != nil; node = node.Next() {
		out = append(out, node.Key().(int))
	}
	return out
}
