// Package boolean evaluates parsed boolean queries against the compressed
// inverted index. DocId sets are kept in skiplists so intersection, union,
// and difference run as ordered merges, and results come out in ascending
// docId order for free.
package boolean

import (
	"log/slog"
	"os"
	"strings"

	"github.com/huandu/skiplist"

	"github.com/fts-lab/searchcore/internal/indexer/index"
	"github.com/fts-lab/searchcore/internal/indexer/tokenizer"
	"github.com/fts-lab/searchcore/internal/searcher/parser"
)

// Evaluator executes boolean queries over one loaded index.
type Evaluator struct {
	inv     *index.Inverted
	dataDir string
	logger  *slog.Logger
}

func New(inv *index.Inverted, dataDir string) *Evaluator {
	return &Evaluator{
		inv:     inv,
		dataDir: dataDir,
		logger:  slog.Default().With("component", "boolean"),
	}
}

// Evaluate runs the query: intersect required terms, otherwise union
// optional terms, subtract excluded terms, then re-verify required terms
// against the source documents. The returned docIds are ascending.
func (ev *Evaluator) Evaluate(q *parser.Query) []int {
	var candidates *skiplist.SkipList

	if q.HasRequired() {
		for _, term := range q.Required {
			termDocs := ev.docSet(term)
			if termDocs.Len() == 0 {
				return nil
			}
			if candidates == nil {
				candidates = termDocs
			} else {
				candidates = intersect(candidates, termDocs)
			}
			if candidates.Len() == 0 {
				return nil
			}
		}
	} else if q.HasOptional() {
		candidates = newDocSet()
		for _, term := range q.Optional {
			candidates = union(candidates, ev.docSet(term))
		}
	} else {
		return nil
	}

	if len(q.Excluded) > 0 {
		excluded := newDocSet()
		for _, term := range q.Excluded {
			excluded = union(excluded, ev.docSet(term))
		}
		candidates = subtract(candidates, excluded)
	}

	result := make([]int, 0, candidates.Len())
	for node := candidates.Front(); node != nil; node = node.Next() {
		docID := node.Key().(int)
		if q.HasRequired() && !ev.verifyRequired(docID, q.Required) {
			continue
		}
		result = append(result, docID)
	}
	return result
}

// docSet decompresses a term's posting list into an ordered docId set. A
// missing term or an undecodable list yields the empty set.
func (ev *Evaluator) docSet(term string) *skiplist.SkipList {
	set := newDocSet()
	data, ok := ev.inv.Postings[term]
	if !ok {
		return set
	}
	postings, err := index.Decompress(data)
	if err != nil {
		ev.logger.Warn("dropping undecodable posting list", "term", term, "error", err)
		return set
	}
	for _, p := range postings {
		set.Set(p.DocID, struct{}{})
	}
	return set
}

// verifyRequired re-reads the source document, lower-cases it, and requires
// every required term to appear as a substring. Documents that cannot be
// read are dropped.
func (ev *Evaluator) verifyRequired(docID int, terms []string) bool {
	content, err := os.ReadFile(ev.inv.DocPath(ev.dataDir, docID))
	if err != nil || len(content) == 0 {
		return false
	}
	lowered := tokenizer.ToLowerCase(string(content))
	for _, term := range terms {
		if !strings.Contains(lowered, term) {
			return false
		}
	}
	return true
}

func newDocSet() *skiplist.SkipList {
	return skiplist.New(skiplist.Int)
}

// intersect merges two ordered sets, advancing whichever iterator is behind.
func intersect(a, b *skiplist.SkipList) *skiplist.SkipList {
	result := newDocSet()
	na, nb := a.Front(), b.Front()
	for na != nil && nb != nil {
		ka, kb := na.Key().(int), nb.Key().(int)
		switch {
		case ka == kb:
			result.Set(ka, struct{}{})
			na = na.Next()
			nb = nb.Next()
		case ka < kb:
			na = na.Next()
		default:
			nb = nb.Next()
		}
	}
	return result
}

// union merges two ordered sets, always emitting the smaller key.
func union(a, b *skiplist.SkipList) *skiplist.SkipList {
	result := newDocSet()
	na, nb := a.Front(), b.Front()
	for na != nil || nb != nil {
		switch {
		case nb == nil:
			result.Set(na.Key().(int), struct{}{})
			na = na.Next()
		case na == nil:
			result.Set(nb.Key().(int), struct{}{})
			nb = nb.Next()
		default:
			ka, kb := na.Key().(int), nb.Key().(int)
			if ka <= kb {
				result.Set(ka, struct{}{})
				if ka == kb {
					nb = nb.Next()
				}
				na = na.Next()
			} else {
				result.Set(kb, struct{}{})
				nb = nb.Next()
			}
		}
	}
	return result
}

// subtract removes every key of b from a.
func subtract(a, b *skiplist.SkipList) *skiplist.SkipList {
	result := newDocSet()
	for na := a.Front(); na != nil; na = na.Next() {
		if b.Get(na.Key()) == nil {
			result.Set(na.Key().(int), struct{}{})
		}
	}
	return result
}
