// Package lemma loads the lemma dictionary and optionally substitutes
// tokens with their lemmas.
package lemma

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fts-lab/searchcore/internal/indexer/tokenizer"
	pkgerrors "github.com/fts-lab/searchcore/pkg/errors"
)

// Dict maps lower-cased word forms to their lower-cased lemmas.
type Dict map[string]string

// Load reads a lemmas file: one "key value" pair per line, both single
// whitespace-separated words, empty lines skipped. Keys and values are
// lower-cased through the engine's own pipeline. An empty dictionary is an
// error: the engine refuses to initialize without one.
func Load(path string) (Dict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lemma dictionary %s: %w", path, err)
	}
	defer f.Close()

	dict := make(Dict)
	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		key := sc.Text()
		if !sc.Scan() {
			break
		}
		dict[tokenizer.ToLowerCase(key)] = tokenizer.ToLowerCase(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading lemma dictionary %s: %w", path, err)
	}
	if len(dict) == 0 {
		return nil, pkgerrors.New(pkgerrors.ErrEmptyDictionary, "lemma", path)
	}
	return dict, nil
}

// Apply replaces each token with its lemma where the dictionary has one.
// Tokens without an entry pass through unchanged.
func (d Dict) Apply(tokens []string) []string {
	if len(d) == 0 {
		return tokens
	}
	for i, tok := range tokens {
		if lemma, ok := d[tok]; ok {
			tokens[i] = lemma
		}
	}
	return tokens
}
