// Package indexer drives the index lifecycle: building the compressed
// inverted index from the corpus, saving it with its sidecars, and loading
// it back.
package indexer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fts-lab/searchcore/internal/indexer/index"
	"github.com/fts-lab/searchcore/internal/indexer/lemma"
	"github.com/fts-lab/searchcore/internal/indexer/segment"
	"github.com/fts-lab/searchcore/internal/indexer/tokenizer"
	"github.com/fts-lab/searchcore/pkg/config"
	"github.com/fts-lab/searchcore/pkg/metrics"
)

// Engine owns the in-memory index and the build/save/load operations over
// the configured paths.
type Engine struct {
	inv     *index.Inverted
	lemmas  lemma.Dict
	cfg     config.IndexerConfig
	paths   config.PathsConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// docStats is the per-document outcome of tokenization during a build.
type docStats struct {
	name      string
	wordCount int
	termFreqs map[string]int
}

func NewEngine(paths config.PathsConfig, cfg config.IndexerConfig, lemmas lemma.Dict, m *metrics.Metrics) *Engine {
	return &Engine{
		inv:     index.New(),
		lemmas:  lemmas,
		cfg:     cfg,
		paths:   paths,
		logger:  slog.Default().With("component", "indexer"),
		metrics: m,
	}
}

// Index exposes the in-memory inverted index. It is read-only outside of
// Build and Load.
func (e *Engine) Index() *index.Inverted {
	return e.inv
}

// Loaded reports whether an index is present in memory.
func (e *Engine) Loaded() bool {
	return e.inv.TermCount() > 0
}

// DataDir is the corpus directory documents are read from.
func (e *Engine) DataDir() string {
	return e.paths.DataDir
}

// Tokenize runs the engine's tokenization pipeline: normalization plus the
// optional lemma substitution step. Queries must pass through the same
// pipeline as documents.
func (e *Engine) Tokenize(text []byte) []string {
	tokens := tokenizer.Tokenize(text)
	if e.cfg.ApplyLemmas {
		tokens = e.lemmas.Apply(tokens)
	}
	return tokens
}

// Build scans the corpus directory for .txt files in sorted filename order,
// assigns docIds from 1, tokenizes every document, and replaces the
// in-memory index with freshly compressed posting lists. Tokenization fans
// out across buildWorkers goroutines; docIds are fixed before the fan-out
// and results are merged in docId order, so the built index is identical to
// a sequential build.
func (e *Engine) Build() error {
	started := time.Now()
	e.logger.Info("starting index build", "data_dir", e.paths.DataDir)

	entries, err := os.ReadDir(e.paths.DataDir)
	if err != nil {
		return fmt.Errorf("reading corpus directory %s: %w", e.paths.DataDir, err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	stats := make([]docStats, len(files))
	workers := e.cfg.BuildWorkers
	if workers < 1 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, name := range files {
		g.Go(func() error {
			stats[i] = e.processDocument(name)
			return nil
		})
	}
	g.Wait()

	urls := e.inv.URLs
	e.inv = index.New()
	e.inv.URLs = urls

	tempPostings := make(map[string][]index.Posting)
	for i, st := range stats {
		docID := i + 1
		e.inv.Names[docID] = st.name
		e.inv.Lengths[docID] = st.wordCount
		for term, freq := range st.termFreqs {
			tempPostings[term] = append(tempPostings[term], index.Posting{DocID: docID, Frequency: freq})
		}
		if e.cfg.ProgressInterval > 0 && docID%e.cfg.ProgressInterval == 0 {
			e.logger.Info("indexing progress", "docs_processed", docID, "total", len(files))
		}
	}

	termsCompressed := 0
	for term, postings := range tempPostings {
		sort.SliceStable(postings, func(i, j int) bool {
			return postings[i].DocID < postings[j].DocID
		})
		compressed, err := index.Compress(postings)
		if err != nil {
			return fmt.Errorf("compressing postings for term %q: %w", term, err)
		}
		e.inv.Postings[term] = compressed
		termsCompressed++
		if e.cfg.ProgressInterval > 0 && termsCompressed%(e.cfg.ProgressInterval*10) == 0 {
			e.logger.Info("compression progress", "terms_compressed", termsCompressed)
		}
	}

	elapsed := time.Since(started)
	if e.metrics != nil {
		e.metrics.DocsIndexedTotal.Add(float64(len(files)))
		e.metrics.UniqueTerms.Set(float64(e.inv.TermCount()))
		e.metrics.IndexBuildDuration.Observe(elapsed.Seconds())
		e.metrics.IndexSizeBytes.Set(float64(e.inv.SizeBytes()))
	}
	e.logger.Info("index build complete",
		"documents", e.inv.TotalDocs(),
		"unique_terms", e.inv.TermCount(),
		"compressed_bytes", e.inv.SizeBytes(),
		"duration", elapsed,
	)
	return nil
}

// processDocument reads and tokenizes one corpus file. A file that cannot
// be read still occupies its docId, with zero length and no terms.
func (e *Engine) processDocument(name string) docStats {
	st := docStats{name: name}
	content, err := os.ReadFile(filepath.Join(e.paths.DataDir, name))
	if err != nil {
		e.logger.Warn("cannot read corpus file", "file", name, "error", err)
		return st
	}
	tokens := e.Tokenize(content)
	st.wordCount = len(tokens)
	st.termFreqs = make(map[string]int, len(tokens))
	for _, tok := range tokens {
		st.termFreqs[tok]++
	}
	return st
}

// Save writes the binary index file and both sidecars. Each write failure is
// logged and does not prevent the remaining writes; the first error is
// returned.
func (e *Engine) Save() error {
	var firstErr error
	if err := segment.WriteIndex(e.paths.IndexPath, e.inv); err != nil {
		e.logger.Error("saving inverted index failed", "path", e.paths.IndexPath, "error", err)
		firstErr = err
	} else {
		e.logger.Info("inverted index saved", "path", e.paths.IndexPath, "terms", e.inv.TermCount())
	}
	if err := segment.WriteLengths(e.paths.DocLengths, e.inv.Lengths); err != nil {
		e.logger.Warn("saving document lengths failed", "path", e.paths.DocLengths, "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	if err := segment.WriteNames(e.paths.DocNames, e.inv.Names); err != nil {
		e.logger.Warn("saving document names failed", "path", e.paths.DocNames, "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Load reads the binary index file and sidecars back into memory. The index
// file and lengths sidecar are mandatory; missing names are only warned
// about. Loaded URLs survive the reload.
func (e *Engine) Load() error {
	postings, err := segment.ReadIndex(e.paths.IndexPath)
	if err != nil {
		return fmt.Errorf("loading inverted index: %w", err)
	}
	lengths, err := segment.LoadLengths(e.paths.DocLengths)
	if err != nil {
		return fmt.Errorf("loading document lengths: %w", err)
	}
	names, err := segment.LoadNames(e.paths.DocNames)
	if err != nil {
		e.logger.Warn("cannot load document names", "path", e.paths.DocNames, "error", err)
		names = make(map[int]string)
	}

	urls := e.inv.URLs
	e.inv = index.New()
	e.inv.Postings = postings
	e.inv.Lengths = lengths
	e.inv.Names = names
	e.inv.URLs = urls

	if e.metrics != nil {
		e.metrics.UniqueTerms.Set(float64(e.inv.TermCount()))
		e.metrics.IndexSizeBytes.Set(float64(e.inv.SizeBytes()))
	}
	e.logger.Info("index loaded",
		"terms", e.inv.TermCount(),
		"documents", e.inv.TotalDocs(),
	)
	return nil
}

// LoadURLs reads the optional urls sidecar. Absence is non-fatal.
func (e *Engine) LoadURLs() {
	urls, err := segment.LoadURLs(e.paths.DocURLs)
	if err != nil {
		e.logger.Warn("cannot load document URLs", "path", e.paths.DocURLs, "error", err)
		return
	}
	e.inv.URLs = urls
	e.logger.Info("document URLs loaded", "count", len(urls))
}
