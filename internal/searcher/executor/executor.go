// Package executor is the query façade the REPL drives: it parses queries,
// runs boolean or TF-IDF retrieval over the engine's index, consults the
// optional result cache, and records metrics.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fts-lab/searchcore/internal/indexer"
	"github.com/fts-lab/searchcore/internal/indexer/index"
	"github.com/fts-lab/searchcore/internal/searcher/boolean"
	"github.com/fts-lab/searchcore/internal/searcher/cache"
	"github.com/fts-lab/searchcore/internal/searcher/parser"
	"github.com/fts-lab/searchcore/internal/searcher/ranker"
	"github.com/fts-lab/searchcore/internal/searcher/zipf"
	"github.com/fts-lab/searchcore/pkg/config"
	"github.com/fts-lab/searchcore/pkg/metrics"
)

// BooleanResult is the outcome of one boolean query.
type BooleanResult struct {
	Query  string   `json:"query"`
	DocIDs []int    `json:"doc_ids"`
	Names  []string `json:"names"`
}

// TFIDFResult is the outcome of one ranked query.
type TFIDFResult struct {
	Query   string             `json:"query"`
	Results []ranker.ScoredDoc `json:"results"`
	Names   []string           `json:"names"`
}

// Executor runs queries against one engine.
type Executor struct {
	engine  *indexer.Engine
	cache   *cache.QueryCache
	cfg     config.SearchConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func New(engine *indexer.Engine, qc *cache.QueryCache, cfg config.SearchConfig, m *metrics.Metrics) *Executor {
	return &Executor{
		engine:  engine,
		cache:   qc,
		cfg:     cfg,
		metrics: m,
		logger:  slog.Default().With("component", "query-executor"),
	}
}

// Boolean evaluates a `+required -excluded optional` query and returns the
// matching docIds in ascending order with their display names.
func (e *Executor) Boolean(ctx context.Context, query string) (*BooleanResult, error) {
	started := time.Now()
	result := &BooleanResult{}
	err := e.cached(ctx, "boolean", query, result, func() (any, error) {
		q := parser.Parse(query, func(word string) []string {
			return e.engine.Tokenize([]byte(word))
		})
		ev := boolean.New(e.engine.Index(), e.engine.DataDir())
		docIDs := ev.Evaluate(q)
		names := make([]string, len(docIDs))
		for i, id := range docIDs {
			names[i] = e.engine.Index().DisplayName(id)
		}
		return &BooleanResult{Query: query, DocIDs: docIDs, Names: names}, nil
	})
	if err != nil {
		return nil, err
	}
	e.observe("boolean", started, len(result.DocIDs))
	e.logger.Info("boolean query executed",
		"query", query,
		"results", len(result.DocIDs),
		"duration", time.Since(started),
	)
	return result, nil
}

// TFIDF scores and ranks documents for a free-text query.
func (e *Executor) TFIDF(ctx context.Context, query string) (*TFIDFResult, error) {
	started := time.Now()
	result := &TFIDFResult{}
	err := e.cached(ctx, "tfidf", query, result, func() (any, error) {
		terms := e.engine.Tokenize([]byte(query))
		inv := e.engine.Index()
		postingsPerTerm := make(map[string][]index.Posting, len(terms))
		for _, term := range terms {
			data, ok := inv.Postings[term]
			if !ok {
				continue
			}
			postings, err := index.Decompress(data)
			if err != nil {
				e.logger.Warn("dropping undecodable posting list", "term", term, "error", err)
				continue
			}
			postingsPerTerm[term] = postings
		}
		ranked := ranker.Rank(postingsPerTerm, inv.TotalDocs(),
			func(docID int) int { return inv.Lengths[docID] },
			ranker.Params{MinScore: e.cfg.MinTFIDFScore, TopK: e.cfg.TopKResults},
		)
		names := make([]string, len(ranked))
		for i, doc := range ranked {
			names[i] = inv.DisplayName(doc.DocID)
		}
		return &TFIDFResult{Query: query, Results: ranked, Names: names}, nil
	})
	if err != nil {
		return nil, err
	}
	e.observe("tfidf", started, len(result.Results))
	e.logger.Info("tfidf query executed",
		"query", query,
		"results", len(result.Results),
		"duration", time.Since(started),
	)
	return result, nil
}

// Zipf returns the top-K term-frequency table for the loaded index.
func (e *Executor) Zipf() []zipf.Row {
	return zipf.Analyze(e.engine.Index(), e.cfg.ZipfTopTerms)
}

// InvalidateCache drops all cached query results. A no-op without a cache.
func (e *Executor) InvalidateCache(ctx context.Context) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Invalidate(ctx); err != nil {
		e.logger.Error("cache invalidation failed", "error", err)
	}
}

// cached routes a computation through the query cache when one is
// configured, marshalling results as JSON. out must be a pointer matching
// the compute function's concrete result type.
func (e *Executor) cached(ctx context.Context, mode string, query string, out any, compute func() (any, error)) error {
	if e.cache == nil {
		result, err := compute()
		if err != nil {
			return err
		}
		switch dst := out.(type) {
		case *BooleanResult:
			*dst = *result.(*BooleanResult)
		case *TFIDFResult:
			*dst = *result.(*TFIDFResult)
		default:
			return fmt.Errorf("unsupported %s result type %T", mode, out)
		}
		return nil
	}
	payload, hit, err := e.cache.GetOrCompute(ctx, mode, query, func() ([]byte, error) {
		result, err := compute()
		if err != nil {
			return nil, err
		}
		return json.Marshal(result)
	})
	if err != nil {
		return err
	}
	if e.metrics != nil {
		if hit {
			e.metrics.CacheHitsTotal.Inc()
		} else {
			e.metrics.CacheMissesTotal.Inc()
		}
	}
	return json.Unmarshal(payload, out)
}

func (e *Executor) observe(mode string, started time.Time, results int) {
	if e.metrics == nil {
		return
	}
	e.metrics.QueriesTotal.WithLabelValues(mode).Inc()
	e.metrics.QueryLatency.WithLabelValues(mode).Observe(time.Since(started).Seconds())
	e.metrics.QueryResultsCount.Observe(float64(results))
}
