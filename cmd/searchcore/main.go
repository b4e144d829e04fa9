package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fts-lab/searchcore/internal/indexer"
	"github.com/fts-lab/searchcore/internal/indexer/lemma"
	"github.com/fts-lab/searchcore/internal/searcher/cache"
	"github.com/fts-lab/searchcore/internal/searcher/executor"
	"github.com/fts-lab/searchcore/pkg/config"
	"github.com/fts-lab/searchcore/pkg/logger"
	"github.com/fts-lab/searchcore/pkg/metrics"
	pkgredis "github.com/fts-lab/searchcore/pkg/redis"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	cfg.DerivePaths(root)
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	m := metrics.New()
	if cfg.Metrics.Enabled {
		metrics.StartServer(cfg.Metrics.Port)
	}

	lemmas, err := lemma.Load(cfg.Paths.LemmasPath)
	if err != nil {
		slog.Error("failed to load lemma dictionary", "path", cfg.Paths.LemmasPath, "error", err)
		return 1
	}
	slog.Info("lemma dictionary loaded", "lemmas", len(lemmas), "apply", cfg.Indexer.ApplyLemmas)

	engine := indexer.NewEngine(cfg.Paths, cfg.Indexer, lemmas, m)
	engine.LoadURLs()

	var queryCache *cache.QueryCache
	if cfg.Search.CacheEnabled {
		redisClient, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, query caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis)
			slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	exec := executor.New(engine, queryCache, cfg.Search, m)

	ctx := context.Background()
	stdin := bufio.NewScanner(os.Stdin)
	for {
		displayMenu()
		if !stdin.Scan() {
			return 0
		}
		switch strings.TrimSpace(stdin.Text()) {
		case "1":
			if err := engine.Build(); err != nil {
				slog.Error("index build failed", "error", err)
				continue
			}
			if err := engine.Save(); err != nil {
				slog.Error("saving index failed", "error", err)
			}
			exec.InvalidateCache(ctx)
			displayZipf(exec)
		case "2":
			if !ensureLoaded(engine) {
				continue
			}
			booleanREPL(ctx, exec, stdin)
		case "3":
			if !ensureLoaded(engine) {
				continue
			}
			tfidfREPL(ctx, exec, stdin)
		case "4":
			fmt.Println("Exiting...")
			return 0
		default:
			fmt.Println("Invalid choice. Please try again.")
		}
	}
}

func displayMenu() {
	fmt.Println("\n=== SEARCH ENGINE ===")
	fmt.Println("1. Rebuild index")
	fmt.Println("2. Boolean search")
	fmt.Println("3. TF-IDF search")
	fmt.Println("4. Exit")
	fmt.Print("Choice: ")
}

func ensureLoaded(engine *indexer.Engine) bool {
	if engine.Loaded() {
		return true
	}
	if err := engine.Load(); err != nil {
		slog.Error("index load failed", "error", err)
		fmt.Println("No index found. Please rebuild (option 1).")
		return false
	}
	return true
}

func booleanREPL(ctx context.Context, exec *executor.Executor, stdin *bufio.Scanner) {
	fmt.Println("\n=== BOOLEAN SEARCH ===")
	fmt.Println("Syntax: +required -excluded optional")
	fmt.Println("Type 'exit' to return to main menu")
	for {
		fmt.Print("\nBool Query: ")
		if !stdin.Scan() {
			return
		}
		query := stdin.Text()
		if query == "exit" {
			return
		}
		if strings.TrimSpace(query) == "" {
			fmt.Println("Results: No documents match.")
			continue
		}
		result, err := exec.Boolean(ctx, query)
		if err != nil {
			slog.Error("boolean query failed", "query", query, "error", err)
			continue
		}
		if len(result.DocIDs) == 0 {
			fmt.Println("Results: No documents match.")
			continue
		}
		fmt.Printf("Results: %d document(s) found\n", len(result.DocIDs))
		for _, name := range result.Names {
			fmt.Printf("  %s\n", name)
		}
	}
}

func tfidfREPL(ctx context.Context, exec *executor.Executor, stdin *bufio.Scanner) {
	fmt.Println("\n=== TF-IDF SEARCH ===")
	fmt.Println("Type 'exit' to return to main menu")
	for {
		fmt.Print("\nTF-IDF Query: ")
		if !stdin.Scan() {
			return
		}
		query := stdin.Text()
		if query == "exit" {
			return
		}
		if strings.TrimSpace(query) == "" {
			fmt.Println("No query terms.")
			continue
		}
		result, err := exec.TFIDF(ctx, query)
		if err != nil {
			slog.Error("tfidf query failed", "query", query, "error", err)
			continue
		}
		if len(result.Results) == 0 {
			fmt.Println("No matching documents found.")
			continue
		}
		fmt.Printf("Top %d results:\n", len(result.Results))
		for i, doc := range result.Results {
			fmt.Printf("%d. %s | Score: %.6f\n", i+1, result.Names[i], doc.Score)
		}
	}
}

func displayZipf(exec *executor.Executor) {
	rows := exec.Zipf()
	fmt.Println("\n=== ZIPF'S LAW ANALYSIS ===")
	fmt.Printf("%-20s%-15s%-10s%s\n", "Term", "Frequency", "Rank", "F × R")
	fmt.Println(strings.Repeat("-", 55))
	for _, row := range rows {
		fmt.Printf("%-20s%-15d%-10d%d\n", row.Term, row.TotalFrequency, row.Rank, row.Constant)
	}
	fmt.Println("\nZipf's law suggests F × R should be approximately constant.")
}
