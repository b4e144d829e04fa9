// Package config loads application configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Paths, Indexer, Search, Redis, Logging, Metrics).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Indexer IndexerConfig `yaml:"indexer"`
	Search  SearchConfig  `yaml:"search"`
	Redis   RedisConfig   `yaml:"redis"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// PathsConfig holds every file and directory the engine touches. All paths
// are derived from the positional root directory; YAML values, when present,
// override individual entries.
type PathsConfig struct {
	DataDir    string `yaml:"dataDir"`
	LemmasPath string `yaml:"lemmasPath"`
	IndexPath  string `yaml:"indexPath"`
	DocNames   string `yaml:"docNames"`
	DocLengths string `yaml:"docLengths"`
	DocURLs    string `yaml:"docUrls"`
}

// IndexerConfig controls the index build.
type IndexerConfig struct {
	BuildWorkers     int  `yaml:"buildWorkers"`
	ApplyLemmas      bool `yaml:"applyLemmas"`
	ProgressInterval int  `yaml:"progressInterval"`
}

// SearchConfig controls retrieval parameters.
type SearchConfig struct {
	MinTFIDFScore float64 `yaml:"minTfIdfScore"`
	TopKResults   int     `yaml:"topKResults"`
	ZipfTopTerms  int     `yaml:"zipfTopTerms"`
	CacheEnabled  bool    `yaml:"cacheEnabled"`
}

// RedisConfig holds Redis connection and caching parameters for the optional
// query-result cache.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DerivePaths fills every empty path from the given root directory:
// <root>/dataset_txt, <root>/resources/lemmas.txt, <root>/inverted_index.bin,
// <root>/doc_names.txt, <root>/doc_lengths.txt, <root>/urls.txt.
func (c *Config) DerivePaths(root string) {
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = filepath.Join(root, "dataset_txt")
	}
	if c.Paths.LemmasPath == "" {
		c.Paths.LemmasPath = filepath.Join(root, "resources", "lemmas.txt")
	}
	if c.Paths.IndexPath == "" {
		c.Paths.IndexPath = filepath.Join(root, "inverted_index.bin")
	}
	if c.Paths.DocNames == "" {
		c.Paths.DocNames = filepath.Join(root, "doc_names.txt")
	}
	if c.Paths.DocLengths == "" {
		c.Paths.DocLengths = filepath.Join(root, "doc_lengths.txt")
	}
	if c.Paths.DocURLs == "" {
		c.Paths.DocURLs = filepath.Join(root, "urls.txt")
	}
}

// defaultConfig returns a Config with defaults matching the reference
// engine's behavior.
func defaultConfig() *Config {
	return &Config{
		Indexer: IndexerConfig{
			BuildWorkers:     runtime.NumCPU(),
			ApplyLemmas:      false,
			ProgressInterval: 100,
		},
		Search: SearchConfig{
			MinTFIDFScore: 0.05,
			TopKResults:   10,
			ZipfTopTerms:  15,
			CacheEnabled:  false,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			PoolSize: 10,
			CacheTTL: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads SC_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SC_DATA_DIR"); v != "" {
		cfg.Paths.DataDir = v
	}
	if v := os.Getenv("SC_LEMMAS_PATH"); v != "" {
		cfg.Paths.LemmasPath = v
	}
	if v := os.Getenv("SC_INDEX_PATH"); v != "" {
		cfg.Paths.IndexPath = v
	}
	if v := os.Getenv("SC_BUILD_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Indexer.BuildWorkers = n
		}
	}
	if v := os.Getenv("SC_APPLY_LEMMAS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Indexer.ApplyLemmas = b
		}
	}
	if v := os.Getenv("SC_MIN_TFIDF_SCORE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Search.MinTFIDFScore = f
		}
	}
	if v := os.Getenv("SC_TOP_K_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Search.TopKResults = n
		}
	}
	if v := os.Getenv("SC_CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Search.CacheEnabled = b
		}
	}
	if v := os.Getenv("SC_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("SC_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SC_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SC_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("SC_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
