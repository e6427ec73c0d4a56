package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"seolens-go-analyzer/internal/models"
)

// Duration unmarshals from "15s" style YAML strings; bare integers
// are taken as seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = Duration(time.Duration(n) * time.Second)
	return nil
}

// Std converts back to the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// FetchConfig bounds the network side of an analysis.
type FetchConfig struct {
	Concurrency    int      `yaml:"concurrency"`
	RequestTimeout Duration `yaml:"request_timeout"`
	DialTimeout    Duration `yaml:"dial_timeout"`
	MaxRetries     int      `yaml:"max_retries"`
	RetryBaseDelay Duration `yaml:"retry_base_delay"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
	HostRPS        float64  `yaml:"host_rps"`
	UserAgent      string   `yaml:"user_agent"`
}

// DiscoveryConfig bounds sitemap resolution and the crawl fallback.
type DiscoveryConfig struct {
	MaxURLs         int `yaml:"max_urls"`
	SitemapDepth    int `yaml:"sitemap_depth"`
	CrawlDepth      int `yaml:"crawl_depth"`
	CrawlMaxPages   int `yaml:"crawl_max_pages"`
	RecentWindowDay int `yaml:"recent_window_days"`
}

// KeywordConfig tunes the two extraction algorithms and their fusion.
type KeywordConfig struct {
	MaxKeywords         int     `yaml:"max_keywords"`
	MaxNgram            int     `yaml:"max_ngram"`
	DedupThreshold      float64 `yaml:"dedup_threshold"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	Diversity           float64 `yaml:"diversity"`
	CacheSize           int     `yaml:"cache_size"`
}

// ClassifyConfig holds the page-type decision thresholds.
type ClassifyConfig struct {
	CommerceThreshold float64 `yaml:"commerce_threshold"`
	MixedMargin       float64 `yaml:"mixed_margin"`
}

// PipelineConfig bounds a whole analysis run.
type PipelineConfig struct {
	PageTimeout   Duration `yaml:"page_timeout"`
	DomainTimeout Duration `yaml:"domain_timeout"`
}

// Config is the process configuration. Zero values are filled with
// defaults by Default(); Load overlays a YAML file on top of them.
type Config struct {
	ListenAddr string                `yaml:"listen_addr"`
	LogFile    string                `yaml:"log_file"`
	Fetch      FetchConfig           `yaml:"fetch"`
	Discovery  DiscoveryConfig       `yaml:"discovery"`
	Keywords   KeywordConfig         `yaml:"keywords"`
	Classify   ClassifyConfig        `yaml:"classify"`
	Pipeline   PipelineConfig        `yaml:"pipeline"`
	Weights    models.Weights        `yaml:"weights"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		Fetch: FetchConfig{
			Concurrency:    10,
			RequestTimeout: Duration(15 * time.Second),
			DialTimeout:    Duration(5 * time.Second),
			MaxRetries:     2,
			RetryBaseDelay: Duration(500 * time.Millisecond),
			MaxBodyBytes:   5 * 1024 * 1024,
			HostRPS:        4,
			UserAgent:      "seolens-go-analyzer/1.0 (+https://example.com)",
		},
		Discovery: DiscoveryConfig{
			MaxURLs:         100,
			SitemapDepth:    3,
			CrawlDepth:      2,
			CrawlMaxPages:   50,
			RecentWindowDay: 5,
		},
		Keywords: KeywordConfig{
			MaxKeywords:         50,
			MaxNgram:            2,
			DedupThreshold:      0.7,
			SimilarityThreshold: 0.85,
			Diversity:           0.5,
			CacheSize:           128,
		},
		Classify: ClassifyConfig{
			CommerceThreshold: 0.6,
			MixedMargin:       0.1,
		},
		Pipeline: PipelineConfig{
			PageTimeout:   Duration(30 * time.Second),
			DomainTimeout: Duration(5 * time.Minute),
		},
		Weights: models.DefaultWeights(),
	}
}

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if _, err := cfg.Weights.Normalized(); err != nil {
		return Config{}, fmt.Errorf("config weights: %w", err)
	}
	return cfg, nil
}
