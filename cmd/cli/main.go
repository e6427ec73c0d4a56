package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"seolens-go-analyzer/internal/config"
	"seolens-go-analyzer/internal/ioformats"
	"seolens-go-analyzer/internal/models"
	"seolens-go-analyzer/internal/pipeline"
	"seolens-go-analyzer/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	singleURL := flag.String("url", "", "analyze a single URL")
	domain := flag.String("domain", "", "analyze a whole domain")
	input := flag.String("input", "", "batch input file (csv with 'url' column or ndjson)")
	output := flag.String("output", "", "output file (default stdout)")
	maxURLs := flag.Int("max-urls", 0, "cap on discovered URLs for domain analysis")
	timeout := flag.Int("timeout", 0, "domain analysis timeout in seconds (0 uses the config value)")
	flag.Parse()

	if *singleURL == "" && *domain == "" && *input == "" {
		fmt.Fprintln(os.Stderr, "one of --url, --domain or --input is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	l := logger.New()
	defer l.Sync()

	pipe := pipeline.New(cfg, l)
	weights, err := cfg.Weights.Normalized()
	if err != nil {
		fmt.Fprintln(os.Stderr, "weights:", err)
		os.Exit(1)
	}

	w := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintln(os.Stderr, "create output:", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	ctx := context.Background()

	switch {
	case *singleURL != "":
		result, err := pipe.AnalyzeURL(ctx, *singleURL, weights)
		if err != nil {
			fmt.Fprintln(os.Stderr, "analyze:", err)
			os.Exit(1)
		}
		_ = ioformats.WriteJSON(w, result)
		if result.Failed() {
			os.Exit(1)
		}

	case *domain != "":
		report, err := pipe.AnalyzeDomain(ctx, *domain, *maxURLs, time.Duration(*timeout)*time.Second, weights)
		if err != nil {
			fmt.Fprintln(os.Stderr, "analyze:", err)
			os.Exit(1)
		}
		_ = ioformats.WriteJSON(w, report)

	case *input != "":
		urls, err := ioformats.ReadURLs(*input)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read input:", err)
			os.Exit(1)
		}
		results := make([]*models.PageResult, 0, len(urls))
		for _, u := range urls {
			result, err := pipe.AnalyzeURL(ctx, u, weights)
			if err != nil {
				results = append(results, &models.PageResult{URL: u, Error: err.Error()})
				continue
			}
			results = append(results, result)
		}
		if err := ioformats.WriteNDJSON(w, results); err != nil {
			fmt.Fprintln(os.Stderr, "write output:", err)
			os.Exit(1)
		}
	}
}
