
//go:build integration

package integration

import (
	"context"
	"testing"

	"seolens-go-analyzer/internal/config"
	"seolens-go-analyzer/internal/pipeline"
	"seolens-go-analyzer/pkg/logger"
)

func TestLiveBlogPage(t *testing.T) {
	// real editorial page (subject to change / blocking)
	url := "https://go.dev/blog/gob"

	cfg := config.Default()
	pipe := pipeline.New(cfg, logger.New())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.PageTimeout.Std())
	defer cancel()

	result, err := pipe.AnalyzeURL(ctx, url, cfg.Weights)
	if err != nil {
		t.Skipf("skipping: analysis failed due to network: %v", err)
		return
	}
	if result.Failed() {
		t.Skipf("skipping: fetch failed due to network/robots: %s", result.Error)
		return
	}

	if result.Stats.Words == 0 {
		t.Error("expected non-zero word count")
	}
	total := len(result.Keywords.Client) + len(result.Keywords.ProductOrPost) + len(result.Keywords.GeneralSEO)
	if total == 0 {
		t.Error("expected non-empty keywords")
	}
}

func TestLiveDomainDiscovery(t *testing.T) {
	cfg := config.Default()
	cfg.Discovery.MaxURLs = 5
	pipe := pipeline.New(cfg, logger.New())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.DomainTimeout.Std())
	defer cancel()

	report, err := pipe.AnalyzeDomain(ctx, "go.dev", 5, 0, cfg.Weights)
	if err != nil {
		t.Skipf("skipping: domain analysis failed due to network: %v", err)
		return
	}
	if report.Summary.TotalURLs == 0 {
		t.Error("expected at least one discovered url")
	}
}
