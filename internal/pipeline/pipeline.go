
// Package pipeline wires discovery, fetching, extraction,
// classification, keyword extraction, scoring and aggregation into
// the two analysis entry points.
package pipeline

import (
	"context"
	"sync"
	"time"

	"seolens-go-analyzer/internal/aggregate"
	"seolens-go-analyzer/internal/classifier"
	"seolens-go-analyzer/internal/config"
	"seolens-go-analyzer/internal/extractor"
	"seolens-go-analyzer/internal/fetcher"
	"seolens-go-analyzer/internal/keywords"
	"seolens-go-analyzer/internal/models"
	"seolens-go-analyzer/internal/scorer"
	"seolens-go-analyzer/internal/sitemap"
	"seolens-go-analyzer/pkg/logger"
)

const wordsPerMinute = 200

type Pipeline struct {
	cfg      config.Config
	sched    *fetcher.Scheduler
	resolver *sitemap.Resolver
	extract  *extractor.Extractor
	classify *classifier.Classifier
	keywords *keywords.Engine
	log      *logger.Logger
}

func New(cfg config.Config, log *logger.Logger) *Pipeline {
	sched := fetcher.NewScheduler(cfg.Fetch, log)
	return &Pipeline{
		cfg:      cfg,
		sched:    sched,
		resolver: sitemap.NewResolver(sched, cfg.Discovery, log),
		extract:  extractor.New(),
		classify: classifier.New(cfg.Classify),
		keywords: keywords.NewEngine(cfg.Keywords, log),
		log:      log,
	}
}

// AnalyzeURL runs the full per-page pipeline for one URL. Weights are
// snapshotted by the caller; the returned result is never nil.
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL string, weights models.Weights) (*models.PageResult, error) {
	sc, err := scorer.New(weights)
	if err != nil {
		return nil, err
	}
	norm, err := fetcher.Normalize(rawURL)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Pipeline.PageTimeout.Std())
	defer cancel()
	return p.analyzePage(ctx, norm, sc), nil
}

// AnalyzeDomain discovers a domain's URLs and analyzes them
// concurrently. A non-positive timeout falls back to the configured
// domain timeout; when it expires, scheduling stops and whatever
// completed is returned, with discovered but unprocessed URLs still
// counted in the totals.
func (p *Pipeline) AnalyzeDomain(ctx context.Context, domain string, maxURLs int, timeout time.Duration, weights models.Weights) (*models.DomainReport, error) {
	sc, err := scorer.New(weights)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = p.cfg.Pipeline.DomainTimeout.Std()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	targets, err := p.resolver.Discover(ctx, domain, maxURLs)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	var mu sync.Mutex
	results := make([]*models.PageResult, 0, len(targets))
	err = p.sched.ForEach(ctx, targets, func(pageCtx context.Context, t models.CrawlTarget, res models.FetchResult) {
		pageCtx, cancel := context.WithTimeout(pageCtx, p.cfg.Pipeline.PageTimeout.Std())
		defer cancel()
		page := p.processFetched(pageCtx, res, sc)
		mu.Lock()
		results = append(results, page)
		mu.Unlock()
	})
	if err != nil && ctx.Err() == nil {
		return nil, err
	}

	report := aggregate.Build(domain, results)
	if len(targets) > report.Summary.TotalURLs {
		report.Summary.TotalURLs = len(targets)
	}
	p.log.Infof("domain %s: %d/%d pages analyzed in %s",
		domain, report.Summary.Processed, report.Summary.TotalURLs, time.Since(start).Round(time.Millisecond))
	return &report, nil
}

func (p *Pipeline) analyzePage(ctx context.Context, url string, sc *scorer.Scorer) *models.PageResult {
	return p.processFetched(ctx, p.sched.Fetch(ctx, url), sc)
}

// processFetched runs the sequential per-page stages on a completed
// fetch. Every failure mode still yields a result for aggregation.
func (p *Pipeline) processFetched(ctx context.Context, res models.FetchResult, sc *scorer.Scorer) *models.PageResult {
	result := &models.PageResult{URL: res.URL, FetchMs: res.ElapsedMs}
	if res.Err != nil {
		result.Error = res.Err.Error()
		p.log.Warnf("page %s: fetch failed: %v", res.URL, res.Err)
		return result
	}

	doc := p.extract.Extract(res.URL, res.Body, res.ContentType)
	cls := p.classify.Classify(doc)
	cands, partial := p.keywords.Extract(ctx, doc)
	scored := scorer.AssignBuckets(sc.Score(doc, cls, cands), doc, cls)

	result.Type = cls.PageType
	result.Meta = models.PageMeta{
		Title:         doc.Title,
		Description:   doc.MetaDescription,
		OGTitle:       doc.OpenGraph["title"],
		OGDescription: doc.OpenGraph["description"],
		Canonical:     doc.Canonical,
		Lang:          doc.Language,
	}
	result.Headings = doc.Headings
	result.Stats = models.PageStats{
		Words:          doc.WordCount,
		ReadingTimeMin: readingTime(doc.WordCount),
		InternalLinks:  len(doc.InternalLinks),
		ExternalLinks:  len(doc.ExternalLinks),
	}
	result.Audience = cls.Audience
	result.Intent = cls.Intent
	result.Products = cls.Products
	if result.Products == nil {
		result.Products = []models.Product{}
	}
	result.Keywords = bucketize(scored)
	result.Scored = scored
	result.Degraded = doc.Degraded
	result.Partial = partial
	return result
}

func bucketize(scored []models.ScoredKeyword) models.KeywordBuckets {
	buckets := models.KeywordBuckets{
		Client:        []models.KeywordScore{},
		ProductOrPost: []models.KeywordScore{},
		GeneralSEO:    []models.KeywordScore{},
	}
	for _, kw := range scored {
		entry := models.KeywordScore{Term: kw.Term, Score: kw.Score}
		switch kw.Bucket {
		case models.BucketClient:
			buckets.Client = append(buckets.Client, entry)
		case models.BucketProductOrPost:
			buckets.ProductOrPost = append(buckets.ProductOrPost, entry)
		default:
			buckets.GeneralSEO = append(buckets.GeneralSEO, entry)
		}
	}
	return buckets
}

func readingTime(words int) int {
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
