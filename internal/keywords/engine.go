
package keywords

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"seolens-go-analyzer/internal/config"
	"seolens-go-analyzer/internal/models"
	"seolens-go-analyzer/pkg/logger"
)

// Engine runs both extractors concurrently and fuses their output.
type Engine struct {
	cfg   config.KeywordConfig
	stat  *Statistical
	emb   *Embedder
	cache *resultCache
	log   *logger.Logger
}

func NewEngine(cfg config.KeywordConfig, log *logger.Logger) *Engine {
	return &Engine{
		cfg:   cfg,
		stat:  NewStatistical(cfg.MaxNgram, cfg.MaxKeywords),
		emb:   NewEmbedder(cfg.MaxNgram, cfg.MaxKeywords, cfg.Diversity),
		cache: newResultCache(cfg.CacheSize),
		log:   log,
	}
}

// Extract returns the fused candidate set for a document. When one
// extractor panics the other's output is used alone and partial is
// true; when both fail the result is empty. Results are cached by
// content hash.
func (e *Engine) Extract(ctx context.Context, doc models.PageDocument) (cands []models.CandidateKeyword, partial bool) {
	key := contentKey(doc)
	if cached, wasPartial, ok := e.cache.get(key); ok {
		return cached, wasPartial
	}

	var statOut, embOut []models.CandidateKeyword
	var statErr, embErr error

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		statOut, statErr = e.runStatistical(doc)
		return nil
	})
	g.Go(func() error {
		embOut, embErr = e.runEmbedding(doc)
		return nil
	})
	_ = g.Wait()

	switch {
	case statErr != nil && embErr != nil:
		e.log.Errorf("keywords: both extractors failed for %s: %v / %v", doc.URL, statErr, embErr)
		return nil, true
	case statErr != nil:
		e.log.Warnf("keywords: statistical extractor failed for %s: %v", doc.URL, statErr)
		partial = true
	case embErr != nil:
		e.log.Warnf("keywords: embedding extractor failed for %s: %v", doc.URL, embErr)
		partial = true
	}

	// the statistical list dedups aggressively against itself before
	// the cross-algorithm fusion pass
	statOut = Fuse(statOut, nil, e.cfg.DedupThreshold)
	cands = Fuse(statOut, embOut, e.cfg.SimilarityThreshold)
	if len(cands) > e.cfg.MaxKeywords {
		cands = cands[:e.cfg.MaxKeywords]
	}
	e.cache.put(key, cands, partial)
	return cands, partial
}

func (e *Engine) runStatistical(doc models.PageDocument) (out []models.CandidateKeyword, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("statistical extractor: %v", r)
		}
	}()
	return e.stat.Extract(doc), nil
}

func (e *Engine) runEmbedding(doc models.PageDocument) (out []models.CandidateKeyword, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("embedding extractor: %v", r)
		}
	}()
	return e.emb.Extract(doc), nil
}
