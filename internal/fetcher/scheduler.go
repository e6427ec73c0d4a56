
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"seolens-go-analyzer/internal/config"
	"seolens-go-analyzer/internal/models"
	"seolens-go-analyzer/pkg/logger"
)

// ErrRobotsDisallowed marks a URL the site's robots.txt forbids.
var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// ErrNotHTML marks a response whose content type is not a page.
var ErrNotHTML = errors.New("response is not an html document")

// Scheduler runs fetches under a concurrency bound with per-host rate
// limiting, retry with exponential backoff and optional robots.txt
// enforcement. Safe for concurrent use.
type Scheduler struct {
	client     *Client
	log        *logger.Logger
	userAgent  string
	maxRetries int
	baseDelay  time.Duration
	hostRPS    float64
	sem        chan struct{}

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	robots   *robotstxt.RobotsData
}

func NewScheduler(cfg config.FetchConfig, log *logger.Logger) *Scheduler {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scheduler{
		client:     NewClient(cfg.RequestTimeout.Std(), cfg.DialTimeout.Std(), cfg.MaxBodyBytes, cfg.UserAgent),
		log:        log,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.RetryBaseDelay.Std(),
		hostRPS:    cfg.HostRPS,
		sem:        make(chan struct{}, concurrency),
	}
}

// Client exposes the underlying HTTP client for auxiliary fetches
// (robots.txt, sitemaps) that bypass retry and robots enforcement.
func (s *Scheduler) Client() *Client { return s.client }

// SetRobots installs the parsed robots.txt for the run's domain.
func (s *Scheduler) SetRobots(data *robotstxt.RobotsData) {
	s.mu.Lock()
	s.robots = data
	s.mu.Unlock()
}

func (s *Scheduler) allowed(rawURL string) bool {
	s.mu.Lock()
	robots := s.robots
	s.mu.Unlock()
	if robots == nil {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := u.Path
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return robots.FindGroup(s.userAgent).Test(path)
}

func (s *Scheduler) limiter(host string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limiters == nil {
		s.limiters = make(map[string]*rate.Limiter)
	}
	lim, ok := s.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(s.hostRPS), 1)
		s.limiters[host] = lim
	}
	return lim
}

// Fetch retrieves one URL, retrying transient failures. The returned
// result always carries the requested URL; Err is set on exhaustion,
// robots denial or a non-HTML response.
func (s *Scheduler) Fetch(ctx context.Context, rawURL string) models.FetchResult {
	res := models.FetchResult{URL: rawURL}
	if !s.allowed(rawURL) {
		res.Err = ErrRobotsDisallowed
		return res
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		res.Err = err
		return res
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := s.limiter(u.Host).Wait(ctx); err != nil {
			res.Err = err
			return res
		}
		resp, err := s.client.Get(ctx, rawURL)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			if attempt < s.maxRetries {
				s.backoff(ctx, attempt, 0)
			}
			continue
		}
		res.StatusCode = resp.StatusCode
		res.ContentType = resp.ContentType
		res.ElapsedMs = resp.Elapsed.Milliseconds()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if !resp.IsHTML() {
				res.Err = ErrNotHTML
				return res
			}
			res.FinalURL = resp.FinalURL
			res.Body = resp.Body
			return res
		case resp.StatusCode == 429 || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("http %d for %s", resp.StatusCode, rawURL)
			// no point sleeping after the last attempt
			if attempt < s.maxRetries {
				s.backoff(ctx, attempt, resp.RetryAfter)
			}
		default:
			// 4xx other than 429 will not improve with retries
			res.Err = fmt.Errorf("http %d for %s", resp.StatusCode, rawURL)
			return res
		}
	}
	res.Err = lastErr
	return res
}

func (s *Scheduler) backoff(ctx context.Context, attempt int, retryAfter time.Duration) {
	delay := s.baseDelay << uint(attempt)
	if retryAfter > delay {
		delay = retryAfter
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}

// ForEach runs fn for every target with at most the configured number
// of in-flight executions. fn receives the fetch result and is expected
// to absorb per-page errors; ForEach only fails on context cancellation.
func (s *Scheduler) ForEach(ctx context.Context, targets []models.CrawlTarget, fn func(ctx context.Context, t models.CrawlTarget, res models.FetchResult)) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		t := t
		g.Go(func() error {
			select {
			case s.sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-s.sem }()
			fn(ctx, t, s.Fetch(ctx, t.URL))
			return nil
		})
	}
	return g.Wait()
}
