
package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/temoto/robotstxt"

	"seolens-go-analyzer/internal/config"
	"seolens-go-analyzer/internal/models"
	"seolens-go-analyzer/pkg/logger"
)

func testFetchConfig(concurrency int) config.FetchConfig {
	return config.FetchConfig{
		Concurrency:    concurrency,
		RequestTimeout: config.Duration(5 * time.Second),
		DialTimeout:    config.Duration(2 * time.Second),
		MaxRetries:     2,
		RetryBaseDelay: config.Duration(time.Millisecond),
		MaxBodyBytes:   1 << 20,
		HostRPS:        1000,
		UserAgent:      "test-agent/1.0",
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer ts.Close()

	s := NewScheduler(testFetchConfig(2), logger.New())
	res := s.Fetch(context.Background(), ts.URL)
	if res.Err != nil {
		t.Fatalf("expected success after retries, got %v", res.Err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("want 3 attempts, got %d", got)
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	s := NewScheduler(testFetchConfig(2), logger.New())
	res := s.Fetch(context.Background(), ts.URL)
	if res.Err == nil {
		t.Fatal("expected error for 404")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("want 1 attempt, got %d", got)
	}
}

func TestFetchRejectsNonHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{}"))
	}))
	defer ts.Close()

	s := NewScheduler(testFetchConfig(2), logger.New())
	res := s.Fetch(context.Background(), ts.URL)
	if !errors.Is(res.Err, ErrNotHTML) {
		t.Fatalf("want ErrNotHTML, got %v", res.Err)
	}
}

func TestFetchHonorsRobots(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer ts.Close()

	s := NewScheduler(testFetchConfig(2), logger.New())
	data, err := robotstxt.FromBytes([]byte("User-agent: *\nDisallow: /private"))
	if err != nil {
		t.Fatal(err)
	}
	s.SetRobots(data)

	res := s.Fetch(context.Background(), ts.URL+"/private/page")
	if !errors.Is(res.Err, ErrRobotsDisallowed) {
		t.Fatalf("want ErrRobotsDisallowed, got %v", res.Err)
	}
	if res := s.Fetch(context.Background(), ts.URL+"/public"); res.Err != nil {
		t.Fatalf("allowed path failed: %v", res.Err)
	}
}

func TestFetchSkipsBackoffAfterFinalAttempt(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	cfg := testFetchConfig(1)
	cfg.MaxRetries = 2
	cfg.RetryBaseDelay = config.Duration(50 * time.Millisecond)
	s := NewScheduler(cfg, logger.New())

	start := time.Now()
	res := s.Fetch(context.Background(), ts.URL)
	elapsed := time.Since(start)

	if res.Err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("want 3 attempts, got %d", got)
	}
	// backoff runs between attempts (50ms + 100ms), never after the
	// last one; the old extra 200ms sleep would push this past 300ms
	if elapsed >= 300*time.Millisecond {
		t.Fatalf("final attempt paid a pointless backoff: %v", elapsed)
	}
}

func TestForEachRespectsConcurrencyBound(t *testing.T) {
	var inflight, peak int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inflight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inflight, -1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer ts.Close()

	const bound = 3
	s := NewScheduler(testFetchConfig(bound), logger.New())
	targets := make([]models.CrawlTarget, 20)
	for i := range targets {
		targets[i] = models.CrawlTarget{URL: ts.URL}
	}

	var done int32
	err := s.ForEach(context.Background(), targets, func(_ context.Context, _ models.CrawlTarget, res models.FetchResult) {
		if res.Err == nil {
			atomic.AddInt32(&done, 1)
		}
	})
	if err != nil {
		t.Fatalf("foreach: %v", err)
	}
	if done != 20 {
		t.Fatalf("want 20 results, got %d", done)
	}
	if p := atomic.LoadInt32(&peak); p > bound {
		t.Fatalf("concurrency bound exceeded: peak %d > %d", p, bound)
	}
}
