
package sitemap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"seolens-go-analyzer/internal/config"
	"seolens-go-analyzer/internal/fetcher"
	"seolens-go-analyzer/internal/models"
	"seolens-go-analyzer/pkg/logger"
)

func testDiscoveryConfig() config.DiscoveryConfig {
	return config.DiscoveryConfig{
		MaxURLs:         10,
		SitemapDepth:    3,
		CrawlDepth:      2,
		CrawlMaxPages:   10,
		RecentWindowDay: 5,
	}
}

func newTestResolver(cfg config.DiscoveryConfig) (*Resolver, *fetcher.Scheduler) {
	sched := fetcher.NewScheduler(config.FetchConfig{
		Concurrency:    4,
		RequestTimeout: config.Duration(5 * time.Second),
		DialTimeout:    config.Duration(2 * time.Second),
		MaxRetries:     0,
		RetryBaseDelay: config.Duration(time.Millisecond),
		MaxBodyBytes:   1 << 20,
		HostRPS:        1000,
		UserAgent:      "test-agent/1.0",
	}, logger.New())
	return NewResolver(sched, cfg, logger.New()), sched
}

func TestDiscoverFollowsSitemapIndex(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "User-agent: *\nAllow: /\nSitemap: %s/sitemap-index.xml\n", ts.URL)
	})
	mux.HandleFunc("/sitemap-index.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>%s/sitemap-pages.xml</loc></sitemap>
</sitemapindex>`, ts.URL)
	})
	mux.HandleFunc("/sitemap-pages.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%[1]s/producto/zapatos</loc><priority>0.8</priority></url>
  <url><loc>%[1]s/producto/camisas</loc></url>
  <url><loc>%[1]s/blog/guia-tallas</loc><lastmod>2026-08-25</lastmod></url>
  <url><loc>%[1]s/about</loc></url>
  <url><loc>%[1]s/wp-admin/settings</loc></url>
  <url><loc>%[1]s/banner.png</loc></url>
</urlset>`, ts.URL)
	})

	r, _ := newTestResolver(testDiscoveryConfig())
	targets, err := r.Discover(context.Background(), ts.URL, 10)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	if len(targets) == 0 || targets[0].URL != ts.URL+"/" {
		t.Fatalf("homepage must lead the list, got %v", targets)
	}
	urls := map[string]bool{}
	for _, tgt := range targets {
		urls[tgt.URL] = true
		if tgt.DiscoveredFrom != models.DiscoveredSitemap {
			t.Errorf("want sitemap source for %s", tgt.URL)
		}
	}
	for _, want := range []string{"/producto/zapatos", "/blog/guia-tallas", "/about"} {
		if !urls[ts.URL+want] {
			t.Errorf("missing %s in %v", want, targets)
		}
	}
	for _, skip := range []string{"/wp-admin/settings", "/banner.png"} {
		if urls[ts.URL+skip] {
			t.Errorf("irrelevant url %s survived filtering", skip)
		}
	}
}

func TestDiscoverBalancesCategories(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><urlset>`)
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, "<url><loc>%s/producto/item-%d</loc></url>", ts.URL, i)
	}
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&sb, "<url><loc>%s/blog/post-%d</loc></url>", ts.URL, i)
	}
	sb.WriteString(`</urlset>`)

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(sb.String()))
	})

	r, _ := newTestResolver(testDiscoveryConfig())
	targets, err := r.Discover(context.Background(), ts.URL, 10)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(targets) != 10 {
		t.Fatalf("want 10 targets, got %d", len(targets))
	}
	blog := 0
	for _, tgt := range targets {
		if strings.Contains(tgt.URL, "/blog/") {
			blog++
		}
	}
	// a giant product sitemap must not crowd out the blog
	if blog < 3 {
		t.Fatalf("want at least 3 blog urls in a balanced pick, got %d", blog)
	}
}

func TestDiscoverFailsWhenNothingReachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	dead := ts.URL
	ts.Close()

	r, _ := newTestResolver(testDiscoveryConfig())
	targets, err := r.Discover(context.Background(), dead, 10)
	if !errors.Is(err, ErrNoURLs) {
		t.Fatalf("want ErrNoURLs for unreachable domain, got targets=%v err=%v", targets, err)
	}
}

func TestDiscoverFallsBackToWellKnownSitemap(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	// robots.txt declares a sitemap that no longer exists
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "User-agent: *\nSitemap: %s/old-sitemap.xml\n", ts.URL)
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0"?><urlset>
<url><loc>%s/blog/post</loc></url>
</urlset>`, ts.URL)
	})

	r, _ := newTestResolver(testDiscoveryConfig())
	targets, err := r.Discover(context.Background(), ts.URL, 10)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	found := false
	for _, tgt := range targets {
		if tgt.URL == ts.URL+"/blog/post" {
			found = true
		}
		if tgt.DiscoveredFrom != models.DiscoveredSitemap {
			t.Errorf("want sitemap source for %s", tgt.URL)
		}
	}
	if !found {
		t.Fatalf("well-known sitemap was not probed after dead declared sitemap: %v", targets)
	}
}

func TestDiscoverFallsBackToCrawl(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		switch r.URL.Path {
		case "/":
			fmt.Fprintf(w, `<html><body>
<a href="/blog/first">first</a>
<a href="%s/blog/second">second</a>
<a href="https://elsewhere.example/x">external</a>
<a href="mailto:x@example.com">mail</a>
</body></html>`, ts.URL)
		case "/blog/first", "/blog/second":
			fmt.Fprint(w, `<html><body><a href="/blog/first">loop</a></body></html>`)
		default:
			http.NotFound(w, r)
		}
	})

	r, _ := newTestResolver(testDiscoveryConfig())
	targets, err := r.Discover(context.Background(), ts.URL, 10)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	urls := map[string]bool{}
	for _, tgt := range targets {
		urls[tgt.URL] = true
		if tgt.DiscoveredFrom != models.DiscoveredCrawl {
			t.Errorf("want crawl source for %s", tgt.URL)
		}
	}
	if !urls[ts.URL+"/"] || !urls[ts.URL+"/blog/first"] || !urls[ts.URL+"/blog/second"] {
		t.Fatalf("missing crawled urls: %v", targets)
	}
	for u := range urls {
		if strings.Contains(u, "elsewhere") {
			t.Fatal("external link must not be crawled")
		}
	}
}
