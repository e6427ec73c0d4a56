
// Package sitemap discovers the set of URLs to analyze for a domain,
// preferring sitemap files and falling back to a shallow crawl.
package sitemap

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/temoto/robotstxt"

	"seolens-go-analyzer/internal/config"
	"seolens-go-analyzer/internal/fetcher"
	"seolens-go-analyzer/internal/models"
	"seolens-go-analyzer/pkg/logger"
)

// ErrNoURLs marks a domain where neither sitemaps nor the crawl
// fallback produced a single reachable URL. Fatal for domain analysis.
var ErrNoURLs = errors.New("no urls discovered for domain")

// conventional sitemap locations probed when robots.txt lists none
var wellKnownPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
	"/wp-sitemap.xml",
	"/sitemap.xml.gz",
}

// Resolver turns a domain into a bounded, balanced list of crawl
// targets.
type Resolver struct {
	sched *fetcher.Scheduler
	cfg   config.DiscoveryConfig
	log   *logger.Logger
}

func NewResolver(sched *fetcher.Scheduler, cfg config.DiscoveryConfig, log *logger.Logger) *Resolver {
	return &Resolver{sched: sched, cfg: cfg, log: log}
}

// Discover resolves the URLs to analyze for a domain. It loads
// robots.txt (installing it on the scheduler for later enforcement),
// walks any sitemaps it finds and selects up to maxURLs targets. When
// no sitemap yields usable URLs it falls back to a shallow crawl from
// the homepage. The homepage itself is always included.
func (r *Resolver) Discover(ctx context.Context, domain string, maxURLs int) ([]models.CrawlTarget, error) {
	base, err := baseURL(domain)
	if err != nil {
		return nil, err
	}
	if maxURLs <= 0 {
		maxURLs = r.cfg.MaxURLs
	}

	declared := r.loadRobots(ctx, base)

	entries := r.collectEntries(ctx, base, declared)
	r.log.Infof("discovery: %d sitemap urls for %s", len(entries), base)

	if len(entries) == 0 {
		crawled, err := r.crawl(ctx, base, maxURLs)
		if err != nil {
			return nil, err
		}
		return crawled, nil
	}
	return selectTargets(base, entries, maxURLs, r.cfg.RecentWindowDay), nil
}

// loadRobots fetches and parses robots.txt. Returns sitemap URLs the
// file declares; a missing or broken robots.txt is treated as
// allow-all.
func (r *Resolver) loadRobots(ctx context.Context, base string) []string {
	resp, err := r.sched.Client().Get(ctx, base+"/robots.txt")
	if err != nil || resp.StatusCode != 200 {
		return nil
	}
	data, err := robotstxt.FromBytes(resp.Body)
	if err != nil {
		return nil
	}
	r.sched.SetRobots(data)
	return data.Sitemaps
}

type sitemapEntry struct {
	Loc      string
	LastMod  time.Time
	Priority float64
}

type sitemapXML struct {
	XMLName  xml.Name
	URLs     []sitemapNode `xml:"url"`
	Sitemaps []sitemapNode `xml:"sitemap"`
}

type sitemapNode struct {
	Loc      string  `xml:"loc"`
	LastMod  string  `xml:"lastmod"`
	Priority float64 `xml:"priority"`
}

// collectEntries walks declared sitemap locations first, then falls
// back to the well-known paths when the declared set yields nothing.
// Sitemap indexes are followed up to the configured depth.
func (r *Resolver) collectEntries(ctx context.Context, base string, declared []string) []sitemapEntry {
	var entries []sitemapEntry
	seen := make(map[string]bool)
	for _, loc := range declared {
		entries = append(entries, r.walk(ctx, loc, 0, seen)...)
	}
	if len(entries) > 0 {
		return entries
	}
	for _, p := range wellKnownPaths {
		entries = append(entries, r.walk(ctx, base+p, 0, seen)...)
		if len(entries) > 0 {
			// first working well-known location wins
			break
		}
	}
	return entries
}

func (r *Resolver) walk(ctx context.Context, loc string, depth int, seen map[string]bool) []sitemapEntry {
	if depth > r.cfg.SitemapDepth || seen[loc] {
		return nil
	}
	seen[loc] = true

	resp, err := r.sched.Client().Get(ctx, loc)
	if err != nil || resp.StatusCode != 200 {
		return nil
	}
	body := maybeGunzip(resp.Body)

	var sm sitemapXML
	if err := xml.Unmarshal(body, &sm); err != nil {
		r.log.Warnf("discovery: unparseable sitemap %s: %v", loc, err)
		return nil
	}

	var entries []sitemapEntry
	if sm.XMLName.Local == "sitemapindex" {
		for _, child := range sm.Sitemaps {
			if child.Loc == "" {
				continue
			}
			entries = append(entries, r.walk(ctx, strings.TrimSpace(child.Loc), depth+1, seen)...)
		}
		return entries
	}
	for _, n := range sm.URLs {
		loc := strings.TrimSpace(n.Loc)
		if loc == "" {
			continue
		}
		entries = append(entries, sitemapEntry{
			Loc:      loc,
			LastMod:  parseLastMod(n.LastMod),
			Priority: n.Priority,
		})
	}
	return entries
}

// maybeGunzip decompresses bodies served as raw .gz files.
func maybeGunzip(body []byte) []byte {
	if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
		return body
	}
	gz, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return body
	}
	defer gz.Close()
	out, err := io.ReadAll(gz)
	if err != nil {
		return body
	}
	return out
}

func parseLastMod(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z07:00", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func baseURL(domain string) (string, error) {
	d := strings.TrimSpace(domain)
	if !strings.Contains(d, "://") {
		d = "https://" + d
	}
	u, err := url.Parse(d)
	if err != nil {
		return "", err
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimSuffix(u.String(), "/"), nil
}
