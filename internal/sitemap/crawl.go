
package sitemap

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"seolens-go-analyzer/internal/fetcher"
	"seolens-go-analyzer/internal/models"
)

// crawl is the fallback discovery path: a bounded breadth-first walk
// of same-domain links starting at the homepage. Used only when no
// sitemap yields URLs.
func (r *Resolver) crawl(ctx context.Context, base string, maxURLs int) ([]models.CrawlTarget, error) {
	homepage, err := fetcher.Normalize(base + "/")
	if err != nil {
		return nil, err
	}
	maxPages := r.cfg.CrawlMaxPages
	if maxPages > maxURLs {
		maxPages = maxURLs
	}

	type frontierItem struct {
		url   string
		depth int
	}
	frontier := []frontierItem{{url: homepage, depth: 0}}
	visited := map[string]bool{homepage: true}
	var targets []models.CrawlTarget

	for len(frontier) > 0 && len(targets) < maxPages {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		item := frontier[0]
		frontier = frontier[1:]
		if item.url != homepage && item.depth >= r.cfg.CrawlDepth {
			continue
		}

		res := r.sched.Fetch(ctx, item.url)
		if res.Err != nil {
			r.log.Warnf("crawl: skipping %s: %v", item.url, res.Err)
			continue
		}
		// the homepage only counts as discovered once it actually answers
		if item.url == homepage {
			targets = append(targets, models.CrawlTarget{URL: homepage, DiscoveredFrom: models.DiscoveredCrawl})
			if len(targets) >= maxPages {
				break
			}
		}
		if item.depth >= r.cfg.CrawlDepth {
			continue
		}
		for _, link := range extractLinks(res.Body, res.FinalURL) {
			norm, err := fetcher.Normalize(link)
			if err != nil || visited[norm] || !fetcher.SameHost(norm, base) || !relevant(norm) {
				continue
			}
			visited[norm] = true
			targets = append(targets, models.CrawlTarget{URL: norm, DiscoveredFrom: models.DiscoveredCrawl})
			frontier = append(frontier, frontierItem{url: norm, depth: item.depth + 1})
			if len(targets) >= maxPages {
				break
			}
		}
	}
	if len(targets) == 0 {
		return nil, ErrNoURLs
	}
	r.log.Infof("discovery: crawl fallback found %d urls under %s", len(targets), base)
	return targets, nil
}

// extractLinks pulls absolute same-page anchor targets out of an HTML
// body, resolving relative hrefs against the page URL.
func extractLinks(body []byte, pageURL string) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	pu, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "javascript:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, pu.ResolveReference(ref).String())
	})
	return links
}
