
package sitemap

import (
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"seolens-go-analyzer/internal/fetcher"
	"seolens-go-analyzer/internal/models"
)

// file extensions that never contain analyzable page content
var skipExtensions = map[string]bool{
	".pdf": true, ".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".svg": true, ".ico": true, ".css": true, ".js": true,
	".zip": true, ".gz": true, ".mp4": true, ".mp3": true, ".woff": true,
	".woff2": true, ".xml": true, ".json": true, ".txt": true,
}

// path fragments for utility pages that add noise, not content
var skipFragments = []string{
	"/wp-json", "/wp-admin", "/feed", "/cart", "/carrito", "/checkout",
	"/login", "/signin", "/register", "/account", "/cuenta", "/tag/",
	"/etiqueta/", "/author/", "/autor/", "/search", "/buscar",
	"/privacy", "/privacidad", "/terms", "/terminos", "/cookies",
}

// segment keywords that place a URL in a content category
var commerceSegments = []string{"product", "producto", "shop", "tienda", "store", "item", "catalog", "catalogo", "collection", "coleccion"}
var contentSegments = []string{"blog", "news", "noticias", "article", "articulo", "post", "guia", "guide", "recurso", "resource", "faq", "ayuda", "help"}

// relevant reports whether a sitemap URL is worth analyzing.
func relevant(loc string) bool {
	u, err := url.Parse(loc)
	if err != nil {
		return false
	}
	lower := strings.ToLower(u.Path)
	if skipExtensions[path.Ext(lower)] {
		return false
	}
	for _, frag := range skipFragments {
		if strings.Contains(lower, frag) {
			return false
		}
	}
	return true
}

// category buckets a URL by its path segments so selection can keep
// commerce and editorial pages in balance.
func category(loc string) string {
	u, err := url.Parse(loc)
	if err != nil {
		return "other"
	}
	lower := strings.ToLower(u.Path)
	for _, s := range commerceSegments {
		if strings.Contains(lower, "/"+s) {
			return "commerce"
		}
	}
	for _, s := range contentSegments {
		if strings.Contains(lower, "/"+s) {
			return "content"
		}
	}
	return "other"
}

// relevanceScore orders URLs within a category. Shallow paths,
// declared priority and recent modification all push a URL up; query
// strings push it down.
func relevanceScore(e sitemapEntry, recentWindow time.Duration) float64 {
	u, err := url.Parse(e.Loc)
	if err != nil {
		return 0
	}
	score := 1.0

	depth := strings.Count(strings.Trim(u.Path, "/"), "/")
	score -= 0.1 * float64(depth)

	if u.RawQuery != "" {
		score -= 0.2
	}
	if e.Priority > 0 {
		score += e.Priority * 0.5
	}
	if !e.LastMod.IsZero() && time.Since(e.LastMod) < recentWindow {
		score += 0.3
	}
	return score
}

// selectTargets filters, balances and caps the discovered URLs. The
// homepage always survives and leads the list.
func selectTargets(base string, entries []sitemapEntry, maxURLs int, recentWindowDays int) []models.CrawlTarget {
	recentWindow := time.Duration(recentWindowDays) * 24 * time.Hour

	byCategory := map[string][]sitemapEntry{}
	seen := map[string]bool{}
	homepage, _ := fetcher.Normalize(base + "/")
	for _, e := range entries {
		norm, err := fetcher.Normalize(e.Loc)
		if err != nil || seen[norm] || !fetcher.SameHost(norm, base) {
			continue
		}
		if norm != homepage && !relevant(norm) {
			continue
		}
		seen[norm] = true
		e.Loc = norm
		byCategory[category(norm)] = append(byCategory[category(norm)], e)
	}
	for cat := range byCategory {
		list := byCategory[cat]
		sort.SliceStable(list, func(i, j int) bool {
			return relevanceScore(list[i], recentWindow) > relevanceScore(list[j], recentWindow)
		})
	}

	targets := make([]models.CrawlTarget, 0, maxURLs)
	picked := map[string]bool{}
	if homepage != "" {
		targets = append(targets, models.CrawlTarget{URL: homepage, DiscoveredFrom: models.DiscoveredSitemap})
		picked[homepage] = true
	}

	// round-robin across categories so a huge product sitemap cannot
	// crowd out the blog
	order := []string{"commerce", "content", "other"}
	for len(targets) < maxURLs {
		advanced := false
		for _, cat := range order {
			list := byCategory[cat]
			for len(list) > 0 {
				e := list[0]
				list = list[1:]
				if picked[e.Loc] {
					continue
				}
				picked[e.Loc] = true
				t := models.CrawlTarget{
					URL:            e.Loc,
					DiscoveredFrom: models.DiscoveredSitemap,
					Priority:       e.Priority,
				}
				if !e.LastMod.IsZero() {
					lm := e.LastMod
					t.LastModified = &lm
				}
				targets = append(targets, t)
				advanced = true
				break
			}
			byCategory[cat] = list
			if len(targets) >= maxURLs {
				break
			}
		}
		if !advanced {
			break
		}
	}
	return targets
}
