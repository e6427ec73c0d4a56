
// Package classifier derives page type, audience, intent, sector and
// brand identity from a PageDocument using deterministic rules.
package classifier

import (
	"net/url"
	"regexp"
	"strings"

	"seolens-go-analyzer/internal/config"
	"seolens-go-analyzer/internal/models"
)

type Classifier struct {
	cfg config.ClassifyConfig
}

func New(cfg config.ClassifyConfig) *Classifier { return &Classifier{cfg: cfg} }

var priceRe = regexp.MustCompile(`[$€£₹]\s?\d|[\d.,]+\s*(€|eur|usd|euros?|pesos?)`)
var cartRe = regexp.MustCompile(`(?i)add\s+to\s+cart|buy\s+now|checkout|añadir\s+al\s+carrito|comprar\s+ahora|finalizar\s+compra`)
var articleRe = regexp.MustCompile(`(?i)author|byline|published|updated|minutes?\s+read|publicado|actualizado|min\s+de\s+lectura`)

var commercePathRe = regexp.MustCompile(`/(product|producto|shop|tienda|store|item|catalogo|catalog|collection|coleccion)s?(/|$)`)
var contentPathRe = regexp.MustCompile(`/(blog|news|noticias|article|articulo|post|guia|guide|recurso|resource)s?(/|$)`)

// Classify applies every rule family to a document. The same document
// always yields the same classification.
func (c *Classifier) Classify(doc models.PageDocument) models.Classification {
	text := strings.ToLower(doc.Title + " " + doc.MetaDescription + " " +
		strings.Join(doc.Headings.H1, " ") + " " + strings.Join(doc.Headings.H2, " ") + " " +
		doc.MainText)

	products := ExtractProducts(doc.StructuredData)
	commerce := c.commerceScore(doc, text, len(products))
	content := c.contentScore(doc, text)

	cls := models.Classification{
		PageType: c.pageType(commerce, content),
		Audience: audiences(text),
		Sector:   sector(text),
		Products: products,
		Brand:    brand(doc),
	}
	cls.Intent = intent(text, cls.PageType)
	return cls
}

// commerceScore is the fraction of commerce signal families present.
func (c *Classifier) commerceScore(doc models.PageDocument, text string, productCount int) float64 {
	hits := 0
	if priceRe.MatchString(text) {
		hits++
	}
	if cartRe.MatchString(text) {
		hits++
	}
	if productCount > 0 {
		hits += 2
	}
	for _, rec := range doc.StructuredData {
		if rec.Type == "Offer" || rec.Type == "AggregateOffer" || rec.Type == "ItemList" {
			hits++
			break
		}
	}
	if strings.Contains(strings.ToLower(doc.OpenGraph["type"]), "product") {
		hits++
	}
	if u, err := url.Parse(doc.URL); err == nil && commercePathRe.MatchString(strings.ToLower(u.Path)) {
		hits++
	}
	return clamp01(float64(hits) / 5)
}

// contentScore is the fraction of editorial signal families present.
func (c *Classifier) contentScore(doc models.PageDocument, text string) float64 {
	hits := 0
	if articleRe.MatchString(text) {
		hits++
	}
	ogType := strings.ToLower(doc.OpenGraph["type"])
	if strings.Contains(ogType, "article") || strings.Contains(ogType, "blog") {
		hits++
	}
	for _, rec := range doc.StructuredData {
		switch rec.Type {
		case "Article", "BlogPosting", "NewsArticle", "TechArticle", "FAQPage", "HowTo":
			hits += 2
		}
	}
	if u, err := url.Parse(doc.URL); err == nil && contentPathRe.MatchString(strings.ToLower(u.Path)) {
		hits++
	}
	if doc.WordCount >= 600 {
		hits++
	}
	return clamp01(float64(hits) / 5)
}

// pageType resolves the two scores against the configured thresholds.
// Commerce needs to clear its threshold and win by more than the mixed
// margin; content only needs to win by the margin; anything closer, or
// a weak commerce lead, is mixed.
func (c *Classifier) pageType(commerce, content float64) models.PageType {
	switch {
	case commerce-content > c.cfg.MixedMargin && commerce > c.cfg.CommerceThreshold:
		return models.TypeCommerce
	case content-commerce > c.cfg.MixedMargin:
		return models.TypeContent
	default:
		return models.TypeMixed
	}
}

func audiences(text string) []string {
	var tags []string
	for _, tag := range []string{"b2b", "b2c", "profesionales"} {
		if countMatches(text, audienceLexicons[tag]) >= 2 {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		tags = []string{"general"}
	}
	return tags
}

func intent(text string, pt models.PageType) models.Intent {
	commercial := countMatches(text, intentLexicons["commercial"])
	consideration := countMatches(text, intentLexicons["consideration"])
	informational := countMatches(text, intentLexicons["informational"])

	switch {
	case commercial > consideration && commercial > informational:
		return models.IntentCommercial
	case consideration > informational:
		return models.IntentConsideration
	case informational > 0:
		return models.IntentInformational
	}
	// no markers at all: fall back to the page type
	if pt == models.TypeCommerce {
		return models.IntentCommercial
	}
	return models.IntentInformational
}

// sector picks the lexicon with the most distinct matches, requiring a
// minimum of three so thin evidence stays unlabeled.
func sector(text string) string {
	best, bestHits := "", 0
	for name, terms := range sectorLexicons {
		hits := countMatches(text, terms)
		if hits > bestHits || (hits == bestHits && hits > 0 && name < best) {
			best, bestHits = name, hits
		}
	}
	if bestHits < 3 {
		return ""
	}
	return best
}

// SectorTerms exposes the lexicon for a sector so scoring can reuse
// it. Returns nil for unknown sectors.
func SectorTerms(name string) []string {
	return sectorLexicons[name]
}

// brand resolves the site's brand name from the strongest available
// source: Organization markup, og:site_name, then a title suffix.
func brand(doc models.PageDocument) models.BrandInfo {
	info := models.BrandInfo{}
	if u, err := url.Parse(doc.URL); err == nil {
		info.Domain = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	}
	for _, rec := range doc.StructuredData {
		if rec.Type != "Organization" && rec.Type != "Corporation" && rec.Type != "LocalBusiness" {
			continue
		}
		if name := recordString(rec, "name"); name != "" {
			info.Name = name
			info.Confidence = 0.9
			return info
		}
	}
	if site := strings.TrimSpace(doc.OpenGraph["site_name"]); site != "" {
		info.Name = site
		info.Confidence = 0.8
		return info
	}
	if name := titleBrand(doc.Title); name != "" {
		info.Name = name
		info.Confidence = 0.5
		return info
	}
	if info.Domain != "" {
		if i := strings.IndexByte(info.Domain, '.'); i > 0 {
			info.Name = info.Domain[:i]
			info.Confidence = 0.3
		}
	}
	return info
}

// titleBrand takes the trailing segment of a "Page | Brand" style
// title.
func titleBrand(title string) string {
	for _, sep := range []string{" | ", " – ", " — ", " - "} {
		if i := strings.LastIndex(title, sep); i >= 0 {
			if tail := strings.TrimSpace(title[i+len(sep):]); tail != "" && len(strings.Fields(tail)) <= 4 {
				return tail
			}
		}
	}
	return ""
}

func recordString(rec models.StructuredRecord, key string) string {
	if rec.Raw != nil {
		if s, ok := rec.Raw[key].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return strings.TrimSpace(rec.Properties[key])
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
