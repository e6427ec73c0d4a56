
// Package extractor turns a fetched HTML body into a structured
// PageDocument. Extraction never fails outright: whatever cannot be
// recovered is left empty and the document is flagged degraded.
package extractor

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"

	"seolens-go-analyzer/internal/fetcher"
	"seolens-go-analyzer/internal/models"
)

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

var whitespaceRe = regexp.MustCompile(`\s+`)

// Extract builds a PageDocument from a raw body. The returned document
// always carries the page URL; a body that cannot be parsed at all
// yields an empty, degraded document rather than an error.
func (e *Extractor) Extract(pageURL string, body []byte, contentType string) models.PageDocument {
	doc := models.PageDocument{URL: pageURL}

	utf8data := decodeToUTF8(body, contentType)
	gq, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		doc.Degraded = true
		return doc
	}

	doc.Title = strings.TrimSpace(gq.Find("title").First().Text())
	doc.MetaDescription = strings.TrimSpace(gq.Find(`meta[name="description"]`).AttrOr("content", ""))

	og := map[string]string{}
	gq.Find(`meta[property^="og:"]`).Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		content, _ := s.Attr("content")
		if prop != "" && content != "" {
			og[strings.TrimPrefix(prop, "og:")] = content
		}
	})
	if len(og) > 0 {
		doc.OpenGraph = og
	}
	if doc.MetaDescription == "" {
		doc.MetaDescription = og["description"]
	}

	doc.Canonical = strings.TrimSpace(gq.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	doc.Language = strings.TrimSpace(gq.Find("html").AttrOr("lang", ""))
	if doc.Language == "" {
		doc.Language = og["locale"]
	}

	doc.Headings = extractHeadings(gq)
	doc.StructuredData = extractStructured(gq)
	doc.InternalLinks, doc.ExternalLinks = extractLinks(gq, pageURL)

	doc.MainText = mainText(utf8data, pageURL, gq)
	if doc.MainText == "" {
		doc.Degraded = true
	}
	doc.WordCount = len(strings.Fields(doc.MainText))
	return doc
}

func decodeToUTF8(data []byte, contentType string) []byte {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if utf8.Valid(data) {
			return data
		}
		return nil
	}
	return out
}

func extractHeadings(gq *goquery.Document) models.Headings {
	var h models.Headings
	collect := func(sel string, dst *[]string) {
		gq.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if t := strings.TrimSpace(whitespaceRe.ReplaceAllString(s.Text(), " ")); t != "" {
				*dst = append(*dst, t)
			}
		})
	}
	collect("h1", &h.H1)
	collect("h2", &h.H2)
	collect("h3", &h.H3)
	return h
}

// mainText prefers readability's article extraction and falls back to
// joining paragraph and list text when it finds nothing.
func mainText(utf8data []byte, pageURL string, gq *goquery.Document) string {
	if u, err := url.Parse(pageURL); err == nil {
		article, err := readability.FromReader(bytes.NewReader(utf8data), u)
		if err == nil {
			if text := strings.TrimSpace(whitespaceRe.ReplaceAllString(article.TextContent, " ")); len(strings.Fields(text)) >= 20 {
				return text
			}
		}
	}

	clone := gq.Clone()
	clone.Find("script,noscript,style,nav,header,footer,aside").Remove()
	var parts []string
	clone.Find("p,li,td,blockquote").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.Join(parts, " "), " "))
	if text == "" {
		// last resort: whole body text
		text = strings.TrimSpace(whitespaceRe.ReplaceAllString(clone.Find("body").Text(), " "))
	}
	return text
}

func extractLinks(gq *goquery.Document, pageURL string) (internal, external []string) {
	pu, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil
	}
	seen := map[string]bool{}
	gq.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "javascript:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := pu.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		link := abs.String()
		if seen[link] {
			return
		}
		seen[link] = true
		if fetcher.SameHost(link, pageURL) {
			internal = append(internal, link)
		} else {
			external = append(external, link)
		}
	})
	return internal, external
}
