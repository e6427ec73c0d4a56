
package extractor

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"seolens-go-analyzer/internal/models"
)

// extractStructured collects schema.org records from JSON-LD blocks
// and microdata attributes. Malformed blocks are skipped silently.
func extractStructured(gq *goquery.Document) []models.StructuredRecord {
	var records []models.StructuredRecord
	records = append(records, extractJSONLD(gq)...)
	records = append(records, extractMicrodata(gq)...)
	return records
}

func extractJSONLD(gq *goquery.Document) []models.StructuredRecord {
	var records []models.StructuredRecord
	gq.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return
		}
		for _, node := range flattenLD(payload) {
			if rec, ok := ldRecord(node); ok {
				records = append(records, rec)
			}
		}
	})
	return records
}

// flattenLD expands top-level arrays and @graph containers into
// individual nodes.
func flattenLD(payload any) []map[string]any {
	var nodes []map[string]any
	switch v := payload.(type) {
	case []any:
		for _, item := range v {
			nodes = append(nodes, flattenLD(item)...)
		}
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				nodes = append(nodes, flattenLD(item)...)
			}
			return nodes
		}
		nodes = append(nodes, v)
	}
	return nodes
}

func ldRecord(node map[string]any) (models.StructuredRecord, bool) {
	typ := ldType(node["@type"])
	if typ == "" {
		return models.StructuredRecord{}, false
	}
	return models.StructuredRecord{
		Type:   typ,
		Source: "json-ld",
		Raw:    node,
	}, true
}

// ldType handles both string and multi-type @type values.
func ldType(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

func extractMicrodata(gq *goquery.Document) []models.StructuredRecord {
	var records []models.StructuredRecord
	gq.Find("[itemscope][itemtype]").Each(func(_ int, scope *goquery.Selection) {
		itemtype := scope.AttrOr("itemtype", "")
		typ := itemtype[strings.LastIndexByte(itemtype, '/')+1:]
		if typ == "" {
			return
		}
		props := map[string]string{}
		scope.Find("[itemprop]").Each(func(_ int, s *goquery.Selection) {
			name := s.AttrOr("itemprop", "")
			if name == "" {
				return
			}
			value := s.AttrOr("content", "")
			if value == "" {
				value = strings.TrimSpace(s.Text())
			}
			if value == "" {
				value = s.AttrOr("href", s.AttrOr("src", ""))
			}
			if value != "" {
				if _, dup := props[name]; !dup {
					props[name] = value
				}
			}
		})
		records = append(records, models.StructuredRecord{
			Type:       typ,
			Source:     "microdata",
			Properties: props,
		})
	})
	return records
}
