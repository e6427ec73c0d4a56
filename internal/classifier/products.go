
package classifier

import (
	"strconv"
	"strings"

	"seolens-go-analyzer/internal/models"
)

const maxProductsPerPage = 20

// ExtractProducts pulls product items out of schema.org records. Both
// JSON-LD and microdata Product records are honored; duplicates by
// name are collapsed.
func ExtractProducts(records []models.StructuredRecord) []models.Product {
	var products []models.Product
	seen := map[string]bool{}
	for _, rec := range records {
		if rec.Type != "Product" {
			continue
		}
		p := productFromRecord(rec)
		if p.Name == "" {
			continue
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		products = append(products, p)
		if len(products) >= maxProductsPerPage {
			break
		}
	}
	return products
}

func productFromRecord(rec models.StructuredRecord) models.Product {
	p := models.Product{
		Name:     recordString(rec, "name"),
		Category: recordString(rec, "category"),
	}

	switch b := rec.Raw["brand"].(type) {
	case string:
		p.Brand = strings.TrimSpace(b)
	case map[string]any:
		if name, ok := b["name"].(string); ok {
			p.Brand = strings.TrimSpace(name)
		}
	default:
		p.Brand = strings.TrimSpace(rec.Properties["brand"])
	}

	price, currency := offerPrice(rec)
	p.Price = price
	p.Currency = currency
	return p
}

// offerPrice digs the price out of the offers node, which schema.org
// allows as a single offer, a list or an aggregate.
func offerPrice(rec models.StructuredRecord) (float64, string) {
	if rec.Raw != nil {
		switch offers := rec.Raw["offers"].(type) {
		case map[string]any:
			return priceFields(offers)
		case []any:
			for _, o := range offers {
				if m, ok := o.(map[string]any); ok {
					if price, cur := priceFields(m); price > 0 {
						return price, cur
					}
				}
			}
		}
	}
	price := parsePrice(rec.Properties["price"])
	return price, strings.TrimSpace(rec.Properties["priceCurrency"])
}

func priceFields(offer map[string]any) (float64, string) {
	var price float64
	switch v := offer["price"].(type) {
	case float64:
		price = v
	case string:
		price = parsePrice(v)
	}
	if price == 0 {
		if v, ok := offer["lowPrice"].(float64); ok {
			price = v
		}
	}
	currency, _ := offer["priceCurrency"].(string)
	return price, strings.TrimSpace(currency)
}

func parsePrice(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
