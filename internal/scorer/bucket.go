
package scorer

import (
	"strings"

	"seolens-go-analyzer/internal/models"
)

// generic TLD and SLD labels excluded from brand tokens
var domainLabels = map[string]bool{
	"com": true, "net": true, "org": true, "es": true, "mx": true,
	"ar": true, "co": true, "io": true, "uk": true, "shop": true,
	"online": true, "info": true, "web": true,
}

// AssignBuckets gives every scored keyword exactly one bucket: client
// for brand-matching terms, productOrPost for terms tied to this
// page's own subject, generalSeo for everything else. Idempotent for
// identical input.
func AssignBuckets(scored []models.ScoredKeyword, doc models.PageDocument, cls models.Classification) []models.ScoredKeyword {
	brandTokens := BrandTokens(cls.Brand)
	productWords := map[string]bool{}
	for _, p := range cls.Products {
		for _, w := range strings.Fields(strings.ToLower(p.Name)) {
			productWords[w] = true
		}
	}

	out := make([]models.ScoredKeyword, len(scored))
	for i, kw := range scored {
		switch {
		case matchesTokens(kw.Term, brandTokens):
			kw.Bucket = models.BucketClient
		case isPageSpecific(kw, i, productWords):
			kw.Bucket = models.BucketProductOrPost
		default:
			kw.Bucket = models.BucketGeneralSEO
		}
		out[i] = kw
	}
	return out
}

// isPageSpecific marks terms that name this page's own subject: a
// product name word, or a term anchored in the title or first heading
// among the top ranks.
func isPageSpecific(kw models.ScoredKeyword, rank int, productWords map[string]bool) bool {
	for _, w := range strings.Fields(kw.Term) {
		if productWords[w] {
			return true
		}
	}
	return rank < 5 && kw.Components.Contextual >= 0.8
}

// BrandTokens extracts the comparable word set of a brand identity:
// brand-name words plus the meaningful domain labels.
func BrandTokens(brand models.BrandInfo) map[string]bool {
	tokens := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(brand.Name)) {
		if len(w) >= 3 {
			tokens[w] = true
		}
	}
	for _, label := range strings.Split(brand.Domain, ".") {
		label = strings.ToLower(label)
		if len(label) >= 3 && !domainLabels[label] {
			tokens[label] = true
		}
	}
	return tokens
}

func matchesTokens(term string, tokens map[string]bool) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, w := range strings.Fields(term) {
		if tokens[w] {
			return true
		}
	}
	return false
}
