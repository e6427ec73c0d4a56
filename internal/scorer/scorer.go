
// Package scorer computes the final relevance score of each candidate
// keyword from five weighted signal components, then assigns buckets.
package scorer

import (
	"math"
	"sort"
	"strings"

	"seolens-go-analyzer/internal/classifier"
	"seolens-go-analyzer/internal/keywords"
	"seolens-go-analyzer/internal/models"
)

// Scorer holds a normalized weight snapshot. Construct one per
// analysis run so weight updates never affect in-flight work.
type Scorer struct {
	weights models.Weights
}

func New(w models.Weights) (*Scorer, error) {
	normalized, err := w.Normalized()
	if err != nil {
		return nil, err
	}
	return &Scorer{weights: normalized}, nil
}

const (
	positionHalfLife = 50.0
	coocWindow       = 15
	sectorBonus      = 0.05
	freqSaturation   = 10.0
)

// Score computes the weighted score of every candidate and returns
// them ordered best first. Ties break by frequency, then shorter term,
// then lexical order, so identical inputs always produce identical
// output.
func (s *Scorer) Score(doc models.PageDocument, cls models.Classification, cands []models.CandidateKeyword) []models.ScoredKeyword {
	if len(cands) == 0 {
		return nil
	}
	tokens := tokenizeWords(doc.MainText)
	sectorTerms := classifier.SectorTerms(cls.Sector)
	sectorPositions := termPositions(tokens, sectorTerms)

	var brandVec keywords.Vector
	hasBrand := cls.Brand.Name != ""
	if hasBrand {
		brandVec = keywords.Embed(cls.Brand.Name)
	}

	titleSet := wordSet(doc.Title)
	descSet := wordSet(doc.MetaDescription)
	h1Set := wordSet(strings.Join(doc.Headings.H1, " "))
	h2Set := wordSet(strings.Join(doc.Headings.H2, " "))
	h3Set := wordSet(strings.Join(doc.Headings.H3, " "))

	// top candidates participate in the co-occurrence signal
	topPositions := map[string][]int{}
	for i, c := range cands {
		if i >= 10 {
			break
		}
		topPositions[c.Term] = c.Positions
	}

	scored := make([]models.ScoredKeyword, 0, len(cands))
	for _, cand := range cands {
		count := len(cand.Positions)
		if count == 0 {
			count = 1
		}

		freq := math.Log1p(float64(count)) / math.Log1p(freqSaturation)
		if freq > 1 {
			freq = 1
		}

		// tf-idf style distinctiveness: frequent terms that still make
		// up a tiny share of the document are the interesting ones
		share := 0.0
		if len(tokens) > 0 {
			share = float64(count) / float64(len(tokens))
		}
		distinct := freq * (1 - math.Min(1, share*50))

		contextual := contextualScore(cand.Term, titleSet, descSet, h1Set, h2Set, h3Set)

		position := 0.0
		if len(cand.Positions) > 0 {
			position = 1.0 / (1.0 + float64(cand.Positions[0])/positionHalfLife)
		}

		cooc := coocScore(cand, topPositions, sectorPositions)

		brandSim := 0.0
		if hasBrand {
			brandSim = (keywords.Cosine(keywords.Embed(cand.Term), brandVec) + 1) / 2
		}

		boost := 0.0
		if matchesLexicon(cand.Term, sectorTerms) {
			boost = sectorBonus
		}

		score := s.weights.Frequency*freq +
			s.weights.TFIDF*distinct +
			s.weights.Cooccurrence*cooc +
			s.weights.PositionTitle*(0.5*contextual+0.5*position) +
			s.weights.SimilarityBrand*brandSim +
			boost
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}

		scored = append(scored, models.ScoredKeyword{
			Term:  cand.Term,
			Score: score,
			Components: models.ScoreComponents{
				Contextual:  contextual,
				Relevance:   cooc,
				Position:    position,
				Frequency:   freq,
				SectorBoost: boost,
			},
			Frequency: count,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Frequency != b.Frequency {
			return a.Frequency > b.Frequency
		}
		if len(a.Term) != len(b.Term) {
			return len(a.Term) < len(b.Term)
		}
		return a.Term < b.Term
	})
	return scored
}

// contextualScore takes the strongest placement of the term: title
// beats h1 beats h2 beats h3.
func contextualScore(term string, title, desc, h1, h2, h3 map[string]bool) float64 {
	best := 0.0
	for _, w := range strings.Fields(term) {
		switch {
		case title[w] && best < 1.0:
			best = 1.0
		case h1[w] && best < 0.8:
			best = 0.8
		case h2[w] && best < 0.6:
			best = 0.6
		case desc[w] && best < 0.5:
			best = 0.5
		case h3[w] && best < 0.4:
			best = 0.4
		}
	}
	return best
}

// coocScore measures how often a term appears near other high-ranked
// candidates or sector vocabulary.
func coocScore(cand models.CandidateKeyword, topPositions map[string][]int, sectorPositions []int) float64 {
	neighbors := 0
	total := 0
	for term, positions := range topPositions {
		if term == cand.Term {
			continue
		}
		total++
		if near(cand.Positions, positions, coocWindow) {
			neighbors++
		}
	}
	score := 0.0
	if total > 0 {
		score = float64(neighbors) / float64(total)
	}
	if near(cand.Positions, sectorPositions, coocWindow) {
		score += 0.3
	}
	if score > 1 {
		score = 1
	}
	return score
}

// near reports whether any pair of positions falls within the window.
// Both slices are sorted ascending.
func near(a, b []int, window int) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		d := a[i] - b[j]
		if d < 0 {
			d = -d
		}
		if d <= window {
			return true
		}
		if a[i] < b[j] {
			i++
		} else {
			j++
		}
	}
	return false
}

func tokenizeWords(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// termPositions finds token offsets where any single-word lexicon
// entry occurs.
func termPositions(tokens []string, terms []string) []int {
	if len(terms) == 0 {
		return nil
	}
	single := map[string]bool{}
	for _, t := range terms {
		if !strings.Contains(t, " ") {
			single[t] = true
		}
	}
	var positions []int
	for i, tok := range tokens {
		if single[strings.Trim(tok, ".,;:!?\"'()")] {
			positions = append(positions, i)
		}
	}
	return positions
}

func matchesLexicon(term string, lexicon []string) bool {
	if len(lexicon) == 0 {
		return false
	}
	for _, w := range strings.Fields(term) {
		for _, t := range lexicon {
			if w == t {
				return true
			}
		}
	}
	return false
}

func wordSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[strings.Trim(w, ".,;:!?\"'()")] = true
	}
	return set
}
