
package keywords

import (
	"math"
	"sort"
	"strings"

	"seolens-go-analyzer/internal/models"
)

// Statistical ranks n-gram candidates by corpus-free signals:
// frequency, earliness in the document and presence in the title or
// headings.
type Statistical struct {
	maxNgram    int
	maxKeywords int
}

func NewStatistical(maxNgram, maxKeywords int) *Statistical {
	return &Statistical{maxNgram: maxNgram, maxKeywords: maxKeywords}
}

// Extract returns ranked candidates with raw scores normalized to
// [0,1]. An empty document yields an empty slice, never an error.
func (s *Statistical) Extract(doc models.PageDocument) []models.CandidateKeyword {
	tokens := tokenize(doc.MainText)
	if len(tokens) == 0 {
		return nil
	}
	cands := ngramCandidates(tokens, s.maxNgram)
	if len(cands) == 0 {
		return nil
	}

	titleSet := termSet(doc.Title, s.maxNgram)
	headingSet := termSet(strings.Join(doc.Headings.H1, " ")+" "+strings.Join(doc.Headings.H2, " "), s.maxNgram)

	list := make([]statCand, 0, len(cands))
	for _, c := range cands {
		// log damping keeps a single repeated term from dominating
		freq := math.Log1p(float64(c.count))
		pos := 1.0 / (1.0 + float64(c.positions[0])/100.0)
		boost := 1.0
		if titleSet[c.term] {
			boost += 1.0
		}
		if headingSet[c.term] {
			boost += 0.5
		}
		if strings.Contains(c.term, " ") {
			// favor phrases slightly; unigrams are noisier
			boost += 0.25
		}
		list = append(list, statCand{c: c, score: freq * pos * boost})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		return list[i].c.term < list[j].c.term
	})

	list = dropSubsumed(list)
	if len(list) > s.maxKeywords {
		list = list[:s.maxKeywords]
	}

	max := list[0].score
	out := make([]models.CandidateKeyword, 0, len(list))
	for _, item := range list {
		out = append(out, models.CandidateKeyword{
			Term:      item.c.term,
			Sources:   []models.Algorithm{models.AlgoStatistical},
			RawScore:  item.score / max,
			Positions: item.c.positions,
		})
	}
	return out
}

type statCand struct {
	c     *candidate
	score float64
}

// dropSubsumed removes a unigram when a higher-ranked phrase already
// contains it.
func dropSubsumed(list []statCand) []statCand {
	kept := list[:0]
	for i, item := range list {
		subsumed := false
		if !strings.Contains(item.c.term, " ") {
			for _, prev := range list[:i] {
				if strings.Contains(prev.c.term, " ") && containsWord(prev.c.term, item.c.term) {
					subsumed = true
					break
				}
			}
		}
		if !subsumed {
			kept = append(kept, item)
		}
	}
	return kept
}

func containsWord(phrase, word string) bool {
	for _, w := range strings.Fields(phrase) {
		if w == word {
			return true
		}
	}
	return false
}

// termSet enumerates the n-grams of a short string for membership
// checks.
func termSet(text string, maxN int) map[string]bool {
	set := map[string]bool{}
	for term := range ngramCandidates(tokenize(text), maxN) {
		set[term] = true
	}
	return set
}
