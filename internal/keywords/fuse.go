
package keywords

import (
	"sort"

	"seolens-go-analyzer/internal/models"
)

// Fuse merges the outputs of both extractors into one deduplicated
// list. Exact matches (after normalization) are unified first, then a
// semantic pass collapses terms whose embeddings exceed the similarity
// threshold, keeping the higher-scored survivor with both sources
// recorded. Fusing an already-fused list is a no-op.
func Fuse(statistical, embedding []models.CandidateKeyword, similarityThreshold float64) []models.CandidateKeyword {
	byTerm := map[string]*models.CandidateKeyword{}
	order := []string{}
	for _, list := range [][]models.CandidateKeyword{statistical, embedding} {
		for _, cand := range list {
			term := normalizeTerm(cand.Term)
			if term == "" {
				continue
			}
			existing, ok := byTerm[term]
			if !ok {
				c := cand
				c.Term = term
				byTerm[term] = &c
				order = append(order, term)
				continue
			}
			existing.Sources = mergeSources(existing.Sources, cand.Sources)
			if cand.RawScore > existing.RawScore {
				existing.RawScore = cand.RawScore
			}
			existing.Positions = mergePositions(existing.Positions, cand.Positions)
		}
	}

	merged := make([]models.CandidateKeyword, 0, len(order))
	for _, term := range order {
		merged = append(merged, *byTerm[term])
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].RawScore != merged[j].RawScore {
			return merged[i].RawScore > merged[j].RawScore
		}
		return merged[i].Term < merged[j].Term
	})

	// semantic dedup: higher-ranked terms absorb near-duplicates
	vecs := make([]Vector, len(merged))
	for i, c := range merged {
		vecs[i] = Embed(c.Term)
	}
	kept := merged[:0]
	keptVecs := vecs[:0]
	for i, cand := range merged {
		dup := false
		for j, surv := range kept {
			if Cosine(vecs[i], keptVecs[j]) >= similarityThreshold {
				kept[j].Sources = mergeSources(surv.Sources, cand.Sources)
				kept[j].Positions = mergePositions(surv.Positions, cand.Positions)
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, cand)
			keptVecs = append(keptVecs, vecs[i])
		}
	}
	return kept
}

func mergeSources(a, b []models.Algorithm) []models.Algorithm {
	seen := map[models.Algorithm]bool{}
	var out []models.Algorithm
	for _, s := range append(append([]models.Algorithm{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func mergePositions(a, b []int) []int {
	seen := map[int]bool{}
	var out []int
	for _, p := range append(append([]int{}, a...), b...) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}
