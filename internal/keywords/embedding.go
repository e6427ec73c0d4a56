
package keywords

import (
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"unicode"

	"seolens-go-analyzer/internal/models"
)

const embeddingDim = 256

// Vector is a dense embedding of a piece of text.
type Vector [embeddingDim]float64

// Embed maps text to a deterministic feature-hashed vector of
// character trigrams, L2-normalized. Punctuation is folded into
// whitespace first, so "café bar" and "café-bar" embed identically.
// Texts that share surface and sub-word structure land close in
// cosine space, which is what the similarity ranking and semantic
// dedup need.
func Embed(text string) Vector {
	var v Vector
	folded := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
	padded := " " + strings.Join(strings.Fields(folded), " ") + " "
	runes := []rune(padded)
	for i := 0; i+3 <= len(runes); i++ {
		h := fnv.New32a()
		h.Write([]byte(string(runes[i : i+3])))
		sum := h.Sum32()
		idx := sum % embeddingDim
		sign := 1.0
		if sum&0x80000000 != 0 {
			sign = -1.0
		}
		v[idx] += sign
	}
	return v.normalized()
}

func (v Vector) normalized() Vector {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] /= norm
	}
	return v
}

// Cosine returns the cosine similarity of two normalized vectors.
func Cosine(a, b Vector) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}

// Embedder ranks candidates by similarity to the document embedding,
// selecting a diverse subset with maximal marginal relevance.
type Embedder struct {
	maxNgram    int
	maxKeywords int
	diversity   float64
}

func NewEmbedder(maxNgram, maxKeywords int, diversity float64) *Embedder {
	return &Embedder{maxNgram: maxNgram, maxKeywords: maxKeywords, diversity: diversity}
}

// Extract embeds the document and every candidate term and picks the
// top terms by MMR. Raw scores are the document cosine similarities
// shifted into [0,1].
func (e *Embedder) Extract(doc models.PageDocument) []models.CandidateKeyword {
	context := doc.Title + " " + strings.Join(doc.Headings.H1, " ") + " " + doc.MainText
	tokens := tokenize(doc.MainText)
	cands := ngramCandidates(tokens, e.maxNgram)
	if len(cands) == 0 {
		return nil
	}
	docVec := Embed(context)

	type embCand struct {
		c   *candidate
		vec Vector
		sim float64
	}
	pool := make([]embCand, 0, len(cands))
	for _, c := range cands {
		vec := Embed(c.term)
		pool = append(pool, embCand{c: c, vec: vec, sim: Cosine(vec, docVec)})
	}
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].sim != pool[j].sim {
			return pool[i].sim > pool[j].sim
		}
		return pool[i].c.term < pool[j].c.term
	})
	// MMR only needs to consider a reasonable head of the pool
	if len(pool) > e.maxKeywords*4 {
		pool = pool[:e.maxKeywords*4]
	}

	var selected []embCand
	remaining := pool
	for len(selected) < e.maxKeywords && len(remaining) > 0 {
		bestIdx, bestScore := -1, math.Inf(-1)
		for i, cand := range remaining {
			redundancy := 0.0
			for _, s := range selected {
				if sim := Cosine(cand.vec, s.vec); sim > redundancy {
					redundancy = sim
				}
			}
			mmr := (1-e.diversity)*cand.sim - e.diversity*redundancy
			if mmr > bestScore {
				bestScore, bestIdx = mmr, i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	out := make([]models.CandidateKeyword, 0, len(selected))
	for _, s := range selected {
		out = append(out, models.CandidateKeyword{
			Term:      s.c.term,
			Sources:   []models.Algorithm{models.AlgoEmbedding},
			RawScore:  (s.sim + 1) / 2,
			Positions: s.c.positions,
		})
	}
	return out
}
