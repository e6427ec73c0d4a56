
// Package keywords implements dual-algorithm keyword extraction: a
// statistical ranker and an embedding-similarity ranker whose outputs
// are fused and deduplicated semantically.
package keywords

import (
	"strings"
	"unicode"
)

// stopwords covers Spanish and English function words.
var stopwords = map[string]bool{
	// spanish
	"el": true, "la": true, "los": true, "las": true, "un": true, "una": true,
	"unos": true, "unas": true, "de": true, "del": true, "al": true, "a": true,
	"en": true, "y": true, "o": true, "u": true, "que": true, "se": true,
	"su": true, "sus": true, "por": true, "para": true, "con": true, "sin": true,
	"no": true, "si": true, "es": true, "son": true, "ser": true, "está": true,
	"esta": true, "este": true, "esto": true, "estos": true, "estas": true,
	"como": true, "más": true, "mas": true, "pero": true, "sobre": true,
	"entre": true, "cuando": true, "donde": true, "también": true, "tambien": true,
	"muy": true, "ya": true, "hay": true, "fue": true, "han": true, "ha": true,
	"lo": true, "le": true, "les": true, "nos": true, "nuestro": true,
	"nuestra": true, "tu": true, "tus": true, "mi": true, "mis": true,
	// english
	"the": true, "and": true, "of": true, "to": true, "in": true, "for": true,
	"is": true, "on": true, "with": true, "as": true, "by": true, "at": true,
	"from": true, "that": true, "this": true, "it": true, "an": true, "be": true,
	"or": true, "are": true, "was": true, "will": true, "has": true,
	"have": true, "had": true, "but": true, "not": true, "your": true,
	"you": true, "we": true, "our": true, "all": true, "can": true,
	"their": true, "they": true, "its": true, "more": true, "one": true,
}

// tokenize lowercases and splits on non-letter, non-digit runes,
// keeping accented letters intact.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// candidate is an n-gram observed in the token stream.
type candidate struct {
	term      string
	count     int
	positions []int
}

// ngramCandidates enumerates 1..maxN grams over the token stream.
// Unigrams must be at least three runes and not stopwords; longer
// grams reject stopwords at either edge. Positions are token offsets
// of the first gram word.
func ngramCandidates(tokens []string, maxN int) map[string]*candidate {
	out := make(map[string]*candidate)
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			gram := tokens[i : i+n]
			if !validGram(gram) {
				continue
			}
			term := strings.Join(gram, " ")
			c, ok := out[term]
			if !ok {
				c = &candidate{term: term}
				out[term] = c
			}
			c.count++
			c.positions = append(c.positions, i)
		}
	}
	return out
}

func validGram(gram []string) bool {
	if len(gram) == 1 {
		w := gram[0]
		return len([]rune(w)) >= 3 && !stopwords[w] && !isNumeric(w)
	}
	if stopwords[gram[0]] || stopwords[gram[len(gram)-1]] {
		return false
	}
	for _, w := range gram {
		if len([]rune(w)) < 2 || isNumeric(w) {
			return false
		}
	}
	return true
}

func isNumeric(w string) bool {
	for _, r := range w {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return len(w) > 0
}

// normalizeTerm is the canonical form used for exact-match fusion.
func normalizeTerm(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), " ")
}
