package analyzer

import "github.com/kailas-cloud/helpdesk/internal/domain/language"

const (
	// exactWeight is added for identical tokens.
	exactWeight = 1.0
	// prefixWeight is added for near-identical tokens sharing aligned characters.
	prefixWeight = 0.5
	// prefixMinLen is the minimum length (in runes) of both tokens for a partial match.
	prefixMinLen = 4
	// prefixRatio is the share of the shorter token's positions that must agree.
	prefixRatio = 0.7
)

// Similarity normalizes both texts and scores their bag-of-words overlap.
func (a *Analyzer) Similarity(q1, q2 string, lang1, lang2 language.Language) float64 {
	return Score(a.Tokens(q1, lang1), a.Tokens(q2, lang2))
}

// Score accumulates over all token pairs: 1.0 for equal tokens, 0.5 for tokens of length >= 4
// whose position-aligned characters agree on at least 70% of the shorter one. The total is
// divided by the larger bag size.
//
// This is not a metric: a token can count towards several pairs, so the score may exceed 1.0
// and the triangle inequality does not hold. Callers rely on the exact thresholds built on it.
func Score(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	ra := toRunes(a)
	rb := toRunes(b)

	total := 0.0
	for i, wa := range a {
		for j, wb := range b {
			if wa == wb {
				total += exactWeight
				continue
			}
			if alignedMatch(ra[i], rb[j]) {
				total += prefixWeight
			}
		}
	}
	return total / float64(max(len(a), len(b)))
}

func alignedMatch(a, b []rune) bool {
	if len(a) < prefixMinLen || len(b) < prefixMinLen {
		return false
	}
	shorter := min(len(a), len(b))
	common := 0
	for i := 0; i < shorter; i++ {
		if a[i] == b[i] {
			common++
		}
	}
	return float64(common) >= float64(shorter)*prefixRatio
}

func toRunes(words []string) [][]rune {
	out := make([][]rune, len(words))
	for i, w := range words {
		out[i] = []rune(w)
	}
	return out
}
