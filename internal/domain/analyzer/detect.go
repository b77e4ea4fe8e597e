package analyzer

import (
	"unicode/utf8"

	"github.com/kailas-cloud/helpdesk/internal/domain/language"
)

// translitDensity is the share of the original text length that must turn Cyrillic
// after transliteration for Latin input to count as transliterated Russian.
const translitDensity = 0.3

// Detect classifies raw text.
// Azerbaijani diacritics win, then Cyrillic, then transliteration density.
// Anything else defaults to Secondary: this is a business policy for the user base,
// not a confident detection.
func (a *Analyzer) Detect(text string) language.Language {
	if countRunes(text, isSecondaryLetter) > 0 {
		return language.Secondary
	}
	if countRunes(text, isPrimaryLetter) > 0 {
		return language.Primary
	}

	converted := a.Transliterate(text)
	if float64(countRunes(converted, isPrimaryLetter)) > float64(utf8.RuneCountInString(text))*translitDensity {
		return language.PrimaryTranslit
	}
	return language.Secondary
}

func isPrimaryLetter(r rune) bool {
	return (r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я') || r == 'ё' || r == 'Ё'
}

func isSecondaryLetter(r rune) bool {
	switch r {
	case 'ə', 'Ə', 'ı', 'İ', 'ü', 'Ü', 'ğ', 'Ğ', 'ö', 'Ö', 'ç', 'Ç', 'ş', 'Ş':
		return true
	}
	return false
}

func countRunes(s string, pred func(rune) bool) int {
	n := 0
	for _, r := range s {
		if pred(r) {
			n++
		}
	}
	return n
}
