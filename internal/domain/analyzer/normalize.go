package analyzer

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/helpdesk/internal/domain/language"
)

// minTokenLen is the shortest token kept after normalization (in runes).
const minTokenLen = 3

// Normalize turns text into a canonical bag of words: lowercased, transliterated when needed,
// synonym-expanded, stopword-free, punctuation-free, deduplicated and sorted.
func (a *Analyzer) Normalize(text string, lang language.Language) string {
	return strings.Join(a.Tokens(text, lang), " ")
}

// Tokens returns the normalized bag of words as a sorted, duplicate-free slice.
func (a *Analyzer) Tokens(text string, lang language.Language) []string {
	normalized := strings.ToLower(text)
	if lang == language.PrimaryTranslit {
		normalized = a.Transliterate(normalized)
	}

	normalized = a.expandSynonyms(normalized, lang)
	normalized = removeWords(normalized, a.stopwords[lang.Answer()])
	normalized = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return ' '
	}, normalized)

	fields := strings.Fields(normalized)
	seen := make(map[string]struct{}, len(fields))
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTokenLen {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	sort.Strings(tokens)
	return tokens
}

// expandSynonyms appends every whole synonym group that has any member as a substring of text.
// Groups are checked in table order, so a later group also sees words appended by earlier ones.
func (a *Analyzer) expandSynonyms(text string, lang language.Language) string {
	var b strings.Builder
	b.WriteString(text)
	for _, group := range a.lex.Synonyms(lang) {
		words := group.Words()
		for _, w := range words {
			if strings.Contains(b.String(), w) {
				b.WriteByte(' ')
				b.WriteString(strings.Join(words, " "))
				break
			}
		}
	}
	return b.String()
}

// removeWords deletes whole words found in set. A word is a maximal run of letters, digits,
// combining marks and underscores.
func removeWords(text string, set map[string]struct{}) string {
	if len(set) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		if _, stop := set[text[start:end]]; !stop {
			b.WriteString(text[start:end])
		}
		start = -1
	}

	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
		b.WriteRune(r)
	}
	flush(len(text))
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
