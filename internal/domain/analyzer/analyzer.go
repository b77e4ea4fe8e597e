// Package analyzer implements the lexical pipeline used for matching questions:
// language detection, transliteration, normalization and bag-of-words similarity.
package analyzer

import (
	"regexp"

	"github.com/kailas-cloud/helpdesk/internal/domain/language"
	"github.com/kailas-cloud/helpdesk/internal/domain/lexicon"
)

// translitRule is a compiled whole-word transliteration substitution.
type translitRule struct {
	re     *regexp.Regexp
	native string
}

// Analyzer is safe for concurrent use; it holds only immutable data.
type Analyzer struct {
	lex       *lexicon.Lexicon
	rules     []translitRule
	stopwords map[language.Language]map[string]struct{}
}

// New compiles the lexicon tables into an Analyzer.
func New(lex *lexicon.Lexicon) *Analyzer {
	pairs := lex.Transliteration()
	rules := make([]translitRule, len(pairs))
	for i, p := range pairs {
		// \b is an ASCII word boundary in RE2, so Cyrillic neighbours count as boundaries.
		rules[i] = translitRule{
			re:     regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p.Latin) + `\b`),
			native: p.Native,
		}
	}

	stopwords := make(map[language.Language]map[string]struct{}, 2)
	for _, lang := range []language.Language{language.Primary, language.Secondary} {
		set := make(map[string]struct{})
		for _, w := range lex.Stopwords(lang) {
			set[w] = struct{}{}
		}
		stopwords[lang] = set
	}

	return &Analyzer{lex: lex, rules: rules, stopwords: stopwords}
}

// Lexicon returns the tables the analyzer was built from.
func (a *Analyzer) Lexicon() *lexicon.Lexicon { return a.lex }
