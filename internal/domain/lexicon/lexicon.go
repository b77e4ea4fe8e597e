// Package lexicon holds the immutable language tables used for matching and dialogue:
// transliteration, synonyms, stopwords, dialogue keywords and canned messages.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/helpdesk/internal/domain"
	"github.com/kailas-cloud/helpdesk/internal/domain/language"
)

//go:embed lexicon.yaml
var defaultData []byte

// Pair maps a Latin token (letter cluster, word or phrase) to its Cyrillic form.
type Pair struct {
	Latin  string `yaml:"latin"`
	Native string `yaml:"native"`
}

// SynonymGroup is a canonical term with its synonyms.
type SynonymGroup struct {
	Term     string   `yaml:"term"`
	Synonyms []string `yaml:"synonyms"`
}

// Words returns the canonical term followed by all synonyms.
func (g SynonymGroup) Words() []string {
	words := make([]string, 0, len(g.Synonyms)+1)
	words = append(words, g.Term)
	return append(words, g.Synonyms...)
}

// Messages holds the canned replies for one answer language.
type Messages struct {
	Greeting         string `yaml:"greeting"`
	Closing          string `yaml:"closing"`
	Handoff          string `yaml:"handoff"`
	NoMatch          string `yaml:"no_match"`
	NoPreciseAnswer  string `yaml:"no_precise_answer"`
	FollowUp         string `yaml:"follow_up"`
	Apology          string `yaml:"apology"`
	AwaitingOperator string `yaml:"awaiting_operator"`
}

type table struct {
	Synonyms           []SynonymGroup `yaml:"synonyms"`
	Stopwords          []string       `yaml:"stopwords"`
	CompletionKeywords []string       `yaml:"completion_keywords"`
	EscalationKeywords []string       `yaml:"escalation_keywords"`
	Messages           Messages       `yaml:"messages"`
}

type file struct {
	Transliteration []Pair                      `yaml:"transliteration"`
	NoAnswerMarkers []string                    `yaml:"no_answer_markers"`
	Languages       map[language.Language]table `yaml:"languages"`
}

// Lexicon is the validated, read-only set of language tables.
// Slices returned by accessors are shared and must not be modified.
type Lexicon struct {
	translit        []Pair
	noAnswerMarkers []string
	tables          map[language.Language]table
}

// Default returns the embedded lexicon.
func Default() (*Lexicon, error) {
	return Parse(defaultData)
}

// Load reads a lexicon from a YAML file. An empty path yields the embedded default.
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates lexicon YAML.
func Parse(data []byte) (*Lexicon, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse: %w", domain.ErrInvalidLexicon, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidLexicon, err)
	}

	translit := make([]Pair, len(f.Transliteration))
	copy(translit, f.Transliteration)
	// Longest key first so clusters and phrases win over single letters.
	sort.SliceStable(translit, func(i, j int) bool {
		return len(translit[i].Latin) > len(translit[j].Latin)
	})

	return &Lexicon{
		translit:        translit,
		noAnswerMarkers: f.NoAnswerMarkers,
		tables:          f.Languages,
	}, nil
}

// Transliteration returns the table ordered longest key first.
func (l *Lexicon) Transliteration() []Pair { return l.translit }

// NoAnswerMarkers returns phrases by which a completion signals it has no answer.
func (l *Lexicon) NoAnswerMarkers() []string { return l.noAnswerMarkers }

// Synonyms returns the synonym groups written in the script of lang.
func (l *Lexicon) Synonyms(lang language.Language) []SynonymGroup {
	return l.tables[lang.Answer()].Synonyms
}

// Stopwords returns the functional words removed during normalization.
func (l *Lexicon) Stopwords(lang language.Language) []string {
	return l.tables[lang.Answer()].Stopwords
}

// CompletionKeywords returns the phrases that close a conversation.
// The primary family also accepts the transliterated list.
func (l *Lexicon) CompletionKeywords(lang language.Language) []string {
	if !lang.IsPrimaryFamily() {
		return l.tables[language.Secondary].CompletionKeywords
	}
	return concat(
		l.tables[language.Primary].CompletionKeywords,
		l.tables[language.PrimaryTranslit].CompletionKeywords,
	)
}

// EscalationKeywords returns the phrases that request a human agent.
// The primary family also accepts the transliterated list.
func (l *Lexicon) EscalationKeywords(lang language.Language) []string {
	if !lang.IsPrimaryFamily() {
		return l.tables[language.Secondary].EscalationKeywords
	}
	return concat(
		l.tables[language.Primary].EscalationKeywords,
		l.tables[language.PrimaryTranslit].EscalationKeywords,
	)
}

// Messages returns the canned replies in the answer language of lang.
func (l *Lexicon) Messages(lang language.Language) Messages {
	return l.tables[lang.Answer()].Messages
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
