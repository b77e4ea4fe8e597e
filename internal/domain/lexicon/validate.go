package lexicon

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/helpdesk/internal/domain/language"
)

func (f *file) validate() error {
	if len(f.Transliteration) == 0 {
		return errors.New("transliteration table is empty")
	}
	seen := make(map[string]struct{}, len(f.Transliteration))
	for i, p := range f.Transliteration {
		key := strings.ToLower(strings.TrimSpace(p.Latin))
		if key == "" || p.Native == "" {
			return fmt.Errorf("transliteration[%d]: latin and native are required", i)
		}
		if key != p.Latin {
			return fmt.Errorf("transliteration[%d]: key %q must be lowercase and trimmed", i, p.Latin)
		}
		if !isLatinPhrase(key) {
			return fmt.Errorf("transliteration[%d]: key %q must be Latin letters only", i, p.Latin)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("transliteration: duplicate key %q", key)
		}
		seen[key] = struct{}{}
	}

	for lang := range f.Languages {
		if !lang.IsValid() {
			return fmt.Errorf("languages: unknown language %q", lang)
		}
	}

	for _, lang := range []language.Language{language.Primary, language.Secondary} {
		t, ok := f.Languages[lang]
		if !ok {
			return fmt.Errorf("languages.%s is required", lang)
		}
		if err := validateSynonyms(lang, t.Synonyms); err != nil {
			return err
		}
		if err := validateMessages(lang, t.Messages); err != nil {
			return err
		}
	}

	if t, ok := f.Languages[language.PrimaryTranslit]; ok && len(t.Synonyms) > 0 {
		return fmt.Errorf("languages.%s: synonyms are not allowed, transliterated text uses %s tables",
			language.PrimaryTranslit, language.Primary)
	}
	return nil
}

func validateSynonyms(lang language.Language, groups []SynonymGroup) error {
	seen := make(map[string]struct{}, len(groups))
	for i, g := range groups {
		if g.Term == "" {
			return fmt.Errorf("languages.%s.synonyms[%d]: term is required", lang, i)
		}
		if len(g.Synonyms) == 0 {
			return fmt.Errorf("languages.%s.synonyms[%d]: group %q is empty", lang, i, g.Term)
		}
		if _, dup := seen[g.Term]; dup {
			return fmt.Errorf("languages.%s.synonyms: duplicate term %q", lang, g.Term)
		}
		seen[g.Term] = struct{}{}
		if hasCyrillic(g.Term) != lang.IsPrimaryFamily() {
			return fmt.Errorf("languages.%s.synonyms: term %q is not written in the %s script", lang, g.Term, lang)
		}
	}
	return nil
}

func validateMessages(lang language.Language, m Messages) error {
	required := map[string]string{
		"greeting":          m.Greeting,
		"closing":           m.Closing,
		"handoff":           m.Handoff,
		"no_match":          m.NoMatch,
		"no_precise_answer": m.NoPreciseAnswer,
		"follow_up":         m.FollowUp,
		"apology":           m.Apology,
		"awaiting_operator": m.AwaitingOperator,
	}
	for name, v := range required {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("languages.%s.messages.%s is required", lang, name)
		}
	}
	return nil
}

func isLatinPhrase(s string) bool {
	for _, r := range s {
		if r == ' ' {
			continue
		}
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func hasCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}
