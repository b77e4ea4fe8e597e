package lexicon

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/helpdesk/internal/domain"
	"github.com/kailas-cloud/helpdesk/internal/domain/language"
)

func TestDefault_Valid(t *testing.T) {
	lex, err := Default()
	if err != nil {
		t.Fatalf("default lexicon must be valid: %v", err)
	}
	if len(lex.Transliteration()) == 0 {
		t.Fatal("expected transliteration entries")
	}
	if lex.Messages(language.Primary).Greeting == "" || lex.Messages(language.Secondary).Greeting == "" {
		t.Fatal("expected greetings for both answer languages")
	}
}

func TestTransliteration_LongestFirst(t *testing.T) {
	lex, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	pairs := lex.Transliteration()
	for i := 1; i < len(pairs); i++ {
		if len(pairs[i].Latin) > len(pairs[i-1].Latin) {
			t.Fatalf("pair %q (len %d) after %q (len %d)",
				pairs[i].Latin, len(pairs[i].Latin), pairs[i-1].Latin, len(pairs[i-1].Latin))
		}
	}
}

func TestTransliteration_StableForEqualLength(t *testing.T) {
	lex, err := Parse([]byte(minimal(`
  - {latin: ch, native: ч}
  - {latin: sh, native: ш}
  - {latin: a, native: а}`)))
	if err != nil {
		t.Fatal(err)
	}
	pairs := lex.Transliteration()
	if pairs[0].Latin != "ch" || pairs[1].Latin != "sh" || pairs[2].Latin != "a" {
		t.Errorf("unexpected order: %+v", pairs)
	}
}

func TestKeywords_PrimaryFamilyIncludesTranslit(t *testing.T) {
	lex, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	for _, lang := range []language.Language{language.Primary, language.PrimaryTranslit} {
		if !contains(lex.EscalationKeywords(lang), "оператор") || !contains(lex.EscalationKeywords(lang), "operator") {
			t.Errorf("%s: expected both Cyrillic and transliterated escalation keywords", lang)
		}
		if !contains(lex.CompletionKeywords(lang), "spasibo") {
			t.Errorf("%s: expected transliterated completion keyword", lang)
		}
	}
	if contains(lex.EscalationKeywords(language.Secondary), "оператор") {
		t.Error("az must not include Cyrillic escalation keywords")
	}
}

func TestSynonyms_ScriptTagged(t *testing.T) {
	lex, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range lex.Synonyms(language.PrimaryTranslit) {
		if !hasCyrillic(g.Term) {
			t.Errorf("ru_translit synonyms must be Cyrillic, got %q", g.Term)
		}
	}
	for _, g := range lex.Synonyms(language.Secondary) {
		if hasCyrillic(g.Term) {
			t.Errorf("az synonyms must be Latin, got %q", g.Term)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		msg  string
	}{
		{
			name: "duplicate translit key",
			data: minimal("\n  - {latin: a, native: а}\n  - {latin: a, native: я}"),
			msg:  "duplicate key",
		},
		{
			name: "non-latin translit key",
			data: minimal("\n  - {latin: ж, native: ж}"),
			msg:  "Latin letters only",
		},
		{
			name: "empty synonym group",
			data: strings.Replace(minimal("\n  - {latin: a, native: а}"),
				"synonyms: [код]", "synonyms: []", 1),
			msg: "is empty",
		},
		{
			name: "duplicate canonical term",
			data: strings.Replace(minimal("\n  - {latin: a, native: а}"),
				"      - term: пароль\n        synonyms: [код]",
				"      - term: пароль\n        synonyms: [код]\n      - term: пароль\n        synonyms: [ключ]", 1),
			msg: "duplicate term",
		},
		{
			name: "wrong script",
			data: strings.Replace(minimal("\n  - {latin: a, native: а}"),
				"term: şifrə", "term: шифр", 1),
			msg: "script",
		},
		{
			name: "missing message",
			data: strings.Replace(minimal("\n  - {latin: a, native: а}"),
				`      follow_up: "Başqa?"`, "", 1),
			msg: "follow_up",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domain.ErrInvalidLexicon) {
				t.Errorf("expected ErrInvalidLexicon, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Errorf("expected %q in error, got %q", tc.msg, err.Error())
			}
		})
	}
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	lex, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if len(lex.NoAnswerMarkers()) == 0 {
		t.Error("expected no-answer markers")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/lexicon.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// minimal builds the smallest valid lexicon around the given transliteration entries.
func minimal(translit string) string {
	return `transliteration:` + translit + `
languages:
  ru:
    synonyms:
      - term: пароль
        synonyms: [код]
    messages:
      greeting: "Здравствуйте"
      closing: "Спасибо"
      handoff: "Оператор"
      no_match: "Нет"
      no_precise_answer: "Нет точного"
      follow_up: "Еще?"
      apology: "Ошибка"
      awaiting_operator: "Ждите"
  az:
    synonyms:
      - term: şifrə
        synonyms: [parol]
    messages:
      greeting: "Salam"
      closing: "Sağ olun"
      handoff: "Operator"
      no_match: "Yox"
      no_precise_answer: "Dəqiq yox"
      follow_up: "Başqa?"
      apology: "Xəta"
      awaiting_operator: "Gözləyin"
`
}
