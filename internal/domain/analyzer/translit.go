package analyzer

import "strings"

// Transliterate lowercases text and replaces whole-word Latin tokens with their Cyrillic forms,
// longest keys first. Keys are Latin-only, so the function is idempotent.
func (a *Analyzer) Transliterate(text string) string {
	converted := strings.ToLower(text)
	for _, rule := range a.rules {
		converted = rule.re.ReplaceAllLiteralString(converted, rule.native)
	}
	return converted
}
