package language

// Language is a detected input language tag.
type Language string

// Supported language tags.
const (
	// Primary is Russian written in Cyrillic.
	Primary Language = "ru"
	// Secondary is Azerbaijani (Latin script with distinguishing diacritics).
	Secondary Language = "az"
	// PrimaryTranslit is Russian typed with a Latin keyboard.
	PrimaryTranslit Language = "ru_translit"
)

// IsValid checks if the tag is one of the supported values.
func (l Language) IsValid() bool {
	return l == Primary || l == Secondary || l == PrimaryTranslit
}

// IsPrimaryFamily reports whether l is the primary language or its transliterated variant.
func (l Language) IsPrimaryFamily() bool {
	return l == Primary || l == PrimaryTranslit
}

// Answer returns the language answers are composed in.
// Only two answer languages exist: the transliterated variant resolves to Primary.
func (l Language) Answer() Language {
	if l == Secondary {
		return Secondary
	}
	return Primary
}

// Name returns the English language name used in completion prompts.
func (l Language) Name() string {
	if l.Answer() == Secondary {
		return "Azerbaijani"
	}
	return "Russian"
}

func (l Language) String() string { return string(l) }
