package kb

import "github.com/kailas-cloud/helpdesk/internal/domain/language"

// Record is a knowledge base question/answer pair in both answer languages.
type Record struct {
	ID                string
	QuestionPrimary   string
	QuestionSecondary string
	AnswerPrimary     string
	AnswerSecondary   string
	Project           string
}

// Valid reports whether the record has at least one question and one answer.
func (r *Record) Valid() bool {
	return (r.QuestionPrimary != "" || r.QuestionSecondary != "") &&
		(r.AnswerPrimary != "" || r.AnswerSecondary != "")
}

// Question returns the question in the answer language of lang.
func (r *Record) Question(lang language.Language) string {
	if lang.Answer() == language.Secondary {
		return r.QuestionSecondary
	}
	return r.QuestionPrimary
}

// Answer returns the answer in the answer language of lang,
// falling back to the other language when that field is empty.
func (r *Record) Answer(lang language.Language) string {
	if lang.Answer() == language.Secondary {
		if r.AnswerSecondary != "" {
			return r.AnswerSecondary
		}
		return r.AnswerPrimary
	}
	if r.AnswerPrimary != "" {
		return r.AnswerPrimary
	}
	return r.AnswerSecondary
}

// Scored is a record ranked against a question.
type Scored struct {
	Record
	Score           float64
	MatchedLanguage language.Language
}
