package rankcache

import (
	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
	"github.com/kailas-cloud/helpdesk/internal/domain/language"
)

// scoredDTO is the stored shape of a ranked record.
type scoredDTO struct {
	ID                string  `json:"id"`
	QuestionPrimary   string  `json:"q_ru,omitempty"`
	QuestionSecondary string  `json:"q_az,omitempty"`
	AnswerPrimary     string  `json:"a_ru,omitempty"`
	AnswerSecondary   string  `json:"a_az,omitempty"`
	Project           string  `json:"project,omitempty"`
	Score             float64 `json:"score"`
	MatchedLanguage   string  `json:"matched"`
}

func toDTO(items []kb.Scored) []scoredDTO {
	out := make([]scoredDTO, len(items))
	for i := range items {
		s := &items[i]
		out[i] = scoredDTO{
			ID:                s.ID,
			QuestionPrimary:   s.QuestionPrimary,
			QuestionSecondary: s.QuestionSecondary,
			AnswerPrimary:     s.AnswerPrimary,
			AnswerSecondary:   s.AnswerSecondary,
			Project:           s.Project,
			Score:             s.Score,
			MatchedLanguage:   string(s.MatchedLanguage),
		}
	}
	return out
}

func fromDTO(items []scoredDTO) []kb.Scored {
	out := make([]kb.Scored, len(items))
	for i, d := range items {
		out[i] = kb.Scored{
			Record: kb.Record{
				ID:                d.ID,
				QuestionPrimary:   d.QuestionPrimary,
				QuestionSecondary: d.QuestionSecondary,
				AnswerPrimary:     d.AnswerPrimary,
				AnswerSecondary:   d.AnswerSecondary,
				Project:           d.Project,
			},
			Score:           d.Score,
			MatchedLanguage: language.Language(d.MatchedLanguage),
		}
	}
	return out
}
