package answer

import (
	"github.com/kailas-cloud/helpdesk/internal/domain/language"
	"github.com/kailas-cloud/helpdesk/internal/domain/session"
)

// Source tells where a composed answer came from.
type Source string

const (
	// SourceNone is used for canned replies.
	SourceNone Source = ""
	// SourceDirectMatch is a stored answer returned verbatim.
	SourceDirectMatch Source = "direct_match"
	// SourceCompletion is text produced by the completion service.
	SourceCompletion Source = "completion"
	// SourceFallback is the top stored answer used when the completion gave nothing usable.
	SourceFallback Source = "kb_fallback"
)

// Result is a composed reply.
type Result struct {
	Answer           string
	Language         language.Language
	Stage            session.Stage
	NeedsEscalation  bool
	EscalationReason session.EscalationReason
	// Confidence is the top candidate score; zero when no candidate was used.
	Confidence float64
	Source     Source
}

func escalated(text string, lang language.Language, reason session.EscalationReason) Result {
	return Result{
		Answer:           text,
		Language:         lang,
		Stage:            session.StageEscalated,
		NeedsEscalation:  true,
		EscalationReason: reason,
	}
}
