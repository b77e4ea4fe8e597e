package dialogue

import (
	"context"

	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
	"github.com/kailas-cloud/helpdesk/internal/domain/language"
	"github.com/kailas-cloud/helpdesk/internal/domain/session"
	"github.com/kailas-cloud/helpdesk/internal/usecase/answer"
)

// Detector classifies the language of a message.
type Detector interface {
	Detect(text string) language.Language
}

// Ranker returns knowledge base candidates for a question, best first.
type Ranker interface {
	Rank(ctx context.Context, question string, lang language.Language) ([]kb.Scored, error)
}

// Composer builds a reply from ranked candidates.
type Composer interface {
	Compose(ctx context.Context, question string, lang language.Language, ranked []kb.Scored) answer.Result
}

// SessionStore keeps dialogue sessions.
type SessionStore interface {
	Begin(id string, lang language.Language) (session.Session, bool)
	SetStage(id string, stage session.Stage) bool
	Delete(id string) bool
	Len() int
}
