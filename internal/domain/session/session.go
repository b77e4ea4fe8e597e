package session

import (
	"time"

	"github.com/kailas-cloud/helpdesk/internal/domain/language"
)

// Stage is the dialogue stage of a conversation.
type Stage string

// Dialogue stages.
const (
	StageNone      Stage = "none"
	StageGreeting  Stage = "greeting"
	StageAnswered  Stage = "answered"
	StageEscalated Stage = "escalated"
	StageCompleted Stage = "completed"
)

// IsTerminal reports whether no further KB matching happens in this stage.
func (s Stage) IsTerminal() bool {
	return s == StageEscalated || s == StageCompleted
}

// EscalationReason explains why a conversation was handed to a human.
type EscalationReason string

// Escalation reasons.
const (
	ReasonNone           EscalationReason = ""
	ReasonUserRequest    EscalationReason = "user_request"
	ReasonNoAnswer       EscalationReason = "no_answer"
	ReasonTechnicalError EscalationReason = "technical_error"
)

// Session is the per-conversation dialogue state.
type Session struct {
	ID            string
	Stage         Stage
	Language      language.Language
	LastMessageAt time.Time
	QuestionCount int
}

// New starts a session in the greeting stage.
func New(id string, lang language.Language, now time.Time) Session {
	return Session{
		ID:            id,
		Stage:         StageGreeting,
		Language:      lang,
		LastMessageAt: now,
	}
}

// IdleSince reports whether the session has been silent for longer than timeout at now.
func (s *Session) IdleSince(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastMessageAt) > timeout
}
