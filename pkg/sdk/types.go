package helpdesk

// Answer is the reply to a single question.
type Answer struct {
	Answer           string   `json:"answer"`
	Language         string   `json:"language"`
	NeedsEscalation  bool     `json:"needs_escalation"`
	EscalationReason string   `json:"escalation_reason,omitempty"`
	Confidence       *float64 `json:"confidence,omitempty"`
	Source           string   `json:"source,omitempty"`
}

// Escalated reports whether the question should be handed to a human operator.
func (a Answer) Escalated() bool { return a.NeedsEscalation }

// ChatReply is the reply to one conversation turn.
type ChatReply struct {
	SessionID    string `json:"session_id"`
	SessionStage string `json:"session_stage"`
	Answer
}

// Session stages reported by the server.
const (
	StageGreeting  = "greeting"
	StageAnswered  = "answered"
	StageEscalated = "escalated"
	StageCompleted = "completed"
)

// Closed reports whether the server ended the conversation on this turn.
func (r ChatReply) Closed() bool { return r.SessionStage == StageCompleted }

// HealthStatus represents the aggregated service health.
type HealthStatus struct {
	Status         string            `json:"status"` // "ok", "degraded"
	KBLoaded       bool              `json:"kb_loaded"`
	KBRecords      int               `json:"kb_records"`
	ActiveSessions int               `json:"active_sessions"`
	Checks         map[string]string `json:"checks"` // component -> "ok"/"error"
}

type askRequest struct {
	Question string `json:"question"`
}

type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Question  string `json:"question"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
