package chi

// ErrorCode is a machine-readable error code in error responses.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeUnavailable      ErrorCode = "unavailable"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Question  string `json:"question"`
}

// AnswerResponse is the body of POST /ask.
type AnswerResponse struct {
	Answer           string   `json:"answer"`
	Language         string   `json:"language"`
	NeedsEscalation  bool     `json:"needs_escalation"`
	EscalationReason string   `json:"escalation_reason,omitempty"`
	Confidence       *float64 `json:"confidence,omitempty"`
	Source           string   `json:"source,omitempty"`
}

// ChatResponse is the body of POST /chat.
type ChatResponse struct {
	SessionID    string `json:"session_id"`
	SessionStage string `json:"session_stage"`
	AnswerResponse
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status         string            `json:"status"`
	KBLoaded       bool              `json:"kb_loaded"`
	KBRecords      int               `json:"kb_records"`
	ActiveSessions int               `json:"active_sessions"`
	Checks         map[string]string `json:"checks"`
}
