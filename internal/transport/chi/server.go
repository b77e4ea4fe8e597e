package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdesk/internal/domain"
	"github.com/kailas-cloud/helpdesk/internal/logger"
	"github.com/kailas-cloud/helpdesk/internal/usecase/answer"
	"github.com/kailas-cloud/helpdesk/internal/usecase/dialogue"
	healthuc "github.com/kailas-cloud/helpdesk/internal/usecase/health"
)

// maxBodyBytes limits request bodies; questions are short.
const maxBodyBytes = 64 << 10

const indexPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Helpdesk API</title></head>
<body>
<h1>Helpdesk API</h1>
<p>Ready.</p>
<ul>
<li><a href="/health">/health</a> - readiness</li>
<li><code>POST /ask</code> - single question (JSON)</li>
<li><code>POST /chat</code> - conversation turn (JSON)</li>
<li><code>DELETE /chat/{sessionID}</code> - end conversation</li>
</ul>
</body>
</html>
`

// Dialogue answers questions and runs conversations.
type Dialogue interface {
	Ask(ctx context.Context, question string) (dialogue.Reply, error)
	Chat(ctx context.Context, sessionID, question string) (dialogue.Reply, error)
	End(sessionID string) bool
}

// HealthChecker reports service readiness.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API.
type Server struct {
	dialogue      Dialogue
	health        HealthChecker
	logger        *zap.Logger
	newSessionID  func() string
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(d Dialogue, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		dialogue:     d,
		health:       health,
		logger:       logger,
		newSessionID: uuid.NewString,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuestion, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeBadRequest),
		sentinelHandler(domain.ErrKnowledgeBaseUnavailable, http.StatusServiceUnavailable, ErrorCodeUnavailable),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Index)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Post("/ask", s.Ask)
	r.Post("/chat", s.Chat)
	r.Delete("/chat/{sessionID}", s.EndChat)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, indexPage)
}

// Ask handles POST /ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reply, err := s.dialogue.Ask(r.Context(), req.Question)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, answerToResponse(reply))
}

// Chat handles POST /chat. A missing session_id starts a new conversation.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.newSessionID()
	}

	reply, err := s.dialogue.Chat(r.Context(), sessionID, req.Question)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		SessionID:      sessionID,
		SessionStage:   string(reply.Stage),
		AnswerResponse: answerToResponse(reply),
	})
}

// EndChat handles DELETE /chat/{sessionID}. Ending an unknown session is not an error.
func (s *Server) EndChat(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !s.dialogue.End(sessionID) {
		logger.FromContextOr(r.Context(), s.logger).Debug("Session already gone", zap.String("session_id", sessionID))
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:         string(report.Status),
		KBLoaded:       report.KBLoaded,
		KBRecords:      report.KBRecords,
		ActiveSessions: report.ActiveSessions,
		Checks:         checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func answerToResponse(reply dialogue.Reply) AnswerResponse {
	resp := AnswerResponse{
		Answer:           reply.Answer,
		Language:         string(reply.Detected),
		NeedsEscalation:  reply.NeedsEscalation,
		EscalationReason: string(reply.EscalationReason),
	}
	if reply.Source != answer.SourceNone {
		c := reply.Confidence
		resp.Confidence = &c
		resp.Source = string(reply.Source)
	}
	return resp
}

// decodeBody decodes a JSON body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuestion,
		domain.ErrInvalidRequest,
		domain.ErrKnowledgeBaseUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
