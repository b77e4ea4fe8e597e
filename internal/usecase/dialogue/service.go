package dialogue

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdesk/internal/domain"
	"github.com/kailas-cloud/helpdesk/internal/domain/language"
	"github.com/kailas-cloud/helpdesk/internal/domain/lexicon"
	"github.com/kailas-cloud/helpdesk/internal/domain/session"
	"github.com/kailas-cloud/helpdesk/internal/logger"
	"github.com/kailas-cloud/helpdesk/internal/metrics"
	"github.com/kailas-cloud/helpdesk/internal/usecase/answer"
)

// Reply is the outcome of one question.
type Reply struct {
	SessionID string
	answer.Result
	// Detected is the language detected for this message.
	Detected language.Language
}

// Service runs stateless questions and session-aware conversations.
type Service struct {
	detector Detector
	ranker   Ranker
	composer Composer
	sessions SessionStore
	lex      *lexicon.Lexicon
	logger   *zap.Logger
}

// New creates a dialogue Service.
func New(
	detector Detector,
	ranker Ranker,
	composer Composer,
	sessions SessionStore,
	lex *lexicon.Lexicon,
	logger *zap.Logger,
) *Service {
	return &Service{
		detector: detector,
		ranker:   ranker,
		composer: composer,
		sessions: sessions,
		lex:      lex,
		logger:   logger,
	}
}

// Ask answers a single question without session tracking.
func (s *Service) Ask(ctx context.Context, question string) (Reply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Reply{}, domain.ErrEmptyQuestion
	}

	lang := s.detector.Detect(question)
	res := s.compose(ctx, question, lang)
	s.observe(ctx, "", res)
	return Reply{Result: res, Detected: lang}, nil
}

// Chat handles one message of the conversation id.
//
// The first message of an unseen id only creates the session and returns a greeting.
// Later messages close the session on a completion keyword, escalate on an escalation
// keyword, and otherwise get a composed answer. An escalated session does no further
// matching until it is closed or evicted.
func (s *Service) Chat(ctx context.Context, id, question string) (Reply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Reply{}, domain.ErrEmptyQuestion
	}
	if id == "" {
		return Reply{}, domain.ErrInvalidRequest
	}

	detected := s.detector.Detect(question)
	sess, created := s.sessions.Begin(id, detected)
	lang := sess.Language
	msgs := s.lex.Messages(lang)
	reply := Reply{SessionID: id, Detected: detected}

	if created {
		reply.Result = answer.Result{Answer: msgs.Greeting, Language: lang.Answer(), Stage: session.StageGreeting}
		return reply, nil
	}

	text := strings.ToLower(question)
	switch {
	case containsAny(text, s.lex.CompletionKeywords(lang)):
		s.sessions.Delete(id)
		reply.Result = answer.Result{Answer: msgs.Closing, Language: lang.Answer(), Stage: session.StageCompleted}
		return reply, nil

	case sess.Stage == session.StageEscalated:
		reply.Result = answer.Result{
			Answer:          msgs.AwaitingOperator,
			Language:        lang.Answer(),
			Stage:           session.StageEscalated,
			NeedsEscalation: true,
		}
		return reply, nil

	case containsAny(text, s.lex.EscalationKeywords(lang)):
		s.sessions.SetStage(id, session.StageEscalated)
		reply.Result = answer.Result{
			Answer:           msgs.Handoff,
			Language:         lang.Answer(),
			Stage:            session.StageEscalated,
			NeedsEscalation:  true,
			EscalationReason: session.ReasonUserRequest,
		}
		s.observe(ctx, id, reply.Result)
		return reply, nil
	}

	reply.Result = s.compose(ctx, question, detected)
	// The session may have been closed or evicted while the completion was running.
	s.sessions.SetStage(id, reply.Stage)
	s.observe(ctx, id, reply.Result)
	return reply, nil
}

// End closes a conversation. Returns false if it was not tracked.
func (s *Service) End(id string) bool {
	return s.sessions.Delete(id)
}

// ActiveSessions returns the number of tracked conversations.
func (s *Service) ActiveSessions() int {
	return s.sessions.Len()
}

// compose ranks and composes. A missing knowledge base degrades to an empty ranking.
func (s *Service) compose(ctx context.Context, question string, lang language.Language) answer.Result {
	ranked, err := s.ranker.Rank(ctx, question, lang)
	if err != nil {
		if !errors.Is(err, domain.ErrKnowledgeBaseUnavailable) {
			s.log(ctx).Error("Ranking failed", zap.Error(err))
		} else {
			s.log(ctx).Warn("Knowledge base not loaded, answering without candidates")
		}
		ranked = nil
	}
	return s.composer.Compose(ctx, question, lang, ranked)
}

func (s *Service) observe(ctx context.Context, id string, res answer.Result) {
	if !res.NeedsEscalation {
		return
	}
	metrics.EscalationsTotal.WithLabelValues(string(res.EscalationReason)).Inc()
	s.log(ctx).Info("Escalating to operator",
		zap.String("session_id", id),
		zap.String("reason", string(res.EscalationReason)),
	)
}

func (s *Service) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(text, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
