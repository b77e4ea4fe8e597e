package answer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
	"github.com/kailas-cloud/helpdesk/internal/domain/language"
	"github.com/kailas-cloud/helpdesk/internal/domain/lexicon"
	"github.com/kailas-cloud/helpdesk/internal/domain/session"
	"github.com/kailas-cloud/helpdesk/internal/metrics"
)

// Default composer thresholds.
const (
	DefaultDirectMatch = 0.8
	DefaultFallback    = 0.45
	DefaultContextSize = 5
	DefaultTimeout     = 30 * time.Second
)

// Config holds composer thresholds.
type Config struct {
	// DirectMatch is the exclusive score above which the top answer is returned verbatim.
	DirectMatch float64
	// Fallback is the exclusive score above which the top answer replaces an unusable completion.
	Fallback float64
	// ContextSize is the number of candidates passed to the completion service.
	ContextSize int
	// Timeout bounds a single completion call.
	Timeout time.Duration
}

// Composer turns a ranking into a reply.
type Composer struct {
	completer Completer
	lex       *lexicon.Lexicon
	cfg       Config
	logger    *zap.Logger
}

// New creates a Composer. Zero config fields take defaults.
func New(completer Completer, lex *lexicon.Lexicon, cfg Config, logger *zap.Logger) *Composer {
	if cfg.DirectMatch == 0 {
		cfg.DirectMatch = DefaultDirectMatch
	}
	if cfg.Fallback == 0 {
		cfg.Fallback = DefaultFallback
	}
	if cfg.ContextSize <= 0 {
		cfg.ContextSize = DefaultContextSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Composer{completer: completer, lex: lex, cfg: cfg, logger: logger}
}

// Compose builds the reply for question given its ranked candidates (best first).
// Completion failures never surface as errors: they degrade to a stored answer or an apology
// and escalate with ReasonTechnicalError.
func (c *Composer) Compose(ctx context.Context, question string, lang language.Language, ranked []kb.Scored) Result {
	answerLang := lang.Answer()
	msgs := c.lex.Messages(answerLang)

	if len(ranked) == 0 {
		c.record(SourceNone, answerLang)
		return escalated(msgs.NoMatch, answerLang, session.ReasonNoAnswer)
	}

	top := &ranked[0]
	if top.Score > c.cfg.DirectMatch {
		return c.answered(top.Answer(answerLang), answerLang, top.Score, SourceDirectMatch)
	}

	candidates := ranked[:min(len(ranked), c.cfg.ContextSize)]
	raw, err := c.complete(ctx, question, answerLang, candidates)
	if err != nil {
		c.logger.Warn("Completion failed, falling back",
			zap.Error(err),
			zap.Float64("top_score", top.Score),
		)
		res := escalated(msgs.Apology, answerLang, session.ReasonTechnicalError)
		if top.Score > c.cfg.Fallback {
			res.Answer = top.Answer(answerLang)
			res.Confidence = top.Score
			res.Source = SourceFallback
		}
		c.record(res.Source, answerLang)
		return res
	}

	text := extractAnswer(raw)
	if text != "" && !hasMarker(text, c.lex.NoAnswerMarkers()) {
		return c.answered(text, answerLang, top.Score, SourceCompletion)
	}
	if top.Score > c.cfg.Fallback {
		return c.answered(top.Answer(answerLang), answerLang, top.Score, SourceFallback)
	}
	c.record(SourceNone, answerLang)
	return escalated(msgs.NoPreciseAnswer, answerLang, session.ReasonNoAnswer)
}

func (c *Composer) complete(ctx context.Context, question string, lang language.Language, candidates []kb.Scored) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	return c.completer.Complete(ctx, buildSystemPrompt(lang), buildUserPrompt(question, lang, candidates))
}

func (c *Composer) answered(text string, lang language.Language, score float64, src Source) Result {
	c.record(src, lang)
	return Result{
		Answer:     withFollowUp(text, c.lex.Messages(lang).FollowUp),
		Language:   lang,
		Stage:      session.StageAnswered,
		Confidence: score,
		Source:     src,
	}
}

func (c *Composer) record(src Source, lang language.Language) {
	label := string(src)
	if src == SourceNone {
		label = "canned"
	}
	metrics.AnswersTotal.WithLabelValues(label, string(lang)).Inc()
}

func withFollowUp(text, followUp string) string {
	if followUp == "" {
		return text
	}
	return text + "\n\n" + followUp
}
