package ranking

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kailas-cloud/helpdesk/internal/domain"
	"github.com/kailas-cloud/helpdesk/internal/domain/analyzer"
	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
	"github.com/kailas-cloud/helpdesk/internal/domain/language"
	"github.com/kailas-cloud/helpdesk/internal/metrics"
)

const (
	// DefaultMinScore is the exclusive lower bound for a candidate to be returned.
	DefaultMinScore = 0.15
	// DefaultTopK is the maximum number of candidates returned.
	DefaultTopK = 10
)

// Config holds ranking thresholds.
type Config struct {
	MinScore float64
	TopK     int
}

// Service ranks knowledge base records against a question.
type Service struct {
	analyzer *analyzer.Analyzer
	kb       SnapshotReader
	cache    Cache
	cfg      Config

	mu    sync.Mutex
	index *tokenIndex
}

// tokenIndex holds normalized question tokens for one snapshot.
type tokenIndex struct {
	version   uint64
	primary   [][]string
	secondary [][]string
}

// New creates a ranking Service. cache can be nil.
func New(a *analyzer.Analyzer, reader SnapshotReader, cache Cache, cfg Config) *Service {
	if cfg.MinScore == 0 {
		cfg.MinScore = DefaultMinScore
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	return &Service{analyzer: a, kb: reader, cache: cache, cfg: cfg}
}

// Rank scores question against both question fields of every record, keeps candidates
// above the minimum score and returns the best ones in descending order.
// Equal scores keep knowledge base order.
func (s *Service) Rank(ctx context.Context, question string, lang language.Language) ([]kb.Scored, error) {
	snap := s.kb.Snapshot()
	if snap == nil {
		return nil, domain.ErrKnowledgeBaseUnavailable
	}

	tokens := s.analyzer.Tokens(question, lang)
	key := cacheKey(snap.Digest(), lang, tokens)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			metrics.RankingCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		}
		metrics.RankingCacheTotal.WithLabelValues("miss").Inc()
	}

	results := s.rank(snap, tokens)

	if s.cache != nil {
		s.cache.Set(ctx, key, results)
	}
	return results, nil
}

func (s *Service) rank(snap *kb.Snapshot, tokens []string) []kb.Scored {
	idx := s.indexFor(snap)
	records := snap.Records()

	results := make([]kb.Scored, 0, min(len(records), s.cfg.TopK))
	for i := range records {
		primary := analyzer.Score(tokens, idx.primary[i])
		secondary := analyzer.Score(tokens, idx.secondary[i])

		scored := kb.Scored{Record: records[i], Score: primary, MatchedLanguage: language.Primary}
		if secondary > primary {
			scored.Score = secondary
			scored.MatchedLanguage = language.Secondary
		}
		if scored.Score > s.cfg.MinScore {
			results = append(results, scored)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > s.cfg.TopK {
		results = results[:s.cfg.TopK]
	}
	return results
}

// indexFor returns question tokens for snap, building them once per snapshot version.
func (s *Service) indexFor(snap *kb.Snapshot) *tokenIndex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index != nil && s.index.version == snap.Version() {
		return s.index
	}

	records := snap.Records()
	idx := &tokenIndex{
		version:   snap.Version(),
		primary:   make([][]string, len(records)),
		secondary: make([][]string, len(records)),
	}
	for i := range records {
		idx.primary[i] = s.analyzer.Tokens(records[i].QuestionPrimary, language.Primary)
		idx.secondary[i] = s.analyzer.Tokens(records[i].QuestionSecondary, language.Secondary)
	}
	s.index = idx
	return idx
}

// cacheKey scopes results to the snapshot content, so a shared cache never serves
// results computed against different data by another process.
func cacheKey(digest string, lang language.Language, tokens []string) string {
	var b strings.Builder
	b.WriteString(digest)
	b.WriteByte('|')
	b.WriteString(string(lang))
	b.WriteByte('|')
	b.WriteString(strings.Join(tokens, " "))
	return b.String()
}
