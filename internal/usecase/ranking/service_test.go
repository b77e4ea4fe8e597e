package ranking

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/helpdesk/internal/domain"
	"github.com/kailas-cloud/helpdesk/internal/domain/analyzer"
	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
	"github.com/kailas-cloud/helpdesk/internal/domain/language"
	"github.com/kailas-cloud/helpdesk/internal/domain/lexicon"
)

// --- Mocks ---

type mockCache struct {
	getFn func(ctx context.Context, key string) ([]kb.Scored, bool)
	setFn func(ctx context.Context, key string, results []kb.Scored)
}

func (m *mockCache) Get(ctx context.Context, key string) ([]kb.Scored, bool) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, false
}

func (m *mockCache) Set(ctx context.Context, key string, results []kb.Scored) {
	if m.setFn != nil {
		m.setFn(ctx, key, results)
	}
}

// --- Helpers ---

func newTestAnalyzer(t *testing.T) *analyzer.Analyzer {
	t.Helper()
	lex, err := lexicon.Default()
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	return analyzer.New(lex)
}

func holderWith(records ...kb.Record) *kb.Holder {
	h := kb.NewHolder()
	h.Replace(records, time.Now())
	return h
}

// --- Tests ---

func TestRank_NoSnapshot(t *testing.T) {
	svc := New(newTestAnalyzer(t), kb.NewHolder(), nil, Config{})
	_, err := svc.Rank(context.Background(), "пароль", language.Primary)
	if !errors.Is(err, domain.ErrKnowledgeBaseUnavailable) {
		t.Fatalf("expected ErrKnowledgeBaseUnavailable, got %v", err)
	}
}

func TestRank_DirectMatchFirst(t *testing.T) {
	h := holderWith(
		kb.Record{ID: "1", QuestionSecondary: "zzzz qqqq", AnswerSecondary: "x"},
		kb.Record{ID: "2", QuestionPrimary: "не работает пароль", AnswerPrimary: "Сбросьте пароль"},
	)
	svc := New(newTestAnalyzer(t), h, nil, Config{})

	got, err := svc.Rank(context.Background(), "пароль не работает", language.Primary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].ID != "2" {
		t.Errorf("expected record 2, got %s", got[0].ID)
	}
	if got[0].Score <= 0.8 {
		t.Errorf("expected direct-match score, got %f", got[0].Score)
	}
	if got[0].MatchedLanguage != language.Primary {
		t.Errorf("expected primary match, got %s", got[0].MatchedLanguage)
	}
}

func TestRank_CrossLingual(t *testing.T) {
	h := holderWith(kb.Record{
		ID:                "1",
		QuestionPrimary:   "zzzz qqqq",
		QuestionSecondary: "şifrə işləmir",
		AnswerPrimary:     "ru",
		AnswerSecondary:   "az",
	})
	svc := New(newTestAnalyzer(t), h, nil, Config{})

	got, err := svc.Rank(context.Background(), "şifrə işləmir", language.Secondary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].MatchedLanguage != language.Secondary {
		t.Errorf("expected secondary match, got %s", got[0].MatchedLanguage)
	}
}

func TestRank_FilterSortTruncate(t *testing.T) {
	records := make([]kb.Record, 0, 16)
	for i := range 15 {
		records = append(records, kb.Record{
			ID:              strconv.Itoa(i),
			QuestionPrimary: "пароль",
			AnswerPrimary:   "a",
		})
	}
	records = append(records, kb.Record{ID: "noise", QuestionSecondary: "zzzz qqqq", AnswerSecondary: "x"})
	svc := New(newTestAnalyzer(t), holderWith(records...), nil, Config{})

	got, err := svc.Rank(context.Background(), "пароль", language.Primary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != DefaultTopK {
		t.Fatalf("expected %d candidates, got %d", DefaultTopK, len(got))
	}
	for i, c := range got {
		if c.Score <= DefaultMinScore {
			t.Errorf("candidate %d below threshold: %f", i, c.Score)
		}
		if i > 0 && c.Score > got[i-1].Score {
			t.Errorf("candidate %d out of order", i)
		}
		// equal scores keep knowledge base order
		if c.ID != strconv.Itoa(i) {
			t.Errorf("position %d: expected id %d, got %s", i, i, c.ID)
		}
	}
}

func TestRank_Descending(t *testing.T) {
	h := holderWith(
		kb.Record{ID: "weak", QuestionPrimary: "пароль zzzz qqqq wwww", AnswerPrimary: "a"},
		kb.Record{ID: "strong", QuestionPrimary: "пароль", AnswerPrimary: "b"},
	)
	svc := New(newTestAnalyzer(t), h, nil, Config{})

	got, err := svc.Rank(context.Background(), "пароль", language.Primary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) == 0 || got[0].ID != "strong" {
		t.Fatalf("expected strong first, got %+v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("not descending at %d", i)
		}
	}
}

func TestRank_CacheHit(t *testing.T) {
	cached := []kb.Scored{{Record: kb.Record{ID: "cached"}, Score: 0.9}}
	var gotKey string
	cache := &mockCache{
		getFn: func(_ context.Context, key string) ([]kb.Scored, bool) {
			gotKey = key
			return cached, true
		},
		setFn: func(context.Context, string, []kb.Scored) {
			t.Error("Set must not be called on hit")
		},
	}
	h := holderWith(kb.Record{ID: "1", QuestionPrimary: "пароль", AnswerPrimary: "a"})
	svc := New(newTestAnalyzer(t), h, cache, Config{})

	got, err := svc.Rank(context.Background(), "пароль", language.Primary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "cached" {
		t.Errorf("expected cached result, got %+v", got)
	}
	if want := h.Snapshot().Digest() + "|"; !strings.HasPrefix(gotKey, want) {
		t.Errorf("expected key prefixed with snapshot digest, got %q", gotKey)
	}
}

func TestRank_CacheMissStores(t *testing.T) {
	var stored []kb.Scored
	calls := 0
	cache := &mockCache{
		setFn: func(_ context.Context, _ string, results []kb.Scored) {
			calls++
			stored = results
		},
	}
	h := holderWith(kb.Record{ID: "1", QuestionPrimary: "пароль", AnswerPrimary: "a"})
	svc := New(newTestAnalyzer(t), h, cache, Config{})

	got, err := svc.Rank(context.Background(), "пароль", language.Primary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 Set call, got %d", calls)
	}
	if len(stored) != len(got) {
		t.Errorf("stored %d results, returned %d", len(stored), len(got))
	}
}

func TestRank_ReloadRebuildsIndex(t *testing.T) {
	h := holderWith(kb.Record{ID: "old", QuestionPrimary: "пароль", AnswerPrimary: "a"})
	svc := New(newTestAnalyzer(t), h, nil, Config{})

	if _, err := svc.Rank(context.Background(), "пароль", language.Primary); err != nil {
		t.Fatal(err)
	}
	h.Replace([]kb.Record{{ID: "new", QuestionPrimary: "пароль", AnswerPrimary: "b"}}, time.Now())

	got, err := svc.Rank(context.Background(), "пароль", language.Primary)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "new" {
		t.Errorf("expected result from reloaded snapshot, got %+v", got)
	}
}

// sharedCache is a map-backed cache standing in for Redis shared between processes.
type sharedCache struct {
	mu    sync.Mutex
	items map[string][]kb.Scored
}

func (c *sharedCache) Get(_ context.Context, key string) ([]kb.Scored, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *sharedCache) Set(_ context.Context, key string, results []kb.Scored) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = results
}

func TestRank_SharedCacheScopedToContent(t *testing.T) {
	cache := &sharedCache{items: make(map[string][]kb.Scored)}
	a := newTestAnalyzer(t)

	// Both processes are at snapshot version 1 but hold different data.
	oldKB := holderWith(kb.Record{ID: "1", QuestionPrimary: "пароль", AnswerPrimary: "OLD ANSWER"})
	newKB := holderWith(kb.Record{ID: "1", QuestionPrimary: "пароль", AnswerPrimary: "NEW ANSWER"})
	if oldKB.Snapshot().Version() != newKB.Snapshot().Version() {
		t.Fatal("test needs equal versions")
	}

	if _, err := New(a, oldKB, cache, Config{}).Rank(context.Background(), "пароль", language.Primary); err != nil {
		t.Fatal(err)
	}
	got, err := New(a, newKB, cache, Config{}).Rank(context.Background(), "пароль", language.Primary)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].AnswerPrimary != "NEW ANSWER" {
		t.Errorf("expected results from own snapshot, got %+v", got)
	}

	// Same content in another process reuses the entry.
	twin := holderWith(kb.Record{ID: "1", QuestionPrimary: "пароль", AnswerPrimary: "NEW ANSWER"})
	twin.Replace(twin.Snapshot().Records(), time.Now())
	hits := 0
	counting := &mockCache{getFn: func(ctx context.Context, key string) ([]kb.Scored, bool) {
		r, ok := cache.Get(ctx, key)
		if ok {
			hits++
		}
		return r, ok
	}}
	if _, err := New(a, twin, counting, Config{}).Rank(context.Background(), "пароль", language.Primary); err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("expected a hit for identical content at another version, got %d hits", hits)
	}
}
