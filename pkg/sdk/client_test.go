package helpdesk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, u := range []string{"", "localhost:10000", "://bad"} {
		if _, err := New(u); err == nil {
			t.Errorf("New(%q): expected error", u)
		}
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c, err := New("http://localhost:10000/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.baseURL != "http://localhost:10000" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}
	hc := &http.Client{}
	reg := prometheus.NewRegistry()
	for _, o := range []Option{
		WithAPIKey("k"),
		WithHTTPClient(hc),
		WithTimeout(5 * time.Second),
		WithUserAgent("ua"),
		WithPrometheus(reg),
	} {
		o.apply(cfg)
	}
	if cfg.apiKey != "k" || cfg.httpClient != hc || cfg.timeout != 5*time.Second || cfg.userAgent != "ua" {
		t.Errorf("options not applied: %+v", cfg)
	}
	if cfg.metricsReg != reg {
		t.Error("registerer not applied")
	}
}

func TestAsk(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ask" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("User-Agent"); !strings.HasPrefix(got, "helpdesk-go/") {
			t.Errorf("User-Agent = %q", got)
		}
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Question != "пароль не работает" {
			t.Errorf("question = %q", req.Question)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"answer":           "Сбросьте пароль.",
			"language":         "ru",
			"needs_escalation": false,
			"confidence":       0.92,
			"source":           "direct_match",
		})
	}, WithAPIKey("secret"))

	ans, err := c.Ask(context.Background(), "пароль не работает")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if ans.Answer != "Сбросьте пароль." || ans.Language != "ru" || ans.Source != "direct_match" {
		t.Errorf("answer = %+v", ans)
	}
	if ans.Confidence == nil || *ans.Confidence != 0.92 {
		t.Errorf("confidence = %v", ans.Confidence)
	}
	if ans.Escalated() {
		t.Error("expected no escalation")
	}
}

func TestAsk_APIErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		code     string
	}{
		{"validation", http.StatusBadRequest, `{"code":"validation_failed","message":"question is required"}`, ErrBadRequest, "validation_failed"},
		{"unauthorized", http.StatusUnauthorized, `{"code":"unauthorized","message":"missing token"}`, ErrUnauthorized, "unauthorized"},
		{"unavailable", http.StatusServiceUnavailable, `{"code":"unavailable","message":"knowledge base unavailable"}`, ErrUnavailable, "unavailable"},
		{"plain text", http.StatusBadGateway, "upstream gone", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Ask(context.Background(), "q")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Code != tt.code {
				t.Errorf("apiErr = %+v", apiErr)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
			if tt.sentinel == nil && apiErr.Message != "upstream gone" {
				t.Errorf("message = %q", apiErr.Message)
			}
		})
	}
}

func TestAsk_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("not json"))
	})
	if _, err := c.Ask(context.Background(), "q"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestAsk_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Ask(ctx, "q")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestChat_NewSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.SessionID != "" {
			t.Errorf("session_id = %q, want empty", req.SessionID)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id":       "s-1",
			"session_stage":    "greeting",
			"answer":           "Здравствуйте!",
			"language":         "ru",
			"needs_escalation": false,
		})
	})

	reply, err := c.Chat(context.Background(), "", "Привет")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.SessionID != "s-1" || reply.SessionStage != StageGreeting || reply.Answer.Answer != "Здравствуйте!" {
		t.Errorf("reply = %+v", reply)
	}
	if reply.Confidence != nil {
		t.Errorf("canned reply carries confidence %v", *reply.Confidence)
	}
}

func TestEndChat(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.EndChat(context.Background(), "a b"); err != nil {
		t.Fatalf("EndChat: %v", err)
	}
	if gotPath != "/chat/a%20b" {
		t.Errorf("path = %q", gotPath)
	}
	if err := c.EndChat(context.Background(), ""); err == nil {
		t.Error("expected error for empty session id")
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{"ok", http.StatusOK, `{"status":"ok","kb_loaded":true,"kb_records":3,"checks":{"knowledge_base":"ok"}}`, "ok", false},
		{"degraded", http.StatusServiceUnavailable, `{"status":"degraded","kb_loaded":false,"checks":{"knowledge_base":"error"}}`, "degraded", false},
		{"broken", http.StatusInternalServerError, `{"code":"internal_error","message":"internal error"}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			hs, err := c.Health(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if hs.Status != tt.want {
				t.Errorf("status = %q, want %q", hs.Status, tt.want)
			}
		})
	}
}

func TestObserver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ask" {
			writeJSON(w, http.StatusOK, map[string]any{"answer": "a", "language": "ru"})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}, WithPrometheus(reg))

	if _, err := c.Ask(context.Background(), "q"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if _, err := c.Chat(context.Background(), "", "q"); err == nil {
		t.Fatal("expected chat error")
	}

	if got := testutil.ToFloat64(c.obs.metrics.calls.WithLabelValues("ask", "ok")); got != 1 {
		t.Errorf("ask ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.obs.metrics.calls.WithLabelValues("chat", "error")); got != 1 {
		t.Errorf("chat error = %v, want 1", got)
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.metrics.calls != second.metrics.calls {
		t.Error("expected the registered counter to be reused")
	}
}

func TestObserver_Nil(t *testing.T) {
	var o *observer
	o.observe("ask", time.Now(), nil)
}
