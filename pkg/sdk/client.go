package helpdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kailas-cloud/helpdesk/internal/version"
)

const (
	defaultTimeout = 60 * time.Second
	maxErrorBody   = 4 << 10
)

// Client is the helpdesk API entry point.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	http      *http.Client
	obs       *observer
}

// New creates a Client for the server at baseURL (e.g. "http://localhost:10000").
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("helpdesk: invalid base url %q", baseURL)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}
	ua := cfg.userAgent
	if ua == "" {
		ua = "helpdesk-go/" + version.Version
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    cfg.apiKey,
		userAgent: ua,
		http:      hc,
		obs:       obs,
	}, nil
}

// Ask answers a single question without a conversation.
func (c *Client) Ask(ctx context.Context, question string) (Answer, error) {
	start := time.Now()
	var ans Answer
	err := c.do(ctx, http.MethodPost, "/ask", askRequest{Question: question}, &ans)
	c.obs.observe("ask", start, err)
	if err != nil {
		return Answer{}, err
	}
	return ans, nil
}

// Chat sends one conversation turn. An empty sessionID starts a new conversation;
// the reply carries the id to use on the next turn.
func (c *Client) Chat(ctx context.Context, sessionID, question string) (ChatReply, error) {
	start := time.Now()
	var reply ChatReply
	err := c.do(ctx, http.MethodPost, "/chat", chatRequest{SessionID: sessionID, Question: question}, &reply)
	c.obs.observe("chat", start, err)
	if err != nil {
		return ChatReply{}, err
	}
	return reply, nil
}

// EndChat ends a conversation. Ending an unknown session is not an error.
func (c *Client) EndChat(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("helpdesk: session id required")
	}
	start := time.Now()
	err := c.do(ctx, http.MethodDelete, "/chat/"+url.PathEscape(sessionID), nil, nil)
	c.obs.observe("end_chat", start, err)
	return err
}

// Health returns the server readiness report. A degraded server answers 503
// with the same body, so the report is returned without an error in that case.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	start := time.Now()
	var hs HealthStatus
	err := c.do(ctx, http.MethodGet, "/health", nil, &hs)
	if err != nil && errors.Is(err, ErrUnavailable) && hs.Status != "" {
		err = nil
	}
	c.obs.observe("health", start, err)
	if err != nil {
		return HealthStatus{}, err
	}
	return hs, nil
}

// Conversation returns a helper that carries the session id between turns.
func (c *Client) Conversation() *Conversation {
	return &Conversation{client: c}
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
// On non-2xx statuses it returns an *APIError; out is still filled when the body decodes into it.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("helpdesk: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("helpdesk: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("helpdesk: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("helpdesk: decode response: %w", err)
		}
		return nil
	}

	return decodeAPIError(resp, out)
}

func decodeAPIError(resp *http.Response, out any) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Code != "" {
		apiErr.Code = eb.Code
		apiErr.Message = eb.Message
		return apiErr
	}
	if out != nil {
		_ = json.Unmarshal(raw, out)
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
