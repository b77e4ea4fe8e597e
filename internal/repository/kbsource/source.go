// Package kbsource fetches the knowledge base from a published CSV sheet.
package kbsource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdesk/internal/domain"
	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
)

// defaultMaxBodySize caps the downloaded sheet size.
const defaultMaxBodySize = 32 << 20

// Config holds the source settings.
type Config struct {
	// Location is an http(s) URL or a local file path.
	Location string
	Timeout  time.Duration
	Logger   *zap.Logger

	// MaxBodySize rejects larger sheets instead of truncating them. Default 32 MiB.
	MaxBodySize int64
}

// Source loads knowledge base records from CSV.
type Source struct {
	location string
	client   *http.Client
	maxBody  int64
	logger   *zap.Logger
}

// New creates a CSV source.
func New(cfg Config) *Source {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxBody := cfg.MaxBodySize
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}
	return &Source{
		location: cfg.Location,
		client:   &http.Client{Timeout: timeout},
		maxBody:  maxBody,
		logger:   cfg.Logger,
	}
}

// Fetch downloads and parses the sheet. Invalid rows are dropped.
func (s *Source) Fetch(ctx context.Context) ([]kb.Record, error) {
	body, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(io.LimitReader(body, s.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", domain.ErrKnowledgeBaseSource, err)
	}
	if int64(len(data)) > s.maxBody {
		return nil, fmt.Errorf("%w: sheet exceeds %d bytes", domain.ErrKnowledgeBaseSource, s.maxBody)
	}

	records, dropped, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrKnowledgeBaseSource, err)
	}
	if dropped > 0 {
		s.logger.Warn("Dropped knowledge base rows without question or answer", zap.Int("dropped", dropped))
	}
	return records, nil
}

func (s *Source) open(ctx context.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(s.location, "http://") && !strings.HasPrefix(s.location, "https://") {
		f, err := os.Open(filepath.Clean(s.location))
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", domain.ErrKnowledgeBaseSource, s.location, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrKnowledgeBaseSource, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch: %w", domain.ErrKnowledgeBaseSource, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: fetch: unexpected status %d", domain.ErrKnowledgeBaseSource, resp.StatusCode)
	}
	return resp.Body, nil
}
