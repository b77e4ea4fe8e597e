package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuestion signals a missing or blank question text.
	ErrEmptyQuestion = errors.New("question is required")
	// ErrInvalidRequest signals a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrKnowledgeBaseUnavailable signals that no knowledge base snapshot is loaded.
	ErrKnowledgeBaseUnavailable = errors.New("knowledge base unavailable")
	// ErrKnowledgeBaseSource signals a fetch or parse failure of the knowledge base feed.
	ErrKnowledgeBaseSource = errors.New("knowledge base source error")
	// ErrCompletionFailed signals a completion service failure (timeout, non-2xx, malformed payload).
	ErrCompletionFailed = errors.New("completion service error")
	// ErrInvalidLexicon signals inconsistent lexicon data.
	ErrInvalidLexicon = errors.New("invalid lexicon")
)

// CompletionError wraps ErrCompletionFailed with the upstream HTTP status (0 when unknown).
type CompletionError struct {
	StatusCode int
	Detail     string
}

func (e *CompletionError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", ErrCompletionFailed.Error(), e.Detail)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrCompletionFailed.Error(), e.StatusCode, e.Detail)
}

func (e *CompletionError) Unwrap() error { return ErrCompletionFailed }

// NewCompletionError creates a completion error.
func NewCompletionError(statusCode int, detail string) error {
	return &CompletionError{StatusCode: statusCode, Detail: detail}
}
