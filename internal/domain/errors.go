package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientContent signals a document too short to extract from.
	ErrInsufficientContent = errors.New("insufficient document content")
	// ErrNoValidChunks signals that chunking produced no usable segments.
	ErrNoValidChunks = errors.New("no valid chunks")
	// ErrEmbeddingDegraded signals a per-chunk embedding failure. Never fatal:
	// the pipeline substitutes a zero vector and continues.
	ErrEmbeddingDegraded = errors.New("embedding degraded")
	// ErrGenerationUnavailable signals an exhausted generation retry budget.
	ErrGenerationUnavailable = errors.New("generation unavailable")
	// ErrEmptyResponse signals a generation response with no usable text.
	ErrEmptyResponse = errors.New("empty generation response")
	// ErrUnparseableResponse signals that no JSON object could be recovered
	// from the generation output.
	ErrUnparseableResponse = errors.New("unparseable generation response")
	// ErrPermissionDenied signals a capability rejecting our credentials.
	ErrPermissionDenied = errors.New("capability permission denied")
	// ErrQuotaExceeded signals an exhausted capability or token quota.
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrLocatorParse signals a document locator that matches no known variant.
	ErrLocatorParse = errors.New("locator parse failed")
)

// previewLimit bounds the raw-text preview carried in parse errors.
const previewLimit = 200

// UnparseableResponseError wraps ErrUnparseableResponse with a truncated
// preview of the raw generation output for diagnostics.
type UnparseableResponseError struct {
	Preview string
}

func (e *UnparseableResponseError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnparseableResponse.Error(), e.Preview)
}

func (e *UnparseableResponseError) Unwrap() error { return ErrUnparseableResponse }

// NewUnparseableResponse creates a parse error carrying at most previewLimit
// characters of the raw output.
func NewUnparseableResponse(raw string) error {
	if len(raw) > previewLimit {
		// Rune-based truncation keeps the preview valid UTF-8.
		if runes := []rune(raw); len(runes) > previewLimit {
			raw = string(runes[:previewLimit])
		}
	}
	return &UnparseableResponseError{Preview: raw}
}
