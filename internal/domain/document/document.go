// Package document holds the pitch-deck document model and text
// normalization. A Document is created once per extraction request and is
// immutable after normalization.
package document

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/decklens/decklens/internal/domain"
)

// DefaultMinContentLength is the normalized-text floor below which a document
// is rejected as unextractable.
const DefaultMinContentLength = 100

// pageArtifact matches "Page 12"-style pagination noise left over from PDF
// text extraction.
var pageArtifact = regexp.MustCompile(`(?i)\bpage\s+\d+\b`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Document is one pitch deck flowing through a single pipeline invocation.
type Document struct {
	ID         string
	Raw        string
	Normalized string
}

// New normalizes raw extracted text and validates it against minLength.
// minLength <= 0 falls back to DefaultMinContentLength. Returns
// domain.ErrInsufficientContent when the cleaned text is too short; this is a
// terminal condition, not retried.
func New(id, raw string, minLength int) (Document, error) {
	if minLength <= 0 {
		minLength = DefaultMinContentLength
	}

	normalized := Normalize(raw)
	if len(normalized) < minLength {
		return Document{}, fmt.Errorf(
			"normalized text has %d characters, need %d: %w",
			len(normalized), minLength, domain.ErrInsufficientContent,
		)
	}

	return Document{ID: id, Raw: raw, Normalized: normalized}, nil
}

// Normalize cleans raw extracted text: strips pagination artifacts, collapses
// whitespace runs (including blank lines) to single spaces, and trims.
func Normalize(raw string) string {
	cleaned := pageArtifact.ReplaceAllString(raw, " ")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
