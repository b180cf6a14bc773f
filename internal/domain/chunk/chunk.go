// Package chunk splits normalized document text into the bounded contiguous
// segments used as the unit of embedding and retrieval.
package chunk

import (
	"fmt"
	"strings"

	"github.com/decklens/decklens/internal/domain"
)

// DefaultSize is the default chunk window in characters.
const DefaultSize = 300

// Chunk is a bounded contiguous substring of the normalized document.
// Index is the document-order position; retrieval reorders freely but ties
// are broken by Index for reproducibility.
type Chunk struct {
	Index int
	Text  string
}

// Scored pairs a chunk with its retrieval score: cosine similarity in
// vector mode, distinct-keyword hit count in keyword mode. The two regimes
// are never mixed within one retrieval call.
type Scored struct {
	Chunk Chunk
	Score float64
}

// Split partitions text into contiguous non-overlapping windows of at most
// size characters, preserving order; the final window may be shorter.
// Concatenating the chunk texts in order reproduces the input exactly.
// Chunks whose trimmed text is empty are dropped after windowing. Returns
// domain.ErrNoValidChunks when nothing survives the filter.
func Split(text string, size int) ([]Chunk, error) {
	if size <= 0 {
		size = DefaultSize
	}

	// Windowing runs over runes, not bytes, so a multi-byte character at a
	// window boundary is never split into invalid UTF-8 halves.
	runes := []rune(text)

	var chunks []Chunk
	window := 0
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		segment := string(runes[start:end])
		if strings.TrimSpace(segment) != "" {
			chunks = append(chunks, Chunk{Index: window, Text: segment})
		}
		window++
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("text of %d characters produced nothing: %w", len(runes), domain.ErrNoValidChunks)
	}
	return chunks, nil
}

// Texts projects the chunk texts in order, the shape the embedding batch
// consumes. Every returned string has non-empty trimmed text.
func Texts(chunks []Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}
