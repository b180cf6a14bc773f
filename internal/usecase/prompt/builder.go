// Package prompt assembles the bounded extraction prompt from retrieved
// chunks and the fixed ten-field schema description.
package prompt

import (
	"fmt"
	"strings"

	"github.com/decklens/decklens/internal/domain/chunk"
	"github.com/decklens/decklens/internal/domain/record"
)

// DefaultContextBudget caps the joined chunk context, in characters.
const DefaultContextBudget = 6000

// chunkSeparator visibly delimits chunks inside the prompt context.
const chunkSeparator = "\n---\n"

// Query is the fixed retrieval query steering chunk selection toward
// investment-relevant content.
const Query = "company value proposition market size traction team funding ask " +
	"use of funds business model competitive landscape go-to-market"

const instructionTemplate = `You are an analyst extracting structured investment data from a startup pitch deck.

The excerpts below were selected from a document of %d characters.

EXCERPTS:
%s

Extract the following fields and respond with a single JSON object containing exactly these keys:
%s

Rules:
- Every key must be present with a string value.
- If a field is not specified in the excerpts, use the exact string "%s".
- Output only the JSON object. No markdown, no commentary, no surrounding text.`

// Builder renders the extraction prompt. Deterministic for identical inputs.
type Builder struct {
	contextBudget int
}

// New creates a prompt builder. budget <= 0 falls back to DefaultContextBudget.
func New(budget int) *Builder {
	if budget <= 0 {
		budget = DefaultContextBudget
	}
	return &Builder{contextBudget: budget}
}

// Build joins the retrieved chunk texts, truncates to the context budget, and
// interpolates the fixed instruction template. docLength is the normalized
// document character count, given to the model as sizing context.
func (b *Builder) Build(retrieved []chunk.Chunk, docLength int) string {
	texts := make([]string, len(retrieved))
	for i, c := range retrieved {
		texts[i] = strings.TrimSpace(c.Text)
	}

	joined := strings.Join(texts, chunkSeparator)
	if len(joined) > b.contextBudget {
		// Truncate on a rune boundary; a byte slice could cut a multi-byte
		// character in half and feed the model invalid UTF-8.
		if runes := []rune(joined); len(runes) > b.contextBudget {
			joined = string(runes[:b.contextBudget])
		}
	}

	return fmt.Sprintf(instructionTemplate,
		docLength,
		joined,
		strings.Join(record.FieldNames, ", "),
		record.Sentinel,
	)
}
