package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies capability availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the
// decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// EmbeddingSet is the per-document outcome of embedding a chunk batch.
// Vectors[i] corresponds to the i-th input text; a degraded entry is the
// all-zero vector of the configured dimension, never nil.
type EmbeddingSet struct {
	Vectors  [][]float32
	Degraded int
	AnyReal  bool
}

// IsZeroVector reports whether every component of v is zero. A degraded
// placeholder is indistinguishable from a genuine all-zero embedding, which
// in practice does not occur for non-empty text.
func IsZeroVector(v []float32) bool {
	for _, f := range v {
		if f != 0 {
			return false
		}
	}
	return true
}

// ZeroVector returns the degraded placeholder of the given dimension.
func ZeroVector(dim int) []float32 {
	return make([]float32, dim)
}

// InstructionEmbedder is a domain decorator that prepends instruction text
// before embedding. The outermost decorator, so cache keys include the
// instruction.
type InstructionEmbedder struct {
	inner       Embedder
	instruction string
}

// NewInstructionEmbedder creates a decorator that prepends instruction text.
func NewInstructionEmbedder(inner Embedder, instruction string) *InstructionEmbedder {
	return &InstructionEmbedder{inner: inner, instruction: instruction}
}

// Embed prepends the instruction and delegates to the inner embedder.
func (e *InstructionEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, e.instruction+text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("instruction embed: %w", err)
	}
	return result, nil
}
