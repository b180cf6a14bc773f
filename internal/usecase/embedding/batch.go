package embedding

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/decklens/decklens/internal/domain"
	"github.com/decklens/decklens/internal/metrics"
	"github.com/decklens/decklens/internal/retry"
)

// DefaultConcurrency caps in-flight embedding calls per document.
const DefaultConcurrency = 4

// Batch embeds a document's chunk set with the degrade-on-failure contract:
// one vector per input, same order, dimension always Dim. A chunk that fails
// all retries gets the zero vector and its siblings proceed.
type Batch struct {
	embedder    domain.Embedder
	dim         int
	concurrency int
	policy      retry.Policy
	logger      *zap.Logger
}

// NewBatch creates the per-document embedding batch service.
func NewBatch(embedder domain.Embedder, dim, concurrency int, policy retry.Policy, logger *zap.Logger) *Batch {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Batch{
		embedder:    embedder,
		dim:         dim,
		concurrency: concurrency,
		policy:      policy,
		logger:      logger,
	}
}

// Dim returns the configured embedding dimension.
func (b *Batch) Dim() int { return b.dim }

// EmbedAll vectorizes texts concurrently. Always returns len(texts) vectors in
// input order; each is either a real embedding or the zero vector of the
// configured dimension. Partial success is a normal outcome, not an error.
func (b *Batch) EmbedAll(ctx context.Context, texts []string) domain.EmbeddingSet {
	vectors := make([][]float32, len(texts))
	var degraded atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, text := range texts {
		g.Go(func() error {
			vec, err := b.embedOne(gctx, text)
			if err != nil {
				b.logger.Warn("Chunk embedding degraded to zero vector",
					zap.Int("chunk", i),
					zap.Error(err),
				)
				metrics.EmbeddingDegradedTotal.Inc()
				degraded.Add(1)
				vectors[i] = domain.ZeroVector(b.dim)
				return nil
			}
			vectors[i] = vec
			return nil
		})
	}
	// Workers absorb their own failures, so Wait never returns an error.
	_ = g.Wait()

	set := domain.EmbeddingSet{
		Vectors:  vectors,
		Degraded: int(degraded.Load()),
	}
	for _, v := range vectors {
		if !domain.IsZeroVector(v) {
			set.AnyReal = true
			break
		}
	}
	return set
}

// EmbedQuery vectorizes the retrieval query with the same retry budget.
// Unlike chunk embedding there is no zero-vector substitute: the caller falls
// back to keyword retrieval on error.
func (b *Batch) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vec, err := b.embedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return vec, nil
}

// embedOne runs one text through the decorator chain with bounded retry and
// normalizes the result to the configured dimension.
func (b *Batch) embedOne(ctx context.Context, text string) ([]float32, error) {
	var result domain.EmbeddingResult
	err := retry.Do(ctx, b.policy, func(ctx context.Context) error {
		var embedErr error
		result, embedErr = b.embedder.Embed(ctx, text)
		return embedErr
	})
	if err != nil {
		return nil, err
	}

	if len(result.Embedding) != b.dim {
		return nil, fmt.Errorf(
			"provider returned %d dimensions, expected %d: %w",
			len(result.Embedding), b.dim, domain.ErrEmbeddingDegraded,
		)
	}
	return result.Embedding, nil
}
