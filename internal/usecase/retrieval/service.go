// Package retrieval ranks a document's chunks against the extraction query
// and selects the top-k context, falling back from vector to keyword scoring
// when no real embeddings exist.
package retrieval

import (
	"context"

	"go.uber.org/zap"

	"github.com/decklens/decklens/internal/domain"
	"github.com/decklens/decklens/internal/domain/chunk"
	"github.com/decklens/decklens/internal/domain/extraction"
)

// QueryEmbedder vectorizes the retrieval query through the same provider
// chain that embedded the chunks.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// Selection is one retrieval call's outcome, including the observability
// fields surfaced in the pipeline result.
type Selection struct {
	Chunks   []chunk.Chunk
	Mode     extraction.RetrievalMode
	TopScore float64
}

// Service selects context chunks for prompt construction.
type Service struct {
	embedder QueryEmbedder
	logger   *zap.Logger
}

// New creates a retrieval service.
func New(embedder QueryEmbedder, logger *zap.Logger) *Service {
	return &Service{embedder: embedder, logger: logger}
}

// Retrieve returns the top-k chunks for the query. The mode branch is hard:
// vector scoring when the embedding set has at least one real vector (and the
// query embeds successfully), keyword scoring otherwise. The two regimes are
// never mixed within one call.
func (s *Service) Retrieve(
	ctx context.Context,
	chunks []chunk.Chunk,
	set domain.EmbeddingSet,
	query string,
	k int,
) Selection {
	if k <= 0 || len(chunks) == 0 {
		return Selection{Mode: extraction.ModeKeyword}
	}

	if set.AnyReal {
		queryVec, err := s.embedder.EmbedQuery(ctx, query)
		if err == nil {
			return s.selectVector(chunks, set, queryVec, k)
		}
		s.logger.Warn("Query embedding failed, falling back to keyword retrieval", zap.Error(err))
	}

	return s.selectKeyword(chunks, k)
}

func (s *Service) selectVector(
	chunks []chunk.Chunk, set domain.EmbeddingSet, queryVec []float32, k int,
) Selection {
	scored := make([]chunk.Scored, len(chunks))
	for i, c := range chunks {
		scored[i] = chunk.Scored{
			Chunk: c,
			Score: CosineSimilarity(queryVec, set.Vectors[i]),
		}
	}

	return newSelection(topK(scored, k), extraction.ModeVector)
}

func (s *Service) selectKeyword(chunks []chunk.Chunk, k int) Selection {
	scored := make([]chunk.Scored, len(chunks))
	for i, c := range chunks {
		scored[i] = chunk.Scored{Chunk: c, Score: keywordScore(c.Text)}
	}

	return newSelection(topK(scored, k), extraction.ModeKeyword)
}

func newSelection(scored []chunk.Scored, mode extraction.RetrievalMode) Selection {
	sel := Selection{Mode: mode, Chunks: make([]chunk.Chunk, len(scored))}
	for i, sc := range scored {
		sel.Chunks[i] = sc.Chunk
	}
	if len(scored) > 0 {
		sel.TopScore = scored[0].Score
	}
	return sel
}
