package extraction

import (
	"context"

	"github.com/decklens/decklens/internal/domain"
	"github.com/decklens/decklens/internal/domain/chunk"
	"github.com/decklens/decklens/internal/usecase/retrieval"
)

// BatchEmbedder embeds a document's chunk texts under the degrade-on-failure
// contract.
type BatchEmbedder interface {
	EmbedAll(ctx context.Context, texts []string) domain.EmbeddingSet
}

// Retriever selects the top-k context chunks for the extraction query.
type Retriever interface {
	Retrieve(
		ctx context.Context,
		chunks []chunk.Chunk,
		set domain.EmbeddingSet,
		query string,
		k int,
	) retrieval.Selection
}

// PromptBuilder renders the bounded extraction prompt.
type PromptBuilder interface {
	Build(retrieved []chunk.Chunk, docLength int) string
}

// Generator produces raw model text for a prompt, retry included.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds the pipeline tuning parameters.
type Config struct {
	ChunkSize        int
	TopK             int
	MinContentLength int
	Timeout          int // seconds; overall per-document deadline
}

// Input is one extraction request: the document identity and its raw
// extracted text (PDF text extraction is a collaborator concern).
type Input struct {
	DocumentID string
	Text       string
}
