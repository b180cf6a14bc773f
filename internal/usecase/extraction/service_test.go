package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/decklens/decklens/internal/domain"
	"github.com/decklens/decklens/internal/domain/chunk"
	domext "github.com/decklens/decklens/internal/domain/extraction"
	"github.com/decklens/decklens/internal/domain/record"
	"github.com/decklens/decklens/internal/usecase/retrieval"
)

// deckText is long enough to clear the content floor and produce several chunks.
var deckText = strings.Repeat(
	"Acme Robotics builds autonomous warehouse robots. Our market is large and our traction is real. ", 10,
)

type mockBatchEmbedder struct {
	anyReal  bool
	degraded int
}

func (m *mockBatchEmbedder) EmbedAll(_ context.Context, texts []string) domain.EmbeddingSet {
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		if m.anyReal {
			vectors[i] = []float32{1, 0}
		} else {
			vectors[i] = []float32{0, 0}
		}
	}
	return domain.EmbeddingSet{Vectors: vectors, Degraded: m.degraded, AnyReal: m.anyReal}
}

type mockRetriever struct {
	mode domext.RetrievalMode
}

func (m *mockRetriever) Retrieve(
	_ context.Context, chunks []chunk.Chunk, _ domain.EmbeddingSet, _ string, k int,
) retrieval.Selection {
	if len(chunks) > k {
		chunks = chunks[:k]
	}
	return retrieval.Selection{Chunks: chunks, Mode: m.mode, TopScore: 0.9}
}

type mockPromptBuilder struct{}

func (mockPromptBuilder) Build(retrieved []chunk.Chunk, docLength int) string {
	return "prompt"
}

type mockPipelineGenerator struct {
	response string
	err      error
	block    bool // wait for ctx cancellation instead of answering
}

func (m *mockPipelineGenerator) Generate(ctx context.Context, _ string) (string, error) {
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.response, m.err
}

func newTestService(
	emb *mockBatchEmbedder, ret *mockRetriever, gen *mockPipelineGenerator,
) *Service {
	return New(emb, ret, mockPromptBuilder{}, gen, Config{
		ChunkSize:        300,
		TopK:             5,
		MinContentLength: 100,
		Timeout:          120,
	}, zap.NewNop())
}

func TestExtract_HighConfidence(t *testing.T) {
	svc := newTestService(
		&mockBatchEmbedder{anyReal: true},
		&mockRetriever{mode: domext.ModeVector},
		&mockPipelineGenerator{response: `{"company": "Acme Robotics", "traction": "120 customers"}`},
	)

	result, err := svc.Extract(context.Background(), Input{DocumentID: "doc-1", Text: deckText})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Error("expected success")
	}
	if result.Confidence != domext.ConfidenceHigh {
		t.Errorf("expected high confidence, got %q", result.Confidence)
	}
	if !result.RAGUsed {
		t.Error("expected RAGUsed true in vector mode")
	}
	if result.Source != "rag" {
		t.Errorf("expected source rag, got %q", result.Source)
	}
	if result.Data.Company != "Acme Robotics" {
		t.Errorf("expected company extracted, got %q", result.Data.Company)
	}
	if result.Data.Team != record.Sentinel {
		t.Errorf("missing fields should be sentinel, got %q", result.Data.Team)
	}
	if result.ExtractionID == "" {
		t.Error("expected a non-empty extraction id")
	}
	if result.AIError != "" {
		t.Errorf("no aiError expected on success, got %q", result.AIError)
	}
}

func TestExtract_MediumConfidenceKeywordMode(t *testing.T) {
	svc := newTestService(
		&mockBatchEmbedder{anyReal: false, degraded: 4},
		&mockRetriever{mode: domext.ModeKeyword},
		&mockPipelineGenerator{response: `{"company": "Acme"}`},
	)

	result, err := svc.Extract(context.Background(), Input{DocumentID: "doc-1", Text: deckText})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Confidence != domext.ConfidenceMedium {
		t.Errorf("expected medium confidence, got %q", result.Confidence)
	}
	if result.RAGUsed {
		t.Error("expected RAGUsed false in keyword mode")
	}
	if result.Source != "keyword-retrieval" {
		t.Errorf("expected source keyword-retrieval, got %q", result.Source)
	}
	if result.DegradedChunks != 4 {
		t.Errorf("expected 4 degraded chunks reported, got %d", result.DegradedChunks)
	}
}

func TestExtract_GenerationFailureDegrades(t *testing.T) {
	svc := newTestService(
		&mockBatchEmbedder{anyReal: true},
		&mockRetriever{mode: domext.ModeVector},
		&mockPipelineGenerator{err: domain.ErrGenerationUnavailable},
	)

	result, err := svc.Extract(context.Background(), Input{DocumentID: "doc-1", Text: deckText})
	if err != nil {
		t.Fatalf("degradation must not be an error: %v", err)
	}
	if !result.Success {
		t.Error("degraded result still reports success")
	}
	if result.Confidence != domext.ConfidenceLow {
		t.Errorf("expected low confidence, got %q", result.Confidence)
	}
	if result.Source != "degraded" {
		t.Errorf("expected source degraded, got %q", result.Source)
	}
	if result.Data.SpecifiedCount() != 0 {
		t.Errorf("expected all-sentinel record, got %d specified", result.Data.SpecifiedCount())
	}
	if result.AIError == "" {
		t.Error("expected aiError describing the failure")
	}
	if len(result.NextSteps) == 0 {
		t.Error("expected nextSteps guidance")
	}
}

func TestExtract_UnparseableResponseDegrades(t *testing.T) {
	svc := newTestService(
		&mockBatchEmbedder{anyReal: true},
		&mockRetriever{mode: domext.ModeVector},
		&mockPipelineGenerator{response: "I cannot read this document, sorry."},
	)

	result, err := svc.Extract(context.Background(), Input{DocumentID: "doc-1", Text: deckText})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.Confidence != domext.ConfidenceLow {
		t.Errorf("expected degraded success, got success=%v confidence=%q", result.Success, result.Confidence)
	}
	if result.AIError == "" {
		t.Error("expected aiError for unparseable output")
	}
}

func TestExtract_InsufficientContentIsHardFailure(t *testing.T) {
	svc := newTestService(
		&mockBatchEmbedder{anyReal: true},
		&mockRetriever{mode: domext.ModeVector},
		&mockPipelineGenerator{response: "{}"},
	)

	_, err := svc.Extract(context.Background(), Input{DocumentID: "doc-1", Text: "too short"})
	if !errors.Is(err, domain.ErrInsufficientContent) {
		t.Fatalf("expected ErrInsufficientContent, got %v", err)
	}
}

func TestExtract_TimeoutIsHardFailure(t *testing.T) {
	svc := New(
		&mockBatchEmbedder{anyReal: true},
		&mockRetriever{mode: domext.ModeVector},
		mockPromptBuilder{},
		&mockPipelineGenerator{block: true},
		Config{ChunkSize: 300, TopK: 5, MinContentLength: 100, Timeout: 1},
		zap.NewNop(),
	)

	_, err := svc.Extract(context.Background(), Input{DocumentID: "doc-1", Text: deckText})
	if err == nil {
		t.Fatal("expected a hard timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded in chain, got %v", err)
	}
}

func TestExtract_ObservabilityFieldsPopulated(t *testing.T) {
	svc := newTestService(
		&mockBatchEmbedder{anyReal: true},
		&mockRetriever{mode: domext.ModeVector},
		&mockPipelineGenerator{response: `{"company": "Acme"}`},
	)

	result, err := svc.Extract(context.Background(), Input{DocumentID: "doc-1", Text: deckText})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ChunkCount == 0 {
		t.Error("expected non-zero chunk count")
	}
	if result.RetrievedChunks == 0 || result.RetrievedChunks > 5 {
		t.Errorf("retrieved chunks out of range: %d", result.RetrievedChunks)
	}
	if result.TopScore != 0.9 {
		t.Errorf("expected top score propagated, got %v", result.TopScore)
	}
	if result.ProcessingTime < 0 {
		t.Errorf("negative processing time: %d", result.ProcessingTime)
	}
}
