package retrieval

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/decklens/decklens/internal/domain"
	"github.com/decklens/decklens/internal/domain/chunk"
	"github.com/decklens/decklens/internal/domain/extraction"
)

type mockQueryEmbedder struct {
	vec []float32
	err error
}

func (m *mockQueryEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return m.vec, m.err
}

func makeChunks(texts ...string) []chunk.Chunk {
	chunks := make([]chunk.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = chunk.Chunk{Index: i, Text: text}
	}
	return chunks
}

func TestRetrieve_VectorMode(t *testing.T) {
	chunks := makeChunks("first", "second", "third")
	set := domain.EmbeddingSet{
		Vectors: [][]float32{{0, 1}, {1, 0}, {0.7, 0.7}},
		AnyReal: true,
	}
	svc := New(&mockQueryEmbedder{vec: []float32{1, 0}}, zap.NewNop())

	sel := svc.Retrieve(context.Background(), chunks, set, "query", 2)
	if sel.Mode != extraction.ModeVector {
		t.Fatalf("expected vector mode, got %q", sel.Mode)
	}
	if len(sel.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(sel.Chunks))
	}
	// Chunk 1 is the exact match, chunk 2 is second-closest.
	if sel.Chunks[0].Text != "second" || sel.Chunks[1].Text != "third" {
		t.Errorf("unexpected ranking: %q then %q", sel.Chunks[0].Text, sel.Chunks[1].Text)
	}
	if sel.TopScore < 0.99 {
		t.Errorf("expected top score near 1, got %v", sel.TopScore)
	}
}

func TestRetrieve_KeywordModeWhenAllDegraded(t *testing.T) {
	chunks := makeChunks("our market and traction", "unrelated filler", "the team")
	set := domain.EmbeddingSet{
		Vectors: [][]float32{{0, 0}, {0, 0}, {0, 0}},
		Degraded: 3,
		AnyReal:  false,
	}
	svc := New(&mockQueryEmbedder{vec: []float32{1, 0}}, zap.NewNop())

	sel := svc.Retrieve(context.Background(), chunks, set, "query", 2)
	if sel.Mode != extraction.ModeKeyword {
		t.Fatalf("expected keyword mode, got %q", sel.Mode)
	}
	if sel.Chunks[0].Text != "our market and traction" {
		t.Errorf("expected highest keyword score first, got %q", sel.Chunks[0].Text)
	}
	if sel.TopScore != 2 {
		t.Errorf("expected top score 2, got %v", sel.TopScore)
	}
}

func TestRetrieve_QueryEmbedFailureFallsBackToKeyword(t *testing.T) {
	chunks := makeChunks("team and funding", "filler")
	set := domain.EmbeddingSet{
		Vectors: [][]float32{{1, 0}, {0, 1}},
		AnyReal: true,
	}
	svc := New(&mockQueryEmbedder{err: errors.New("provider down")}, zap.NewNop())

	sel := svc.Retrieve(context.Background(), chunks, set, "query", 2)
	if sel.Mode != extraction.ModeKeyword {
		t.Fatalf("expected keyword fallback, got %q", sel.Mode)
	}
}

func TestRetrieve_EmptyChunks(t *testing.T) {
	svc := New(&mockQueryEmbedder{}, zap.NewNop())
	sel := svc.Retrieve(context.Background(), nil, domain.EmbeddingSet{}, "query", 5)
	if len(sel.Chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(sel.Chunks))
	}
}

func TestRetrieve_Deterministic(t *testing.T) {
	chunks := makeChunks("market", "market", "market", "team")
	set := domain.EmbeddingSet{AnyReal: false, Vectors: make([][]float32, 4)}
	svc := New(&mockQueryEmbedder{}, zap.NewNop())

	first := svc.Retrieve(context.Background(), chunks, set, "query", 3)
	for i := 0; i < 10; i++ {
		again := svc.Retrieve(context.Background(), chunks, set, "query", 3)
		for j := range first.Chunks {
			if again.Chunks[j].Index != first.Chunks[j].Index {
				t.Fatalf("retrieval not deterministic on run %d", i)
			}
		}
	}
}
