package embedding

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/decklens/decklens/internal/domain"
)

type stubEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (m *stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

func TestInstrumentedEmbedder_Success(t *testing.T) {
	inner := &stubEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2, 0.3},
	}}
	p := NewInstrumentedEmbedder(inner, "test", "test-model", nil, zap.NewNop())

	result, err := p.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 {
		t.Fatalf("expected 3 dimensions, got %d", len(result.Embedding))
	}
}

func TestInstrumentedEmbedder_Error(t *testing.T) {
	inner := &stubEmbedder{err: fmt.Errorf("api error")}
	p := NewInstrumentedEmbedder(inner, "test-err", "test-model-e", nil, zap.NewNop())

	_, err := p.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestInstrumentedEmbedder_BudgetRejection(t *testing.T) {
	budget := NewBudgetTracker("test-budget", 100, 0, BudgetActionReject, zap.NewNop())
	budget.Record(100)

	inner := &stubEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2, 0.3},
	}}
	p := NewInstrumentedEmbedder(inner, "test-budget", "test-model-b", budget, zap.NewNop())

	_, err := p.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error when budget exceeded")
	}
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected domain.ErrQuotaExceeded, got %v", err)
	}
}

func TestInstrumentedEmbedder_RecordsBudget(t *testing.T) {
	budget := NewBudgetTracker("test-record", 1000000, 10000000, BudgetActionReject, zap.NewNop())

	inner := &stubEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 500,
		TotalTokens:  500,
	}}
	p := NewInstrumentedEmbedder(inner, "test-record", "test-model-r", budget, zap.NewNop())

	initialDaily := budget.RemainingDaily()
	initialMonthly := budget.RemainingMonthly()

	result, err := p.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 {
		t.Fatalf("expected 3 dimensions, got %d", len(result.Embedding))
	}

	if got := initialDaily - budget.RemainingDaily(); got != 500 {
		t.Errorf("expected daily remaining to decrease by 500, decreased by %d", got)
	}
	if got := initialMonthly - budget.RemainingMonthly(); got != 500 {
		t.Errorf("expected monthly remaining to decrease by 500, decreased by %d", got)
	}
}

func TestInstrumentedEmbedder_NoBudgetConfigured(t *testing.T) {
	inner := &stubEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1},
		TotalTokens: 100,
	}}
	p := NewInstrumentedEmbedder(inner, "test-nb", "test-model", nil, zap.NewNop())

	if _, err := p.Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error without budget: %v", err)
	}
}
