// Package extraction orchestrates the per-document pipeline: normalize,
// chunk, embed, retrieve, prompt, generate, parse, validate. One linear flow
// per request; no state outlives the invocation.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/decklens/decklens/internal/domain"
	"github.com/decklens/decklens/internal/domain/chunk"
	"github.com/decklens/decklens/internal/domain/document"
	domext "github.com/decklens/decklens/internal/domain/extraction"
	"github.com/decklens/decklens/internal/domain/record"
	"github.com/decklens/decklens/internal/metrics"
	"github.com/decklens/decklens/internal/usecase/parse"
	"github.com/decklens/decklens/internal/usecase/prompt"
)

// degradedNextSteps is the guidance attached to a sentinel-filled result so
// a low-confidence response stands in for a hard failure.
var degradedNextSteps = []string{
	"Verify the generation API key, model name, and remaining quota",
	"Retry the extraction once the generation capability recovers",
	"Review the document manually; the text was readable and chunked successfully",
}

// Service runs the extraction pipeline.
type Service struct {
	embedder  BatchEmbedder
	retriever Retriever
	prompts   PromptBuilder
	generator Generator
	cfg       Config
	logger    *zap.Logger
}

// New creates the pipeline service.
func New(
	embedder BatchEmbedder,
	retriever Retriever,
	prompts PromptBuilder,
	generator Generator,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120
	}
	return &Service{
		embedder:  embedder,
		retriever: retriever,
		prompts:   prompts,
		generator: generator,
		cfg:       cfg,
		logger:    logger,
	}
}

// Extract runs the pipeline for one document under an overall deadline.
//
// Hard failures (error return) are limited to unusable documents and an
// elapsed deadline. Generation and parsing failures degrade: the result still
// reports success with a sentinel-filled record, low confidence, and an
// aiError explaining what went wrong.
func (s *Service) Extract(ctx context.Context, input Input) (domext.Result, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Timeout)*time.Second)
	defer cancel()

	doc, err := document.New(input.DocumentID, input.Text, s.cfg.MinContentLength)
	if err != nil {
		metrics.ExtractionsTotal.WithLabelValues("", "", "rejected").Inc()
		return domext.Result{}, err
	}

	chunks, err := chunk.Split(doc.Normalized, s.cfg.ChunkSize)
	if err != nil {
		metrics.ExtractionsTotal.WithLabelValues("", "", "rejected").Inc()
		return domext.Result{}, err
	}

	set := s.embedder.EmbedAll(ctx, chunk.Texts(chunks))
	if set.Degraded > 0 {
		s.logger.Info("Embedding batch partially degraded",
			zap.String("document_id", doc.ID),
			zap.Int("degraded", set.Degraded),
			zap.Int("total", len(chunks)),
		)
	}

	sel := s.retriever.Retrieve(ctx, chunks, set, prompt.Query, s.cfg.TopK)

	base := domext.Result{
		ExtractionID:    uuid.NewString(),
		ChunkCount:      len(chunks),
		RetrievedChunks: len(sel.Chunks),
		DegradedChunks:  set.Degraded,
		RetrievalMode:   sel.Mode,
		TopScore:        sel.TopScore,
		RAGUsed:         sel.Mode == domext.ModeVector,
	}

	promptText := s.prompts.Build(sel.Chunks, len(doc.Normalized))

	raw, err := s.generator.Generate(ctx, promptText)
	if err != nil {
		if deadlineErr := ctx.Err(); deadlineErr != nil {
			metrics.ExtractionsTotal.WithLabelValues("", string(sel.Mode), "timeout").Inc()
			return domext.Result{}, fmt.Errorf("pipeline deadline elapsed: %w", deadlineErr)
		}
		return s.degraded(base, start, err), nil
	}

	fields, err := parse.Fields(raw)
	if err != nil {
		return s.degraded(base, start, err), nil
	}

	base.Success = true
	base.Data = record.FromFields(fields)
	base.Confidence = domext.ConfidenceMedium
	base.Source = "keyword-retrieval"
	if base.RAGUsed {
		base.Confidence = domext.ConfidenceHigh
		base.Source = "rag"
	}
	base.ProcessingTime = time.Since(start).Milliseconds()

	s.observe(base, "success", start)
	s.logger.Info("Extraction completed",
		zap.String("document_id", doc.ID),
		zap.String("extraction_id", base.ExtractionID),
		zap.String("retrieval_mode", string(base.RetrievalMode)),
		zap.String("confidence", string(base.Confidence)),
		zap.Int("fields_specified", base.Data.SpecifiedCount()),
		zap.Int64("processing_ms", base.ProcessingTime),
	)
	return base, nil
}

// degraded converts a generation or parse failure into the best-effort
// terminal result: success with an all-sentinel record and diagnostics.
func (s *Service) degraded(base domext.Result, start time.Time, cause error) domext.Result {
	base.Success = true
	base.Data = record.Empty()
	base.Confidence = domext.ConfidenceLow
	base.Source = "degraded"
	base.AIError = cause.Error()
	base.NextSteps = degradedNextSteps
	base.ProcessingTime = time.Since(start).Milliseconds()

	status := "degraded"
	if errors.Is(cause, domain.ErrUnparseableResponse) {
		status = "unparseable"
	}
	s.observe(base, status, start)

	s.logger.Warn("Extraction degraded to sentinel record",
		zap.String("extraction_id", base.ExtractionID),
		zap.String("retrieval_mode", string(base.RetrievalMode)),
		zap.Error(cause),
	)
	return base
}

func (s *Service) observe(r domext.Result, status string, start time.Time) {
	metrics.ExtractionsTotal.WithLabelValues(string(r.Confidence), string(r.RetrievalMode), status).Inc()
	metrics.ExtractionDuration.WithLabelValues(string(r.RetrievalMode)).Observe(time.Since(start).Seconds())
}
