// Package gemini is the text-generation provider over the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/decklens/decklens/internal/domain"
	"github.com/decklens/decklens/internal/metrics"
)

// Generator implements domain.Generator against the Gemini generateContent API.
type Generator struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// Config holds the generation provider settings.
type Config struct {
	APIKey string
	Model  string
	Logger *zap.Logger
}

// NewGenerator creates a Gemini generation client. The underlying client is
// safe for reuse across concurrent pipeline invocations.
func NewGenerator(ctx context.Context, cfg *Config) (*Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Generator{client: client, model: cfg.Model, logger: cfg.Logger}, nil
}

// Generate implements domain.Generator. Single attempt; the retry budget is
// owned by the generation usecase.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)

	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues("gemini", g.model, "error").Inc()
		return "", classifyAPIError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		metrics.GenerationRequestsTotal.WithLabelValues("gemini", g.model, "empty").Inc()
		return "", fmt.Errorf("no text candidates returned: %w", domain.ErrEmptyResponse)
	}

	metrics.GenerationRequestsTotal.WithLabelValues("gemini", g.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues("gemini", g.model).Observe(duration.Seconds())

	return text, nil
}

// HealthCheck verifies that the configured model is reachable.
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.Models.Get(ctx, g.model, nil); err != nil {
		return fmt.Errorf("get model %s: %w", g.model, err)
	}
	return nil
}

// classifyAPIError maps Gemini API failures onto the pipeline error taxonomy.
func classifyAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return fmt.Errorf("generation API error %d: %s: %w", apiErr.Code, apiErr.Message, domain.ErrPermissionDenied)
		case 429:
			return fmt.Errorf("generation API error %d: %s: %w", apiErr.Code, apiErr.Message, domain.ErrQuotaExceeded)
		}
		return fmt.Errorf("generation API error %d: %s: %w", apiErr.Code, apiErr.Message, domain.ErrGenerationUnavailable)
	}
	return fmt.Errorf("generation request failed: %s: %w", err.Error(), domain.ErrGenerationUnavailable)
}
