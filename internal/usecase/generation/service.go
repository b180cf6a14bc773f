// Package generation wraps the generation capability with the pipeline's
// bounded retry policy.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/decklens/decklens/internal/domain"
	"github.com/decklens/decklens/internal/retry"
)

// Service calls the generation capability with retry. Failures here are
// recoverable at the pipeline boundary, not fatal to the request.
type Service struct {
	generator domain.Generator
	policy    retry.Policy
	logger    *zap.Logger
}

// New creates a generation service.
func New(generator domain.Generator, policy retry.Policy, logger *zap.Logger) *Service {
	return &Service{generator: generator, policy: policy, logger: logger}
}

// Generate sends the prompt and returns raw model text. Retries transient
// failures with the shared backoff policy; permission and quota errors are
// not retried; another attempt cannot change the outcome.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	var raw string
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		text, genErr := s.generator.Generate(ctx, prompt)
		if genErr != nil {
			if errors.Is(genErr, domain.ErrPermissionDenied) || errors.Is(genErr, domain.ErrQuotaExceeded) {
				return retry.Stop(genErr)
			}
			return genErr
		}
		raw = text
		return nil
	})

	duration := time.Since(start)

	if err != nil {
		s.logger.Warn("Generation failed after retries",
			zap.Duration("duration", duration),
			zap.Int("prompt_chars", len(prompt)),
			zap.Error(err),
		)
		if errors.Is(err, domain.ErrPermissionDenied) ||
			errors.Is(err, domain.ErrQuotaExceeded) ||
			errors.Is(err, domain.ErrEmptyResponse) {
			return "", err
		}
		return "", fmt.Errorf("%w: %s", domain.ErrGenerationUnavailable, err.Error())
	}

	if strings.TrimSpace(raw) == "" {
		return "", domain.ErrEmptyResponse
	}

	s.logger.Debug("Generation completed",
		zap.Duration("duration", duration),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("response_chars", len(raw)),
	)
	return raw, nil
}
