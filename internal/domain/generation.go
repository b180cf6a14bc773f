package domain

import "context"

// Generator is the text-generation capability contract. Implementations
// return the raw model output; retry and response parsing live in the
// usecase layer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
