package ports

import "context"

type GenerationRequest struct {
	Prompt string
}

// Generator returns the raw generated text for a prompt, including any echo
// of the prompt the provider chooses to return.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
