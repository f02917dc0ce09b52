package domain

import (
	"context"
	"fmt"
)

// Completer is the text-completion boundary. Implementations issue one
// non-streaming completion call and return the model's text verbatim.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userText string, temperature float64, maxTokens int) (string, error)
	Name() string
	Healthy(ctx context.Context) error
}

// GenerationError wraps a transport, HTTP, or quota failure from the
// completion service. Callers at the responder boundary convert it to a
// fixed user-safe string; it is never shown to end users raw.
type GenerationError struct {
	Provider string
	Stage    string // "score" | "generate" | "synthesize" | "health"
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (provider=%s stage=%s): %v", e.Provider, e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
