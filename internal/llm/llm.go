// Package llm defines the narrow capability contract agents call to turn a
// prompt into directive text. Concrete remote backends live in
// internal/llmclient and are wired in from cmd/agent; this package only
// ships the interface plus a deterministic mock and an interactive console
// client for debugging without a live model.
package llm

import "context"

// Message is one turn of the conversation handed to the model.
type Message struct {
	Role    string // "system", "user", or "assistant"
	Content string
}

// Provider is the capability every agent holds a reference to. It is
// deliberately narrow: no streaming, no tool calls, no structured output —
// those belong to internal/llmclient's concrete backends, not to the core.
type Provider interface {
	GenerateResponse(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error)
}
