// Package llm abstracts chat-completion providers behind a small
// interface so the upstream vendor can be swapped without touching
// callers.
package llm

import (
	"context"
	"errors"
	"io"
)

// ErrUpstreamAuth indicates the provider rejected our credentials.
var ErrUpstreamAuth = errors.New("llm: upstream rejected credentials")

// ChatMessage is a single turn in a chat-completion conversation.
type ChatMessage struct {
	// Role is one of "system", "user" or "assistant".
	Role string

	// Content is the text of the turn.
	Content string
}

// ChatRequest holds the inputs for a chat completion.
type ChatRequest struct {
	// Model names the upstream model to use.
	Model string

	// Messages is the ordered conversation history.
	Messages []ChatMessage

	// Temperature controls sampling randomness. Nil uses the provider
	// default.
	Temperature *float32

	// MaxTokens caps the completion length. Zero uses the provider
	// default.
	MaxTokens int
}

// ChatResponse is the provider's reply to a chat completion.
type ChatResponse struct {
	// ID is the provider-assigned identifier for the completion.
	ID string

	// Model is the model that produced the completion.
	Model string

	// Content is the text of the first choice.
	Content string

	// FinishReason explains why generation stopped.
	FinishReason string

	// PromptTokens and CompletionTokens report usage as counted by the
	// provider.
	PromptTokens     int
	CompletionTokens int
}

// Completer produces chat completions.
type Completer interface {
	io.Closer

	// Complete runs a single chat completion against the upstream
	// provider. Credential failures are reported as ErrUpstreamAuth.
	Complete(ctx context.Context, req ChatRequest) (ChatResponse, error)
}
