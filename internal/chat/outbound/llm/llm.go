// Package llm adapts the shared completion client to the chat relay
// contract.
package llm

import (
	"context"

	"github.com/shandysiswandi/passgate/internal/chat/usecase"
	"github.com/shandysiswandi/passgate/internal/pkg/instrument"
	"github.com/shandysiswandi/passgate/internal/pkg/llm"
	"go.opentelemetry.io/otel/codes"
)

// Completer forwards chat messages to the completion provider.
type Completer struct {
	client llm.Completer
	ins    instrument.Instrumentation
}

func NewCompleter(client llm.Completer, ins instrument.Instrumentation) *Completer {
	return &Completer{client: client, ins: ins}
}

func (c *Completer) Complete(ctx context.Context, model, message string, maxTokens int) (*usecase.CompletionResult, error) {
	ctx, span := c.ins.Tracer("chat.outbound.llm").Start(ctx, "Complete")
	defer span.End()

	resp, err := c.client.Complete(ctx, llm.ChatRequest{
		Model:     model,
		Messages:  []llm.ChatMessage{{Role: "user", Content: message}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &usecase.CompletionResult{Reply: resp.Content, Model: resp.Model}, nil
}
