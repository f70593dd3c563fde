package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/passgate/internal/pkg/goerror"
	"github.com/shandysiswandi/passgate/internal/pkg/llm"
)

const (
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 1024
)

type CompletionInput struct {
	Message string `validate:"required,max=8192"`
}

type CompletionOutput struct {
	Reply string
	Model string
}

func (s *Usecase) Completion(ctx context.Context, in CompletionInput) (*CompletionOutput, error) {
	ctx, span := s.startSpan(ctx, "Completion")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	model := s.cfg.GetString("modules.chat.model")
	if model == "" {
		model = defaultModel
	}

	maxTokens := s.cfg.GetInt("modules.chat.max_tokens")
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	res, err := s.repoCompleter.Complete(ctx, model, in.Message, maxTokens)
	if err != nil {
		// The provider message stays in server logs. Clients get a generic
		// error either way so key validity is never revealed.
		slog.ErrorContext(ctx, "failed to complete chat", "model", model, "error", err)

		if errors.Is(err, llm.ErrUpstreamAuth) {
			return nil, goerror.NewDependency(err, "The chat provider rejected the request", ReasonUpstreamAuth)
		}
		return nil, goerror.NewDependency(err, "The chat provider is unavailable", ReasonUpstreamError)
	}

	return &CompletionOutput{Reply: res.Reply, Model: res.Model}, nil
}
