package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ErrOpenAIKeyRequired is returned when the API key is missing.
var ErrOpenAIKeyRequired = errors.New("llm: openai api key is required")

// OpenAIConfig configures the OpenAI completer.
type OpenAIConfig struct {
	// APIKey authenticates against the OpenAI API.
	APIKey string

	// BaseURL overrides the API endpoint. Intended for tests and
	// API-compatible gateways.
	BaseURL string

	// Timeout bounds a single completion request. Defaults to 60 seconds.
	Timeout time.Duration
}

// OpenAI is a Completer backed by the OpenAI chat-completions API.
type OpenAI struct {
	client *openai.Client
}

// NewOpenAI constructs an OpenAI completer.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrOpenAIKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	conf := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	conf.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAI{client: openai.NewClientWithConfig(conf)}, nil
}

// Close implements io.Closer.
func (*OpenAI) Close() error { return nil }

// Complete implements Completer.
func (o *OpenAI) Complete(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	ocReq := openai.ChatCompletionRequest{
		Model:     req.Model,
		Messages:  msgs,
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature != nil {
		ocReq.Temperature = *req.Temperature
	}

	resp, err := o.client.CreateChatCompletion(ctx, ocReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden {
				return ChatResponse{}, fmt.Errorf("%w: %v", ErrUpstreamAuth, err)
			}
		}
		return ChatResponse{}, fmt.Errorf("llm: openai chat completion: %w", err)
	}

	out := ChatResponse{
		ID:               resp.ID,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}
	if len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Message.Content
		out.FinishReason = string(resp.Choices[0].FinishReason)
	}

	return out, nil
}
