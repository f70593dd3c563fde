package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shandysiswandi/passgate/internal/pkg/goerror"
	"github.com/shandysiswandi/passgate/internal/pkg/instrument"
	"github.com/shandysiswandi/passgate/internal/pkg/llm"
	"github.com/shandysiswandi/passgate/internal/pkg/validator"
)

type fakeCompleter struct {
	err error

	gotModel     string
	gotMessage   string
	gotMaxTokens int
}

func (f *fakeCompleter) Complete(_ context.Context, model, message string, maxTokens int) (*CompletionResult, error) {
	f.gotModel = model
	f.gotMessage = message
	f.gotMaxTokens = maxTokens

	if f.err != nil {
		return nil, f.err
	}

	return &CompletionResult{Reply: "hello from the model", Model: model}, nil
}

type fakeConfig struct {
	ints    map[string]int
	strings map[string]string
}

func (fakeConfig) Close() error                   { return nil }
func (fakeConfig) GetBool(string) bool            { return false }
func (fakeConfig) GetFloat64(string) float64      { return 0 }
func (fakeConfig) GetArray(string) []string       { return nil }
func (fakeConfig) GetSecond(string) time.Duration { return 0 }
func (fakeConfig) GetMinute(string) time.Duration { return 0 }

func (f fakeConfig) GetInt(key string) int {
	return f.ints[key]
}

func (f fakeConfig) GetString(key string) string {
	return f.strings[key]
}

func newUsecase(t *testing.T, completer *fakeCompleter, cfg *fakeConfig) *Usecase {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	return New(Dependency{
		RepoCompleter: completer,
		Validator:     v10,
		Config:        cfg,
		Instrument:    instrument.NewNoop(),
	})
}

func TestCompletion(t *testing.T) {
	completer := &fakeCompleter{}
	cfg := &fakeConfig{
		ints:    map[string]int{"modules.chat.max_tokens": 256},
		strings: map[string]string{"modules.chat.model": "gpt-4o"},
	}
	uc := newUsecase(t, completer, cfg)

	out, err := uc.Completion(context.Background(), CompletionInput{Message: "hi"})
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	if out.Reply != "hello from the model" {
		t.Fatalf("Completion().Reply = %q", out.Reply)
	}
	if completer.gotModel != "gpt-4o" {
		t.Fatalf("model = %q, want %q", completer.gotModel, "gpt-4o")
	}
	if completer.gotMaxTokens != 256 {
		t.Fatalf("maxTokens = %d, want 256", completer.gotMaxTokens)
	}
}

func TestCompletionDefaults(t *testing.T) {
	completer := &fakeCompleter{}
	cfg := &fakeConfig{ints: map[string]int{}, strings: map[string]string{}}
	uc := newUsecase(t, completer, cfg)

	if _, err := uc.Completion(context.Background(), CompletionInput{Message: "hi"}); err != nil {
		t.Fatalf("Completion: %v", err)
	}
	if completer.gotModel != defaultModel {
		t.Fatalf("model = %q, want %q", completer.gotModel, defaultModel)
	}
	if completer.gotMaxTokens != defaultMaxTokens {
		t.Fatalf("maxTokens = %d, want %d", completer.gotMaxTokens, defaultMaxTokens)
	}
}

func TestCompletionEmptyMessage(t *testing.T) {
	uc := newUsecase(t, &fakeCompleter{}, &fakeConfig{ints: map[string]int{}, strings: map[string]string{}})

	if _, err := uc.Completion(context.Background(), CompletionInput{}); err == nil {
		t.Fatal("Completion() error = nil, want validation error")
	}
}

func TestCompletionUpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantReason string
	}{
		{
			name:       "auth rejected",
			err:        fmt.Errorf("%w: status 401", llm.ErrUpstreamAuth),
			wantReason: ReasonUpstreamAuth,
		},
		{
			name:       "provider down",
			err:        errors.New("connection refused"),
			wantReason: ReasonUpstreamError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUsecase(t, &fakeCompleter{err: tt.err}, &fakeConfig{ints: map[string]int{}, strings: map[string]string{}})

			_, err := uc.Completion(context.Background(), CompletionInput{Message: "hi"})
			if err == nil {
				t.Fatal("Completion() error = nil, want upstream error")
			}

			var gerr *goerror.Error
			if !errors.As(err, &gerr) {
				t.Fatalf("error %v is not a structured error", err)
			}
			if gerr.Reason() != tt.wantReason {
				t.Fatalf("reason = %q, want %q", gerr.Reason(), tt.wantReason)
			}
			if gerr.StatusCode() != http.StatusBadGateway {
				t.Fatalf("status = %d, want %d", gerr.StatusCode(), http.StatusBadGateway)
			}

			// Clients never see the provider's own message.
			if gerr.Msg() == tt.err.Error() {
				t.Fatalf("client message leaks provider detail: %q", gerr.Msg())
			}
		})
	}
}
