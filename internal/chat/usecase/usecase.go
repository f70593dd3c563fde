package usecase

import (
	"context"

	"github.com/shandysiswandi/passgate/internal/pkg/config"
	"github.com/shandysiswandi/passgate/internal/pkg/instrument"
	"github.com/shandysiswandi/passgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// Stable reason strings returned to clients on relay failures.
const (
	ReasonUpstreamAuth  = "CHAT_UPSTREAM_AUTH"
	ReasonUpstreamError = "CHAT_UPSTREAM_ERROR"
)

type CompletionResult struct {
	Reply string
	Model string
}

type repoCompleter interface {
	Complete(ctx context.Context, model, message string, maxTokens int) (*CompletionResult, error)
}

type Usecase struct {
	repoCompleter repoCompleter
	validator     validator.Validator
	cfg           config.Config
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoCompleter repoCompleter
	Validator     validator.Validator
	Config        config.Config
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoCompleter: dep.RepoCompleter,
		validator:     dep.Validator,
		cfg:           dep.Config,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("chat.usecase").Start(ctx, name)
}
