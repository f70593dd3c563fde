// Package chat wires the chat relay module: the completion usecase, its
// HTTP endpoint, and the provider adapter.
package chat

import (
	"github.com/shandysiswandi/passgate/internal/chat/inbound"
	outllm "github.com/shandysiswandi/passgate/internal/chat/outbound/llm"
	"github.com/shandysiswandi/passgate/internal/chat/usecase"
	"github.com/shandysiswandi/passgate/internal/pkg/config"
	"github.com/shandysiswandi/passgate/internal/pkg/instrument"
	"github.com/shandysiswandi/passgate/internal/pkg/llm"
	"github.com/shandysiswandi/passgate/internal/pkg/router"
	"github.com/shandysiswandi/passgate/internal/pkg/validator"
)

type Dependency struct {
	Completer  llm.Completer              `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	completer := outllm.NewCompleter(dep.Completer, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoCompleter: completer,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
