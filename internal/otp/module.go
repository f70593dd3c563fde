// Package otp wires the one-time-passcode module: the lifecycle usecase,
// its HTTP endpoints, and its outbound adapters.
package otp

import (
	"github.com/shandysiswandi/passgate/internal/otp/inbound"
	outmq "github.com/shandysiswandi/passgate/internal/otp/outbound/mq"
	outsms "github.com/shandysiswandi/passgate/internal/otp/outbound/sms"
	"github.com/shandysiswandi/passgate/internal/otp/store"
	"github.com/shandysiswandi/passgate/internal/otp/usecase"
	"github.com/shandysiswandi/passgate/internal/pkg/clock"
	"github.com/shandysiswandi/passgate/internal/pkg/config"
	"github.com/shandysiswandi/passgate/internal/pkg/hash"
	"github.com/shandysiswandi/passgate/internal/pkg/instrument"
	"github.com/shandysiswandi/passgate/internal/pkg/messaging"
	"github.com/shandysiswandi/passgate/internal/pkg/passcode"
	"github.com/shandysiswandi/passgate/internal/pkg/router"
	"github.com/shandysiswandi/passgate/internal/pkg/sms"
	"github.com/shandysiswandi/passgate/internal/pkg/uid"
	"github.com/shandysiswandi/passgate/internal/pkg/validator"
)

type Dependency struct {
	Store      store.Store                `validate:"required"`
	SMS        sms.Sender                 `validate:"required"`
	SMSEnabled bool
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Generator  passcode.Generator         `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	sender := outsms.NewSender(dep.SMS, dep.SMSEnabled, dep.Config, dep.Instrument)
	repoMsg := outmq.NewMessaging(dep.Messaging, dep.UID, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoStore:     dep.Store,
		RepoSender:    sender,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		Generator:     dep.Generator,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
