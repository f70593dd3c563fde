package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/passgate/internal/otp/entity"
	"github.com/shandysiswandi/passgate/internal/pkg/clock"
	"github.com/shandysiswandi/passgate/internal/pkg/config"
	"github.com/shandysiswandi/passgate/internal/pkg/hash"
	"github.com/shandysiswandi/passgate/internal/pkg/instrument"
	"github.com/shandysiswandi/passgate/internal/pkg/passcode"
	"github.com/shandysiswandi/passgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// Stable reason strings returned to clients on OTP failures.
const (
	ReasonNoChallenge     = "OTP_NO_CHALLENGE"
	ReasonExpired         = "OTP_EXPIRED"
	ReasonMismatch        = "OTP_MISMATCH"
	ReasonTooManyAttempts = "OTP_TOO_MANY_ATTEMPTS"
	ReasonDeliveryFailed  = "OTP_DELIVERY_FAILED"
)

// Verification outcomes carried on audit events.
const (
	OutcomeVerified        = "verified"
	OutcomeMismatch        = "mismatch"
	OutcomeExpired         = "expired"
	OutcomeTooManyAttempts = "too_many_attempts"
)

type OTPIssuedEvent struct {
	Phone     string
	TTL       time.Duration
	ExpiresAt time.Time
	Delivered bool
	IssuedAt  time.Time
}

type OTPVerifiedEvent struct {
	Phone      string
	Outcome    string
	VerifiedAt time.Time
}

type repoStore interface {
	Put(ctx context.Context, ch entity.Challenge) error
	Get(ctx context.Context, phone string) (*entity.Challenge, error)
	Delete(ctx context.Context, phone string) error
	IncrementAttempts(ctx context.Context, phone string) (int, error)
}

type repoSender interface {
	SendCode(ctx context.Context, phone, code string) error
	Enabled() bool
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
	PublishOTPVerified(ctx context.Context, msg OTPVerifiedEvent) error
}

type Usecase struct {
	repoStore     repoStore
	repoSender    repoSender
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	generator     passcode.Generator
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoStore     repoStore
	RepoSender    repoSender
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Generator     passcode.Generator
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoStore:     dep.RepoStore,
		repoSender:    dep.RepoSender,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		generator:     dep.Generator,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

// ttl resolves the challenge lifetime. Every challenge gets the same
// configured lifetime, there is no per-request knob.
func (s *Usecase) ttl() time.Duration {
	if d := s.cfg.GetSecond("modules.otp.default_ttl_second"); d > 0 {
		return d
	}

	return 5 * time.Minute
}
