package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/passgate/internal/pkg/goerror"
)

// VerifyInput carries the caller's identity and submitted code. Neither
// field is shape-checked beyond presence: the identity is an opaque string
// and any wrong code, whatever its form, surfaces as a mismatch.
type VerifyInput struct {
	Phone string `validate:"required"`
	Code  string `validate:"required"`
}

type VerifyOutput struct {
	Verified bool
}

func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ch, err := s.repoStore.Get(ctx, in.Phone)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusinessReason("No passcode was requested for this phone", ReasonNoChallenge, goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get challenge", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	if ch.ExpiredAt(now) {
		if err := s.repoStore.Delete(ctx, in.Phone); err != nil {
			slog.ErrorContext(ctx, "failed to repo delete expired challenge", "phone", in.Phone, "error", err)
			return nil, goerror.NewServer(err)
		}

		s.publishVerified(ctx, in.Phone, OutcomeExpired, now)
		return nil, goerror.NewBusinessReason("The passcode has expired", ReasonExpired, goerror.CodeInvalidInput)
	}

	if !s.hmac.Verify(ch.CodeHash, in.Code) {
		return nil, s.onMismatch(ctx, in.Phone, now)
	}

	// Single use. The challenge is gone before the caller sees success.
	if err := s.repoStore.Delete(ctx, in.Phone); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete verified challenge", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.publishVerified(ctx, in.Phone, OutcomeVerified, now)

	return &VerifyOutput{Verified: true}, nil
}

// onMismatch counts the failed attempt. The challenge stays stored so the
// caller can retry, unless a configured attempt limit has been reached.
func (s *Usecase) onMismatch(ctx context.Context, phone string, now time.Time) error {
	attempts, err := s.repoStore.IncrementAttempts(ctx, phone)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo increment attempts", "phone", phone, "error", err)
		return goerror.NewServer(err)
	}

	maxAttempts := s.cfg.GetInt("modules.otp.max_attempts")
	if maxAttempts > 0 && attempts >= maxAttempts {
		if err := s.repoStore.Delete(ctx, phone); err != nil {
			slog.ErrorContext(ctx, "failed to repo delete exhausted challenge", "phone", phone, "error", err)
			return goerror.NewServer(err)
		}

		s.publishVerified(ctx, phone, OutcomeTooManyAttempts, now)
		return goerror.NewBusinessReason("Too many failed attempts, request a new passcode", ReasonTooManyAttempts, goerror.CodeTooManyRequest)
	}

	s.publishVerified(ctx, phone, OutcomeMismatch, now)
	return goerror.NewBusinessReason("The passcode is incorrect", ReasonMismatch, goerror.CodeUnauthorized)
}

func (s *Usecase) publishVerified(ctx context.Context, phone, outcome string, now time.Time) {
	if err := s.repoMessaging.PublishOTPVerified(ctx, OTPVerifiedEvent{
		Phone:      phone,
		Outcome:    outcome,
		VerifiedAt: now,
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish otp verified", "phone", phone, "outcome", outcome, "error", err)
	}
}
