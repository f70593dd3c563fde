package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/passgate/internal/otp/entity"
	"github.com/shandysiswandi/passgate/internal/pkg/goerror"
)

type IssueInput struct {
	Phone string `validate:"required"`
}

type IssueOutput struct {
	Issued    bool
	ExpiresAt int64

	// Code carries the plaintext passcode only when no delivery provider
	// is configured, so local setups can complete the flow in-band.
	Code string
}

func (s *Usecase) Issue(ctx context.Context, in IssueInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "Issue")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	code, err := s.generator.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate passcode", "error", err)
		return nil, goerror.NewServer(err)
	}

	digest, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash passcode", "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.ttl()
	now := s.clock.Now()
	expiresAt := now.Add(ttl)

	if err := s.repoStore.Put(ctx, entity.Challenge{
		Phone:     in.Phone,
		CodeHash:  string(digest),
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo put challenge", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	delivered := false
	if s.repoSender.Enabled() {
		if err := s.repoSender.SendCode(ctx, in.Phone, code); err != nil {
			slog.ErrorContext(ctx, "failed to deliver passcode", "phone", in.Phone, "error", err)
			return nil, goerror.NewDependency(err, "Failed to deliver the passcode", ReasonDeliveryFailed)
		}
		delivered = true
	}

	if err := s.repoMessaging.PublishOTPIssued(ctx, OTPIssuedEvent{
		Phone:     in.Phone,
		TTL:       ttl,
		ExpiresAt: expiresAt,
		Delivered: delivered,
		IssuedAt:  now,
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish otp issued", "phone", in.Phone, "error", err)
	}

	out := &IssueOutput{Issued: true, ExpiresAt: expiresAt.Unix()}
	if !delivered {
		out.Code = code
	}

	return out, nil
}
