package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/passgate/internal/otp/usecase"
	"github.com/shandysiswandi/passgate/internal/pkg/instrument"
	"github.com/shandysiswandi/passgate/internal/pkg/messaging"
	"github.com/shandysiswandi/passgate/internal/pkg/uid"
	"github.com/shandysiswandi/passgate/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

// Messaging publishes passcode audit events. Publishes are retried with a
// short backoff because audit delivery is best-effort and must not block
// the passcode flow for long.
type Messaging struct {
	client messaging.Publisher
	uid    uid.NumberID
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, uid uid.NumberID, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, uid: uid, ins: ins}
}

func (m *Messaging) PublishOTPIssued(ctx context.Context, msg usecase.OTPIssuedEvent) error {
	ctx, span := m.ins.Tracer("otp.outbound.mq").Start(ctx, "PublishOTPIssued")
	defer span.End()

	body, err := json.Marshal(event.OTPIssuedMessage{
		EventID:   m.uid.Generate(),
		Phone:     msg.Phone,
		TTLSecond: int64(msg.TTL.Seconds()),
		ExpiresAt: msg.ExpiresAt.Unix(),
		Delivered: msg.Delivered,
		IssuedAt:  msg.IssuedAt.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.publish(ctx, event.OTPIssuedDestination, body, msg.Phone); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishOTPVerified(ctx context.Context, msg usecase.OTPVerifiedEvent) error {
	ctx, span := m.ins.Tracer("otp.outbound.mq").Start(ctx, "PublishOTPVerified")
	defer span.End()

	body, err := json.Marshal(event.OTPVerifiedMessage{
		EventID:    m.uid.Generate(),
		Phone:      msg.Phone,
		Outcome:    msg.Outcome,
		VerifiedAt: msg.VerifiedAt.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.publish(ctx, event.OTPVerifiedDestination, body, msg.Phone); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) publish(ctx context.Context, destination string, body []byte, orderKey string) error {
	cID := instrument.GetCorrelationID(ctx)

	backoff := retry.WithMaxRetries(2, retry.NewExponential(100*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := m.client.Publish(ctx, destination, messaging.OutgoingMessage{
			Body:        body,
			Key:         []byte(orderKey),
			OrderingKey: orderKey,
			Headers:     []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
			Attributes:  map[string]string{keyOfCorrelationID: cID},
		})
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
