// Package sms adapts the shared SMS sender to the passcode delivery
// contract.
package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/shandysiswandi/passgate/internal/pkg/config"
	"github.com/shandysiswandi/passgate/internal/pkg/instrument"
	"github.com/shandysiswandi/passgate/internal/pkg/sms"
	"go.opentelemetry.io/otel/codes"
)

const defaultSendTimeout = 10 * time.Second

// Sender delivers passcodes over SMS with a bounded timeout per send.
type Sender struct {
	client  sms.Sender
	enabled bool
	cfg     config.Config
	ins     instrument.Instrumentation
}

// NewSender constructs a Sender. When enabled is false the sender reports
// itself disabled and callers fall back to in-band codes.
func NewSender(client sms.Sender, enabled bool, cfg config.Config, ins instrument.Instrumentation) *Sender {
	return &Sender{client: client, enabled: enabled, cfg: cfg, ins: ins}
}

// Enabled reports whether real delivery is configured.
func (s *Sender) Enabled() bool {
	return s.enabled
}

// SendCode delivers the passcode to the phone number.
func (s *Sender) SendCode(ctx context.Context, phone, code string) error {
	ctx, span := s.ins.Tracer("otp.outbound.sms").Start(ctx, "SendCode")
	defer span.End()

	timeout := s.cfg.GetSecond("sms.send_timeout_second")
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body := fmt.Sprintf("Your verification code is %s", code)
	if tmpl := s.cfg.GetString("modules.otp.message_template"); tmpl != "" {
		body = fmt.Sprintf(tmpl, code)
	}

	if err := s.client.Send(ctx, sms.Message{To: phone, Body: body}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
