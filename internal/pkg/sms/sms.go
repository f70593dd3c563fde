package sms

import (
	"context"
	"io"
)

// Message is a single outbound SMS.
type Message struct {
	// To is the destination phone number in E.164 format.
	To string

	// Body is the text content of the message.
	Body string
}

// Sender sends SMS messages through a delivery provider.
type Sender interface {
	io.Closer

	// Send delivers a message. A nil error means the provider accepted
	// the message for delivery, not that the handset received it.
	Send(ctx context.Context, msg Message) error
}

// Noop is a Sender that drops every message. Useful for local
// development and tests.
type Noop struct{}

// NewNoop constructs a no-op sender.
func NewNoop() *Noop {
	return &Noop{}
}

// Close implements io.Closer.
func (*Noop) Close() error { return nil }

// Send implements Sender by discarding the message.
func (*Noop) Send(ctx context.Context, _ Message) error {
	return ctx.Err()
}
