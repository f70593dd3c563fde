package messaging

import "context"

// Noop is a Publisher that drops every message.
//
// It is the default for deployments without a broker; audit events are
// best-effort and the core passcode flows never depend on them.
type Noop struct{}

// NewNoop constructs a no-op publisher.
func NewNoop() *Noop {
	return &Noop{}
}

// Publish drops the message and reports success.
func (*Noop) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	return PublishResult{Topic: destination}, nil
}

// Close implements io.Closer.
func (*Noop) Close() error {
	return nil
}
