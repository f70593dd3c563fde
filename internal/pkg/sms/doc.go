// Package sms provides a small abstraction for sending SMS messages.
//
// It defines a Sender interface so delivery providers can be swapped
// without touching callers, plus a Twilio implementation and a no-op
// implementation for local development.
package sms
