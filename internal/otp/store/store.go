// Package store persists pending one-time-passcode challenges.
//
// Two implementations are provided: an in-process memory store for
// single-instance deployments and a Redis store for deployments that
// need challenges to survive restarts or be shared across replicas.
package store

import (
	"context"
	"io"

	"github.com/shandysiswandi/passgate/internal/otp/entity"
)

// Store is the challenge persistence contract.
//
// Challenges are keyed by phone number, one pending challenge per phone.
// Expiry is decided by callers against Challenge.ExpiresAt; implementations
// may additionally reap expired entries on their own.
type Store interface {
	io.Closer

	// Put stores a challenge, replacing any pending one for the same phone.
	Put(ctx context.Context, ch entity.Challenge) error

	// Get returns the pending challenge for a phone, including an expired
	// one that has not been reaped yet. Returns goerror.ErrNotFound when
	// no challenge is pending.
	Get(ctx context.Context, phone string) (*entity.Challenge, error)

	// Delete removes the pending challenge for a phone. Removing an absent
	// challenge is not an error.
	Delete(ctx context.Context, phone string) error

	// IncrementAttempts bumps the failed-attempt counter for a pending
	// challenge and returns the new value. Returns goerror.ErrNotFound
	// when no challenge is pending.
	IncrementAttempts(ctx context.Context, phone string) (int, error)
}
