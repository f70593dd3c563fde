package store

import (
	"context"
	"sync"

	"github.com/shandysiswandi/passgate/internal/otp/entity"
	"github.com/shandysiswandi/passgate/internal/pkg/clock"
	"github.com/shandysiswandi/passgate/internal/pkg/goerror"
)

// DefaultMemoryCapacity bounds the in-process store when no capacity is
// configured.
const DefaultMemoryCapacity = 10_000

// Memory is an in-process Store backed by a mutex-guarded map.
//
// When the store is full, expired entries are reaped first; if none are
// expired, the challenge closest to its deadline is evicted to make room.
type Memory struct {
	clock    clock.Clocker
	capacity int

	mu         sync.Mutex
	challenges map[string]entity.Challenge
}

// NewMemory constructs a memory store. A non-positive capacity falls back
// to DefaultMemoryCapacity.
func NewMemory(clk clock.Clocker, capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}

	return &Memory{
		clock:      clk,
		capacity:   capacity,
		challenges: make(map[string]entity.Challenge),
	}
}

// Close implements io.Closer.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.challenges = make(map[string]entity.Challenge)
	return nil
}

// Put stores a challenge, replacing any pending one for the same phone.
func (m *Memory) Put(ctx context.Context, ch entity.Challenge) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.challenges[ch.Phone]; !exists && len(m.challenges) >= m.capacity {
		m.evictLocked()
	}

	m.challenges[ch.Phone] = ch
	return nil
}

// Get returns the pending challenge for a phone.
func (m *Memory) Get(ctx context.Context, phone string) (*entity.Challenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.challenges[phone]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &ch, nil
}

// Delete removes the pending challenge for a phone.
func (m *Memory) Delete(ctx context.Context, phone string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.challenges, phone)
	return nil
}

// IncrementAttempts bumps the failed-attempt counter for a pending challenge.
func (m *Memory) IncrementAttempts(ctx context.Context, phone string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.challenges[phone]
	if !ok {
		return 0, goerror.ErrNotFound
	}

	ch.Attempts++
	m.challenges[phone] = ch
	return ch.Attempts, nil
}

// Sweep reaps expired challenges and returns how many were removed.
// Intended to be driven by a periodic background task.
func (m *Memory) Sweep(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	removed := 0
	for phone, ch := range m.challenges {
		if ch.ExpiredAt(now) {
			delete(m.challenges, phone)
			removed++
		}
	}

	return removed
}

// Len reports the number of stored challenges, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.challenges)
}

// evictLocked frees one slot. Callers must hold the mutex.
func (m *Memory) evictLocked() {
	now := m.clock.Now()

	reaped := false
	for phone, ch := range m.challenges {
		if ch.ExpiredAt(now) {
			delete(m.challenges, phone)
			reaped = true
		}
	}
	if reaped {
		return
	}

	var victim string
	var victimFound bool
	for phone, ch := range m.challenges {
		if !victimFound || ch.ExpiresAt.Before(m.challenges[victim].ExpiresAt) {
			victim = phone
			victimFound = true
		}
	}
	if victimFound {
		delete(m.challenges, victim)
	}
}
