package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/passgate/internal/otp/entity"
	"github.com/shandysiswandi/passgate/internal/pkg/goerror"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)}
}

func TestMemoryPutGetDelete(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	mem := NewMemory(clk, 0)

	if _, err := mem.Get(ctx, "+15550001111"); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("Get before Put error = %v, want ErrNotFound", err)
	}

	ch := entity.Challenge{
		Phone:     "+15550001111",
		CodeHash:  "digest-1",
		IssuedAt:  clk.Now(),
		ExpiresAt: clk.Now().Add(5 * time.Minute),
	}
	if err := mem.Put(ctx, ch); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := mem.Get(ctx, ch.Phone)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CodeHash != ch.CodeHash {
		t.Fatalf("Get().CodeHash = %q, want %q", got.CodeHash, ch.CodeHash)
	}

	if err := mem.Delete(ctx, ch.Phone); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := mem.Get(ctx, ch.Phone); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("Get after Delete error = %v, want ErrNotFound", err)
	}

	// Deleting an absent challenge is not an error.
	if err := mem.Delete(ctx, ch.Phone); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
}

func TestMemoryPutOverwrites(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	mem := NewMemory(clk, 0)

	first := entity.Challenge{Phone: "+15550001111", CodeHash: "digest-1", ExpiresAt: clk.Now().Add(time.Minute), Attempts: 3}
	second := entity.Challenge{Phone: "+15550001111", CodeHash: "digest-2", ExpiresAt: clk.Now().Add(2 * time.Minute)}

	if err := mem.Put(ctx, first); err != nil {
		t.Fatalf("Put first: %v", err)
	}
	if err := mem.Put(ctx, second); err != nil {
		t.Fatalf("Put second: %v", err)
	}

	got, err := mem.Get(ctx, "+15550001111")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CodeHash != "digest-2" {
		t.Fatalf("Get().CodeHash = %q, want %q", got.CodeHash, "digest-2")
	}
	if got.Attempts != 0 {
		t.Fatalf("Get().Attempts = %d, want reset to 0", got.Attempts)
	}
	if mem.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", mem.Len())
	}
}

func TestMemoryIncrementAttempts(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	mem := NewMemory(clk, 0)

	if _, err := mem.IncrementAttempts(ctx, "+15550001111"); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("IncrementAttempts absent error = %v, want ErrNotFound", err)
	}

	ch := entity.Challenge{Phone: "+15550001111", CodeHash: "digest", ExpiresAt: clk.Now().Add(time.Minute)}
	if err := mem.Put(ctx, ch); err != nil {
		t.Fatalf("Put: %v", err)
	}

	for want := 1; want <= 3; want++ {
		got, err := mem.IncrementAttempts(ctx, ch.Phone)
		if err != nil {
			t.Fatalf("IncrementAttempts: %v", err)
		}
		if got != want {
			t.Fatalf("IncrementAttempts = %d, want %d", got, want)
		}
	}
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	mem := NewMemory(clk, 0)

	for i := range 5 {
		ch := entity.Challenge{
			Phone:     fmt.Sprintf("+1555000%04d", i),
			CodeHash:  "digest",
			ExpiresAt: clk.Now().Add(time.Duration(i+1) * time.Minute),
		}
		if err := mem.Put(ctx, ch); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	clk.Advance(3*time.Minute + time.Second)

	if removed := mem.Sweep(ctx); removed != 3 {
		t.Fatalf("Sweep() = %d, want 3", removed)
	}
	if mem.Len() != 2 {
		t.Fatalf("Len() after sweep = %d, want 2", mem.Len())
	}
}

func TestMemoryCapacityEviction(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	mem := NewMemory(clk, 2)

	early := entity.Challenge{Phone: "+15550000001", CodeHash: "digest", ExpiresAt: clk.Now().Add(time.Minute)}
	late := entity.Challenge{Phone: "+15550000002", CodeHash: "digest", ExpiresAt: clk.Now().Add(time.Hour)}
	extra := entity.Challenge{Phone: "+15550000003", CodeHash: "digest", ExpiresAt: clk.Now().Add(30 * time.Minute)}

	for _, ch := range []entity.Challenge{early, late, extra} {
		if err := mem.Put(ctx, ch); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	// The entry closest to its deadline was evicted to make room.
	if _, err := mem.Get(ctx, early.Phone); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("Get evicted error = %v, want ErrNotFound", err)
	}
	if _, err := mem.Get(ctx, late.Phone); err != nil {
		t.Fatalf("Get survivor: %v", err)
	}
	if _, err := mem.Get(ctx, extra.Phone); err != nil {
		t.Fatalf("Get newcomer: %v", err)
	}
}

func TestMemoryCapacityReapsExpiredFirst(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	mem := NewMemory(clk, 2)

	expired := entity.Challenge{Phone: "+15550000001", CodeHash: "digest", ExpiresAt: clk.Now().Add(time.Minute)}
	alive := entity.Challenge{Phone: "+15550000002", CodeHash: "digest", ExpiresAt: clk.Now().Add(time.Hour)}

	if err := mem.Put(ctx, expired); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := mem.Put(ctx, alive); err != nil {
		t.Fatalf("Put: %v", err)
	}

	clk.Advance(2 * time.Minute)

	extra := entity.Challenge{Phone: "+15550000003", CodeHash: "digest", ExpiresAt: clk.Now().Add(time.Minute)}
	if err := mem.Put(ctx, extra); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if _, err := mem.Get(ctx, expired.Phone); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("Get expired error = %v, want ErrNotFound", err)
	}
	if _, err := mem.Get(ctx, alive.Phone); err != nil {
		t.Fatalf("Get alive: %v", err)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	mem := NewMemory(clk, 0)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			phone := fmt.Sprintf("+1555000%04d", i%10)
			ch := entity.Challenge{Phone: phone, CodeHash: "digest", ExpiresAt: clk.Now().Add(time.Minute)}
			if err := mem.Put(ctx, ch); err != nil {
				t.Errorf("Put: %v", err)
			}
			if _, err := mem.Get(ctx, phone); err != nil && !errors.Is(err, goerror.ErrNotFound) {
				t.Errorf("Get: %v", err)
			}
			if _, err := mem.IncrementAttempts(ctx, phone); err != nil && !errors.Is(err, goerror.ErrNotFound) {
				t.Errorf("IncrementAttempts: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if mem.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", mem.Len())
	}
}

func TestNewFromDriver(t *testing.T) {
	clk := newFakeClock()

	st, err := NewFromDriver("", FactoryOptions{Clock: clk})
	if err != nil {
		t.Fatalf("NewFromDriver empty: %v", err)
	}
	if _, ok := st.(*Memory); !ok {
		t.Fatalf("NewFromDriver empty = %T, want *Memory", st)
	}

	if _, err := NewFromDriver(DriverRedis, FactoryOptions{Clock: clk}); !errors.Is(err, ErrRedisClientRequired) {
		t.Fatalf("NewFromDriver redis without client error = %v, want ErrRedisClientRequired", err)
	}

	if _, err := NewFromDriver("bolt", FactoryOptions{Clock: clk}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("NewFromDriver unknown error = %v, want ErrUnknownDriver", err)
	}
}
