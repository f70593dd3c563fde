package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/passgate/internal/otp/entity"
	"github.com/shandysiswandi/passgate/internal/pkg/clock"
	"github.com/shandysiswandi/passgate/internal/pkg/goerror"
)

// expiredRetention keeps an expired challenge around long enough for a
// verification to observe the expired state instead of seeing no
// challenge at all. After retention the Redis key is reaped.
const expiredRetention = time.Hour

const redisKeyPrefix = "passgate:otp:challenge:"

// Redis is a Store backed by a Redis hash per phone number.
type Redis struct {
	client *redis.Client
	clock  clock.Clocker
}

// NewRedis constructs a Redis-backed store.
func NewRedis(client *redis.Client, clk clock.Clocker) *Redis {
	return &Redis{client: client, clock: clk}
}

// Close implements io.Closer. The Redis client is owned by the
// application and closed there.
func (*Redis) Close() error { return nil }

// Put stores a challenge, replacing any pending one for the same phone.
func (r *Redis) Put(ctx context.Context, ch entity.Challenge) error {
	key := redisKeyPrefix + ch.Phone

	fields := map[string]any{
		"phone":      ch.Phone,
		"code_hash":  ch.CodeHash,
		"issued_at":  ch.IssuedAt.UnixMilli(),
		"expires_at": ch.ExpiresAt.UnixMilli(),
		"attempts":   ch.Attempts,
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, fields)
	pipe.ExpireAt(ctx, key, ch.ExpiresAt.Add(expiredRetention))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store: redis put challenge: %w", err)
	}

	return nil
}

// Get returns the pending challenge for a phone.
func (r *Redis) Get(ctx context.Context, phone string) (*entity.Challenge, error) {
	key := redisKeyPrefix + phone

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("store: redis get challenge: %w", err)
	}
	if len(fields) == 0 {
		return nil, goerror.ErrNotFound
	}
	// A hash without a code digest is not a challenge. Treat it as absent
	// so a stray partial write can never wedge verification for a phone.
	if fields["code_hash"] == "" {
		return nil, goerror.ErrNotFound
	}

	issuedAt, err := strconv.ParseInt(fields["issued_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("store: redis parse issued_at: %w", err)
	}
	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("store: redis parse expires_at: %w", err)
	}
	attempts, err := strconv.Atoi(fields["attempts"])
	if err != nil {
		return nil, fmt.Errorf("store: redis parse attempts: %w", err)
	}

	return &entity.Challenge{
		Phone:     fields["phone"],
		CodeHash:  fields["code_hash"],
		IssuedAt:  time.UnixMilli(issuedAt),
		ExpiresAt: time.UnixMilli(expiresAt),
		Attempts:  attempts,
	}, nil
}

// Delete removes the pending challenge for a phone.
func (r *Redis) Delete(ctx context.Context, phone string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+phone).Err(); err != nil {
		return fmt.Errorf("store: redis delete challenge: %w", err)
	}
	return nil
}

// incrementAttemptsScript bumps the counter only while the challenge hash
// still exists. Running it server-side keeps the existence check and the
// increment in one step, so a concurrent delete can never leave behind a
// half-built hash holding nothing but an attempts field.
var incrementAttemptsScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
return redis.call("HINCRBY", KEYS[1], "attempts", 1)
`)

// IncrementAttempts bumps the failed-attempt counter for a pending challenge.
func (r *Redis) IncrementAttempts(ctx context.Context, phone string) (int, error) {
	key := redisKeyPrefix + phone

	n, err := incrementAttemptsScript.Run(ctx, r.client, []string{key}).Int()
	if err != nil {
		return 0, fmt.Errorf("store: redis increment attempts: %w", err)
	}
	if n < 0 {
		return 0, goerror.ErrNotFound
	}

	return n, nil
}
