package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/passgate/internal/pkg/clock"
)

const (
	// DriverMemory selects the in-process store.
	DriverMemory = "memory"
	// DriverRedis selects the Redis-backed store.
	DriverRedis = "redis"
)

var (
	// ErrUnknownDriver indicates an unsupported store driver.
	ErrUnknownDriver = errors.New("store: unknown driver")
	// ErrRedisClientRequired is returned when the Redis driver is selected
	// without a client.
	ErrRedisClientRequired = errors.New("store: redis driver requires a client")
)

// FactoryOptions groups config for supported store backends.
type FactoryOptions struct {
	// Clock supplies time for expiry decisions.
	Clock clock.Clocker

	// MemoryCapacity bounds the memory driver. Zero uses the default.
	MemoryCapacity int

	// RedisClient backs the Redis driver.
	RedisClient *redis.Client
}

// NewFromDriver constructs a Store implementation by driver name.
//
// An empty driver falls back to the memory store.
func NewFromDriver(driver string, opts FactoryOptions) (Store, error) {
	switch strings.TrimSpace(driver) {
	case DriverMemory, "":
		return NewMemory(opts.Clock, opts.MemoryCapacity), nil
	case DriverRedis:
		if opts.RedisClient == nil {
			return nil, ErrRedisClientRequired
		}
		return NewRedis(opts.RedisClient, opts.Clock), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
