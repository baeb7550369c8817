package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AddressGuard serializes submissions per source address so the count-then-insert
// sequence cannot be raced by concurrent requests from one caller.
type AddressGuard interface {
	// Acquire returns false when another submission from address is in flight.
	// The token identifies this holder and must be passed to Release.
	Acquire(ctx context.Context, address string) (token string, ok bool, err error)
	Release(ctx context.Context, address, token string) error
}

const (
	defaultInflightTTL = 30 * time.Second
	inflightKeyPrefix  = "lead-intake:inflight:"
)

// releaseScript deletes the key only while it still holds the caller's token, so an
// expired holder cannot remove a lock taken by a newer request.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisAddressGuard implements AddressGuard with SET NX and a TTL, so a crashed
// invocation cannot hold an address forever.
type RedisAddressGuard struct {
	rdb      *redis.Client
	ttl      time.Duration
	newToken func() string
}

// NewRedisAddressGuard creates a guard. A non-positive ttl uses 30s.
func NewRedisAddressGuard(rdb *redis.Client, ttl time.Duration) *RedisAddressGuard {
	if rdb == nil {
		panic("leads: redis client required")
	}
	if ttl <= 0 {
		ttl = defaultInflightTTL
	}
	return &RedisAddressGuard{rdb: rdb, ttl: ttl, newToken: uuid.NewString}
}

func (g *RedisAddressGuard) Acquire(ctx context.Context, address string) (string, bool, error) {
	token := g.newToken()
	ok, err := g.rdb.SetNX(ctx, inflightKeyPrefix+address, token, g.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("leads: inflight SETNX: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (g *RedisAddressGuard) Release(ctx context.Context, address, token string) error {
	if err := releaseScript.Run(ctx, g.rdb, []string{inflightKeyPrefix + address}, token).Err(); err != nil {
		return fmt.Errorf("leads: inflight release: %w", err)
	}
	return nil
}
