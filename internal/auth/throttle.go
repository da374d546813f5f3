package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginAttemptsPrefix = "auth:login:attempts:"

// LoginThrottle counts failed logins per email and client address.
type LoginThrottle interface {
	Blocked(ctx context.Context, email, ip string) (bool, error)
	Fail(ctx context.Context, email, ip string) error
	Reset(ctx context.Context, email, ip string) error
}

type redisThrottle struct {
	rdb         redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

func NewRedisThrottle(rdb redis.Cmdable, maxAttempts int, window time.Duration) LoginThrottle {
	return &redisThrottle{
		rdb:         rdb,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

func throttleKey(email, ip string) string {
	return loginAttemptsPrefix + email + ":" + ip
}

func (t *redisThrottle) Blocked(ctx context.Context, email, ip string) (bool, error) {
	cnt, err := t.rdb.Get(ctx, throttleKey(email, ip)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return cnt >= t.maxAttempts, nil
}

// Fail increments the counter and starts the lockout window on the first failure.
func (t *redisThrottle) Fail(ctx context.Context, email, ip string) error {
	key := throttleKey(email, ip)
	val, err := t.rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if val == 1 {
		return t.rdb.Expire(ctx, key, t.window).Err()
	}
	return nil
}

func (t *redisThrottle) Reset(ctx context.Context, email, ip string) error {
	return t.rdb.Del(ctx, throttleKey(email, ip)).Err()
}

// NopThrottle never blocks. Used when Redis is not configured.
type NopThrottle struct{}

func (NopThrottle) Blocked(context.Context, string, string) (bool, error) { return false, nil }
func (NopThrottle) Fail(context.Context, string, string) error            { return nil }
func (NopThrottle) Reset(context.Context, string, string) error           { return nil }
