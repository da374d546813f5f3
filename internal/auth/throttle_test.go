package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisThrottle(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newMiniredis(t)
	th := NewRedisThrottle(rdb, 3, 10*time.Minute)

	for i := 0; i < 2; i++ {
		require.NoError(t, th.Fail(ctx, "a@b.com", "10.0.0.1"))
	}
	blocked, err := th.Blocked(ctx, "a@b.com", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, th.Fail(ctx, "a@b.com", "10.0.0.1"))
	blocked, err = th.Blocked(ctx, "a@b.com", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, blocked)

	// other client address is counted separately
	blocked, err = th.Blocked(ctx, "a@b.com", "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, blocked)

	assert.Equal(t, 10*time.Minute, mr.TTL(throttleKey("a@b.com", "10.0.0.1")))

	mr.FastForward(11 * time.Minute)
	blocked, err = th.Blocked(ctx, "a@b.com", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestRedisThrottleReset(t *testing.T) {
	ctx := context.Background()
	_, rdb := newMiniredis(t)
	th := NewRedisThrottle(rdb, 1, time.Minute)

	require.NoError(t, th.Fail(ctx, "a@b.com", "ip"))
	blocked, _ := th.Blocked(ctx, "a@b.com", "ip")
	require.True(t, blocked)

	require.NoError(t, th.Reset(ctx, "a@b.com", "ip"))
	blocked, err := th.Blocked(ctx, "a@b.com", "ip")
	require.NoError(t, err)
	assert.False(t, blocked)
}
