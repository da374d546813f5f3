package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type slowPublisher struct {
	delay  time.Duration
	err    error
	count  atomic.Int32
	closed atomic.Bool
}

func (p *slowPublisher) Publish(ctx context.Context, _ TaskEvent) error {
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	p.count.Add(1)
	return p.err
}

func (p *slowPublisher) Close() error {
	p.closed.Store(true)
	return nil
}

func TestAsyncPublisherDoesNotBlock(t *testing.T) {
	next := &slowPublisher{delay: 50 * time.Millisecond}
	pub := NewAsyncPublisher(next, time.Second, zap.NewNop())

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, pub.Publish(context.Background(), TaskEvent{TaskID: int64(i + 1), Type: EventCreated}))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	require.NoError(t, pub.Close())
	assert.Equal(t, int32(3), next.count.Load())
	assert.True(t, next.closed.Load())
}

func TestAsyncPublisherSwallowsErrors(t *testing.T) {
	next := &slowPublisher{err: errors.New("broker down")}
	pub := NewAsyncPublisher(next, time.Second, zap.NewNop())

	assert.NoError(t, pub.Publish(context.Background(), TaskEvent{TaskID: 1, Type: EventUpdated}))
	require.NoError(t, pub.Close())
	assert.Equal(t, int32(1), next.count.Load())
}

func TestAsyncPublisherDropsAfterClose(t *testing.T) {
	next := &slowPublisher{}
	pub := NewAsyncPublisher(next, time.Second, zap.NewNop())
	require.NoError(t, pub.Close())

	assert.NoError(t, pub.Publish(context.Background(), TaskEvent{TaskID: 1, Type: EventDeleted}))
	assert.Equal(t, int32(0), next.count.Load())
}

func TestAsyncPublisherTimeout(t *testing.T) {
	next := &slowPublisher{delay: time.Second}
	pub := NewAsyncPublisher(next, 10*time.Millisecond, zap.NewNop())

	require.NoError(t, pub.Publish(context.Background(), TaskEvent{TaskID: 1}))
	require.NoError(t, pub.Close())
	assert.Equal(t, int32(0), next.count.Load())
}

func TestNewEvent(t *testing.T) {
	e := newEvent(EventUpdated, Task{ID: 7, Status: StatusDone, AssignedToUserID: 3}, 5)
	assert.Equal(t, int64(7), e.TaskID)
	assert.Equal(t, EventUpdated, e.Type)
	assert.Equal(t, StatusDone, e.Status)
	assert.Equal(t, int64(3), e.AssignedToUserID)
	assert.Equal(t, int64(5), e.ActorUserID)
	assert.False(t, e.Timestamp.IsZero())
}
