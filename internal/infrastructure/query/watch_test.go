package query

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchDeliversCompletedFetches(t *testing.T) {
	cache, _ := newTestCache(t)
	key := NewKey("processes", "wip")
	policy := Policy{StaleTime: 15 * time.Second}

	var calls atomic.Int32
	fn := func(ctx context.Context) (any, error) {
		return fmt.Sprintf("wip-%d", calls.Add(1)), nil
	}

	_, err := cache.Fetch(context.Background(), key, policy, fn)
	require.NoError(t, err)

	updates, detach := cache.Watch(key)
	defer detach()

	_, err = cache.Refetch(context.Background(), key)
	require.NoError(t, err)

	select {
	case snap := <-updates:
		assert.Equal(t, StateSuccess, snap.State)
		assert.Equal(t, "wip-2", snap.Data)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered after refetch")
	}
}

func TestWatchDetachClosesChannel(t *testing.T) {
	cache, _ := newTestCache(t)

	updates, detach := cache.Watch(NewKey("lots", "list", "all"))
	detach()

	_, open := <-updates
	assert.False(t, open, "detach closes the snapshot channel")
}

func TestWatchBeforeFirstFetchStillDelivers(t *testing.T) {
	cache, _ := newTestCache(t)
	key := NewKey("wip", "detail", "WIP-KR01PSA2511-001")

	updates, detach := cache.Watch(key)
	defer detach()

	_, err := cache.Fetch(context.Background(), key, Policy{StaleTime: 10 * time.Second}, func(ctx context.Context) (any, error) {
		return "detail", nil
	})
	require.NoError(t, err)

	select {
	case snap := <-updates:
		assert.Equal(t, "detail", snap.Data)
	case <-time.After(time.Second):
		t.Fatal("first fetch not delivered to early watcher")
	}
}

func TestWatchRunsIntervalRefreshWhileAttached(t *testing.T) {
	cache, _ := newTestCache(t)
	key := NewKey("dashboard", "summary", "2025-06-01")
	policy := Policy{StaleTime: time.Minute, RefetchInterval: 20 * time.Millisecond}

	var calls atomic.Int32
	fn := func(ctx context.Context) (any, error) {
		return calls.Add(1), nil
	}

	_, err := cache.Fetch(context.Background(), key, policy, fn)
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())

	updates, detach := cache.Watch(key)

	// The timer drives refreshes while a watcher is attached.
	require.Eventually(t, func() bool {
		return calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	select {
	case snap := <-updates:
		assert.Equal(t, StateSuccess, snap.State)
	case <-time.After(time.Second):
		t.Fatal("interval refresh not delivered to watcher")
	}

	detach()

	// The last detach stops the timer.
	time.Sleep(50 * time.Millisecond)
	settled := calls.Load()
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, settled, calls.Load(), "refreshes must stop after the last watcher detaches")
}

func TestWatchTimerSurvivesUntilLastDetach(t *testing.T) {
	cache, _ := newTestCache(t)
	key := NewKey("processes", "wip")
	policy := Policy{StaleTime: time.Minute, RefetchInterval: 20 * time.Millisecond}

	var calls atomic.Int32
	_, err := cache.Fetch(context.Background(), key, policy, func(ctx context.Context) (any, error) {
		return calls.Add(1), nil
	})
	require.NoError(t, err)

	_, detachFirst := cache.Watch(key)
	_, detachSecond := cache.Watch(key)

	detachFirst()

	before := calls.Load()
	require.Eventually(t, func() bool {
		return calls.Load() > before
	}, time.Second, 5*time.Millisecond, "timer must keep running while a watcher remains")

	detachSecond()
}
