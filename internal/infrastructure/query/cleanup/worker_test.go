package cleanup

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/performance"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakePruner struct {
	mu        sync.Mutex
	calls     int
	olderThan time.Duration
}

func (p *fakePruner) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.olderThan = olderThan
	return 4, nil
}

func TestPerformCleanupPrunesIdleEntriesAndSnapshots(t *testing.T) {
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		JSONFormat:    true,
		DefaultLevel:  slog.LevelError,
		ChannelLevels: make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	clock := &manualClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	cache := query.NewCache(logger, query.WithClock(clock))

	_, err = cache.Fetch(context.Background(), query.NewKey("lots", "list", "all"), query.Policy{StaleTime: time.Minute},
		func(ctx context.Context) (any, error) { return "x", nil })
	require.NoError(t, err)

	clock.Advance(time.Hour)

	pruner := &fakePruner{}
	worker := NewWorker(cache, pruner, performance.NewTracker(nil), logger, &Config{
		CleanupInterval:  time.Minute,
		EntryIdleTimeout: 30 * time.Minute,
		SnapshotMaxAge:   24 * time.Hour,
	})

	worker.performCleanup(context.Background())

	assert.Equal(t, 0, cache.Stats().Entries, "the idle entry must be pruned")

	pruner.mu.Lock()
	defer pruner.mu.Unlock()
	assert.Equal(t, 1, pruner.calls)
	assert.Equal(t, 24*time.Hour, pruner.olderThan)
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		JSONFormat:    true,
		DefaultLevel:  slog.LevelError,
		ChannelLevels: make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	cache := query.NewCache(logger)
	worker := NewWorker(cache, nil, nil, logger, &Config{
		CleanupInterval:  time.Hour,
		EntryIdleTimeout: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}
