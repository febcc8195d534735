// Package cleanup provides background worker
package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/performance"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/query"
)

// SnapshotPruner removes persisted snapshot rows past their useful age.
// Implemented by the snapshot store.
type SnapshotPruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Worker handles background cache maintenance: idle query entries, aged
// snapshot rows, and old performance markers.
type Worker struct {
	cache     *query.Cache
	snapshots SnapshotPruner
	perf      *performance.Tracker
	logger    *logging.ChanneledLogger
	config    *Config
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(cache *query.Cache, snapshots SnapshotPruner, perf *performance.Tracker, logger *logging.ChanneledLogger, config *Config) *Worker {
	return &Worker{
		cache:     cache,
		snapshots: snapshots,
		perf:      perf,
		logger:    logger,
		config:    config,
	}
}

// Start begins the cleanup worker routine, using the configured interval
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.System().Info("Cache cleanup worker started",
		"interval", w.config.CleanupInterval,
		"idleTimeout", w.config.EntryIdleTimeout,
		"verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Shutdown().Info("Cache cleanup worker stopping")
			return
		case <-ticker.C:
			w.performCleanup(ctx)
		}
	}
}

// performCleanup executes one maintenance sweep
func (w *Worker) performCleanup(ctx context.Context) {
	start := time.Now()
	reporter := NewReporter(w.cache)

	if w.config.VerboseReporting {
		reporter.LogStage("PERIODIC CACHE CLEANUP")
		fmt.Print(reporter.GenerateCacheReport())
	}

	entriesPruned := w.cache.PruneIdle(w.config.EntryIdleTimeout)

	var snapshotsPruned int64
	if w.snapshots != nil {
		pruned, err := w.snapshots.Prune(ctx, w.config.SnapshotMaxAge)
		if err != nil {
			reporter.LogError("Snapshot prune failed", err)
			w.logger.LogError(logging.ChannelSnapshot, "prune", err, nil)
		} else {
			snapshotsPruned = pruned
		}
	}

	if w.perf != nil {
		w.perf.Cleanup()
	}

	duration := time.Since(start)
	if entriesPruned > 0 || snapshotsPruned > 0 {
		reporter.LogSuccess("Cache cleanup finished: %d idle entries, %d snapshot rows in %v",
			entriesPruned, snapshotsPruned, duration)
		w.logger.Cache().Info("Cleanup sweep finished",
			"idleEntries", entriesPruned,
			"snapshotRows", snapshotsPruned,
			"duration", duration)
	} else if w.config.VerboseReporting {
		reporter.LogInfo("Cache cleanup completed - nothing to prune (%v)", duration)
	}
}
