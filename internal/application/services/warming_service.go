// Package services provides startup warming orchestration
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/entities/tracking"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/persistence/snapshot"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/query"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/query/cleanup"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/upstream"
)

// SnapshotLoader is the slice of the snapshot store that warming reads.
type SnapshotLoader interface {
	LoadByPrefix(ctx context.Context, prefix string) ([]snapshot.Row, error)
}

// WarmingService seeds the query cache from persisted snapshots at boot so
// the first dashboard load serves instantly and revalidates in the
// background instead of blocking on the MES.
type WarmingService struct {
	cache    *query.Cache
	store    SnapshotLoader
	reporter *cleanup.Reporter
	logger   *logging.ChanneledLogger
	once     sync.Once
}

// NewWarmingService creates a new warming service
func NewWarmingService(cache *query.Cache, store SnapshotLoader, reporter *cleanup.Reporter, logger *logging.ChanneledLogger) *WarmingService {
	return &WarmingService{
		cache:    cache,
		store:    store,
		reporter: reporter,
		logger:   logger,
	}
}

// seedSpec ties one snapshot key family to its concrete payload type and
// cache policy. Seeded values must decode to the exact type the owning
// service caches, or the first typed read would reject them.
type seedSpec struct {
	label  string
	prefix query.Key
	policy query.Policy
	decode func(payload []byte) (any, error)
}

func decodeInto[T any](payload []byte) (any, error) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func seedSpecs() []seedSpec {
	return []seedSpec{
		{"dashboard summaries", query.NewKey("dashboard", "summary"), dashboardSummaryPolicy(), decodeInto[*tracking.DashboardSummary]},
		{"lot lists", query.NewKey("lots", "list"), lotListPolicy(), decodeInto[upstream.Page[tracking.Lot]]},
		{"process wip counts", processWipKey(), processWipPolicy(), decodeInto[[]tracking.ProcessWipCount]},
		{"cycle times", query.NewKey("processes", "cycle-times"), cycleTimePolicy(), decodeInto[[]tracking.ProcessCycleTime]},
		{"wip details", query.NewKey("wip", "detail"), wipDetailPolicy(), decodeInto[*tracking.WipItem]},
	}
}

// WarmFromSnapshots performs the one boot-time warming pass. Repeat calls
// are no-ops. A resource family that fails to load is reported and skipped;
// the rest still warm.
func (ws *WarmingService) WarmFromSnapshots(ctx context.Context) error {
	var err error
	ws.once.Do(func() {
		err = ws.warm(ctx)
	})
	return err
}

func (ws *WarmingService) warm(ctx context.Context) error {
	if ws.store == nil {
		ws.logger.Startup().Info("Snapshot warming skipped, no snapshot store configured")
		return nil
	}

	start := time.Now()
	var seeded, failed int

	for _, spec := range seedSpecs() {
		ws.reporter.LogStage("Warming %s", spec.label)

		rows, loadErr := ws.store.LoadByPrefix(ctx, spec.prefix.Canonical())
		if loadErr != nil {
			ws.reporter.LogError(fmt.Sprintf("Failed to load %s snapshots", spec.label), loadErr)
			failed++
			continue
		}

		var count int
		for _, row := range rows {
			key, keyErr := query.ParseKey(row.Key)
			if keyErr != nil {
				ws.reporter.LogWarning("Skipping snapshot with bad key %q: %v", row.Key, keyErr)
				continue
			}
			value, decErr := spec.decode(row.Payload)
			if decErr != nil {
				ws.reporter.LogWarning("Skipping undecodable snapshot %s: %v", row.Key, decErr)
				continue
			}
			ws.cache.Seed(key, value, row.FetchedAt, spec.policy)
			count++
		}

		ws.reporter.LogSuccess("%d %s seeded", count, spec.label)
		seeded += count
	}

	duration := time.Since(start)
	ws.logger.Startup().Info("Cache warming complete", "seeded", seeded, "duration", duration)

	if failed > 0 {
		return fmt.Errorf("warming failed for %d resource families", failed)
	}
	return nil
}
