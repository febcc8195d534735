package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/entities/tracking"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/query"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/upstream"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
)

// defaultCycleDays is the trailing window for cycle time averages when the
// caller does not pick one.
const defaultCycleDays = 7

// ProcessService serves per-process WIP counts and rolling cycle times.
type ProcessService struct {
	cache  *query.Cache
	client upstream.Client
	logger *logging.ChanneledLogger
}

// NewProcessService creates a new process application service
func NewProcessService(cache *query.Cache, client upstream.Client, logger *logging.ChanneledLogger) *ProcessService {
	return &ProcessService{
		cache:  cache,
		client: client,
		logger: logger,
	}
}

func processWipKey() query.Key {
	return query.NewKey("processes", "wip")
}

func processWipPolicy() query.Policy {
	return query.Policy{
		StaleTime:       config.ProcessWipStaleTime,
		RefetchInterval: config.ProcessWipRefetchInterval,
	}
}

func cycleTimeKey(days int) query.Key {
	return query.NewKey("processes", "cycle-times", strconv.Itoa(days))
}

func cycleTimePolicy() query.Policy {
	return query.Policy{StaleTime: config.CycleTimeStaleTime}
}

// WipCounts returns how many items currently sit at each process step.
func (s *ProcessService) WipCounts(ctx context.Context) ([]tracking.ProcessWipCount, error) {
	return query.FetchAs(ctx, s.cache, processWipKey(), processWipPolicy(), func(ctx context.Context) ([]tracking.ProcessWipCount, error) {
		var counts []tracking.ProcessWipCount
		if err := s.client.Get(ctx, "/api/v1/processes/wip", &counts); err != nil {
			return nil, err
		}
		if counts == nil {
			counts = []tracking.ProcessWipCount{}
		}
		return counts, nil
	})
}

// CycleTimes returns the average cycle time per process over the trailing
// days window. days <= 0 selects the default window.
func (s *ProcessService) CycleTimes(ctx context.Context, days int) ([]tracking.ProcessCycleTime, error) {
	if days <= 0 {
		days = defaultCycleDays
	}
	return query.FetchAs(ctx, s.cache, cycleTimeKey(days), cycleTimePolicy(), func(ctx context.Context) ([]tracking.ProcessCycleTime, error) {
		var times []tracking.ProcessCycleTime
		if err := s.client.Get(ctx, fmt.Sprintf("/api/v1/processes/cycle-times?days=%d", days), &times); err != nil {
			return nil, err
		}
		if times == nil {
			times = []tracking.ProcessCycleTime{}
		}
		return times, nil
	})
}
