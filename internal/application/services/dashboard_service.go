// Package services provides application-level services that orchestrate
// the query cache, the upstream MES client, and domain logic behind the
// gateway's HTTP surface.
package services

import (
	"context"
	"net/url"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/entities/tracking"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/performance"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/query"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/upstream"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
	"golang.org/x/sync/errgroup"
)

// DashboardPage bundles everything the dashboard renders in one response.
// The aggregate fields are computed across constituents: IsLoading and
// IsError OR-merge the four resources, Error carries the first failure in
// fixed priority order (summary, lots, wip counts, cycle times).
type DashboardPage struct {
	Summary    *tracking.DashboardSummary  `json:"summary,omitempty"`
	Lots       upstream.Page[tracking.Lot] `json:"lots"`
	WipCounts  []tracking.ProcessWipCount  `json:"wip_counts"`
	CycleTimes []tracking.ProcessCycleTime `json:"cycle_times"`
	IsLoading  bool                        `json:"is_loading"`
	IsError    bool                        `json:"is_error"`
	Error      string                      `json:"error,omitempty"`
}

// DashboardService orchestrates the KPI summary and the composite page view.
type DashboardService struct {
	cache       *query.Cache
	client      upstream.Client
	lots        *LotService
	processes   *ProcessService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewDashboardService creates a new dashboard application service
func NewDashboardService(cache *query.Cache, client upstream.Client, lots *LotService, processes *ProcessService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *DashboardService {
	return &DashboardService{
		cache:       cache,
		client:      client,
		lots:        lots,
		processes:   processes,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

func dashboardSummaryKey(date string) query.Key {
	return query.NewKey("dashboard", "summary", date)
}

func dashboardSummaryPolicy() query.Policy {
	return query.Policy{
		StaleTime:       config.DashboardStaleTime,
		RefetchInterval: config.DashboardRefetchInterval,
	}
}

// NormalizeDate defaults an empty dashboard date to today (UTC).
func NormalizeDate(date string) string {
	if date == "" {
		return time.Now().UTC().Format("2006-01-02")
	}
	return date
}

// constituentKeys lists the cache keys behind the composite page, in the
// same priority order used for error aggregation.
func constituentKeys(date string) []query.Key {
	return []query.Key{
		dashboardSummaryKey(date),
		lotListKey(LotOptions{}.normalized()),
		processWipKey(),
		cycleTimeKey(defaultCycleDays),
	}
}

// Summary returns the KPI summary for date, cache-first.
func (s *DashboardService) Summary(ctx context.Context, date string) (*tracking.DashboardSummary, error) {
	date = NormalizeDate(date)
	return query.FetchAs(ctx, s.cache, dashboardSummaryKey(date), dashboardSummaryPolicy(), func(ctx context.Context) (*tracking.DashboardSummary, error) {
		var summary tracking.DashboardSummary
		if err := s.client.Get(ctx, "/api/v1/dashboard/summary?date="+url.QueryEscape(date), &summary); err != nil {
			return nil, err
		}
		if summary.Date == "" {
			summary.Date = date
		}
		if summary.KPIs == nil {
			summary.KPIs = make(map[string]float64)
		}
		return &summary, nil
	})
}

// Page assembles the composite dashboard view. Constituent fetches run
// concurrently and each failure is captured in its own slot, so one bad
// resource never hides the other three.
func (s *DashboardService) Page(ctx context.Context, date string) *DashboardPage {
	date = NormalizeDate(date)
	marker := s.perfTracker.StartOperation("dashboard_page")
	defer s.perfTracker.CompleteOperation(marker)

	var (
		page       DashboardPage
		summaryErr error
		lotsErr    error
		wipErr     error
		cycleErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page.Summary, summaryErr = s.Summary(gctx, date)
		return nil
	})
	g.Go(func() error {
		page.Lots, lotsErr = s.lots.List(gctx, LotOptions{})
		return nil
	})
	g.Go(func() error {
		page.WipCounts, wipErr = s.processes.WipCounts(gctx)
		return nil
	})
	g.Go(func() error {
		page.CycleTimes, cycleErr = s.processes.CycleTimes(gctx, defaultCycleDays)
		return nil
	})
	_ = g.Wait()

	for _, err := range []error{summaryErr, lotsErr, wipErr, cycleErr} {
		if err != nil {
			page.IsError = true
			page.Error = err.Error()
			break
		}
	}
	page.IsLoading = s.anyConstituentLoading(date)

	marker.SetSuccess(!page.IsError)
	if page.IsError {
		s.logger.Cache().Warn("Dashboard page assembled with errors", "date", date, "error", page.Error)
	}
	return &page
}

// RefreshPage forces a refetch of every constituent, then rebuilds the page.
// Refetches are independent: one failure never stops the others.
func (s *DashboardService) RefreshPage(ctx context.Context, date string) *DashboardPage {
	date = NormalizeDate(date)
	marker := s.perfTracker.StartOperation("dashboard_page_refresh")
	defer s.perfTracker.CompleteOperation(marker)

	g, gctx := errgroup.WithContext(ctx)
	for _, key := range constituentKeys(date) {
		key := key
		g.Go(func() error {
			if _, err := s.cache.Refetch(gctx, key); err != nil {
				s.logger.Cache().Warn("Constituent refresh failed", "key", key.String(), "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return s.Page(ctx, date)
}

// WatchSummary subscribes to summary snapshot completions for date. While
// at least one watcher is attached the summary's refetch interval keeps the
// entry live. Callers must invoke the returned detach function.
func (s *DashboardService) WatchSummary(date string) (<-chan query.Snapshot, func()) {
	return s.cache.Watch(dashboardSummaryKey(NormalizeDate(date)))
}

// SummarySnapshot returns the current cache snapshot for date's summary.
func (s *DashboardService) SummarySnapshot(date string) (query.Snapshot, bool) {
	return s.cache.Lookup(dashboardSummaryKey(NormalizeDate(date)))
}

// anyConstituentLoading reports whether any constituent entry still has a
// fetch in flight, which is how a stale serve with background revalidation
// shows up right after Page returns.
func (s *DashboardService) anyConstituentLoading(date string) bool {
	for _, key := range constituentKeys(date) {
		if snap, ok := s.cache.Lookup(key); ok && snap.IsLoading() {
			return true
		}
	}
	return false
}
