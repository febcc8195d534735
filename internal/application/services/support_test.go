package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/performance"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/query"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/upstream"
	"github.com/stretchr/testify/require"
)

func quietLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		JSONFormat:    true,
		DefaultLevel:  slog.LevelError,
		ChannelLevels: make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)
	return logger
}

// fakeUpstream stubs the MES client with canned JSON per path prefix.
type fakeUpstream struct {
	mu      sync.Mutex
	gets    []string
	posts   []string
	replies map[string]string
	errs    map[string]error
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		replies: make(map[string]string),
		errs:    make(map[string]error),
	}
}

func (f *fakeUpstream) Get(ctx context.Context, path string, out any) error {
	f.mu.Lock()
	f.gets = append(f.gets, path)
	f.mu.Unlock()
	return f.reply(path, out)
}

func (f *fakeUpstream) Post(ctx context.Context, path string, body, out any) error {
	f.mu.Lock()
	f.posts = append(f.posts, path)
	f.mu.Unlock()
	return f.reply(path, out)
}

func (f *fakeUpstream) reply(path string, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for prefix, err := range f.errs {
		if strings.HasPrefix(path, prefix) {
			return err
		}
	}
	for prefix, body := range f.replies {
		if strings.HasPrefix(path, prefix) {
			if out == nil {
				return nil
			}
			return json.Unmarshal([]byte(body), out)
		}
	}
	return &upstream.FetchError{StatusCode: 404, Path: path, Message: "no stub for path"}
}

func (f *fakeUpstream) getCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.gets)
}

func (f *fakeUpstream) getPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.gets...)
}

// fixture wires one cache and one fake MES behind the full service set.
type fixture struct {
	cache     *query.Cache
	mes       *fakeUpstream
	lots      *LotService
	processes *ProcessService
	dashboard *DashboardService
	wip       *WipService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := quietLogger(t)
	cache := query.NewCache(logger)
	mes := newFakeUpstream()
	lots := NewLotService(cache, mes, logger)
	processes := NewProcessService(cache, mes, logger)
	dashboard := NewDashboardService(cache, mes, lots, processes, logger, performance.NewTracker(nil))
	return &fixture{
		cache:     cache,
		mes:       mes,
		lots:      lots,
		processes: processes,
		dashboard: dashboard,
		wip:       NewWipService(cache, mes, logger),
	}
}

func (f *fixture) stubDashboard() {
	f.mes.replies["/api/v1/dashboard/summary"] = `{"kpis":{"daily_yield":97.5,"wip_total":120},"generated_at":"2025-06-01T09:00:00Z"}`
	f.mes.replies["/api/v1/lots"] = `[{"lot_number":"KR01PSA2511","status":"IN_PROGRESS","quantity":30,"created_at":"2025-05-30T02:00:00Z"}]`
	f.mes.replies["/api/v1/processes/wip"] = `[{"process_id":1,"process_name":"Bonding","wip_count":12}]`
	f.mes.replies["/api/v1/processes/cycle-times"] = `[{"process_name":"Bonding","average_cycle_time":42.5}]`
}
