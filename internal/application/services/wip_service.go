package services

import (
	"context"
	"net/url"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/entities/tracking"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/wip"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/query"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/upstream"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
)

// WipService resolves individual work items and projects their display
// status for the dashboard.
type WipService struct {
	cache  *query.Cache
	client upstream.Client
	logger *logging.ChanneledLogger
}

// NewWipService creates a new WIP application service
func NewWipService(cache *query.Cache, client upstream.Client, logger *logging.ChanneledLogger) *WipService {
	return &WipService{
		cache:  cache,
		client: client,
		logger: logger,
	}
}

func wipDetailKey(id string) query.Key {
	return query.NewKey("wip", "detail", id)
}

func wipDetailPolicy() query.Policy {
	return query.Policy{StaleTime: config.WipDetailStaleTime}
}

// Detail parses id, fetches the item from the MES, and fills the projected
// display status. A malformed id fails fast with *wip.FormatError before
// any upstream call.
func (s *WipService) Detail(ctx context.Context, id string) (*tracking.WipItem, error) {
	parsed, err := wip.Parse(id)
	if err != nil {
		return nil, err
	}

	return query.FetchAs(ctx, s.cache, wipDetailKey(id), wipDetailPolicy(), func(ctx context.Context) (*tracking.WipItem, error) {
		var item tracking.WipItem
		if err := s.client.Get(ctx, "/api/v1/wip/"+url.PathEscape(id), &item); err != nil {
			return nil, err
		}
		if item.WipID == "" {
			item.WipID = id
		}
		if item.LotNumber == "" {
			item.LotNumber = parsed.LotNumber
		}
		if item.Sequence == "" {
			item.Sequence = parsed.Sequence
		}
		item.DisplayStatus = wip.DisplayStatus(item.Status, item.CurrentProcessID)
		return &item, nil
	})
}
