package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/entities/tracking"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/query"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/upstream"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
)

// LotOptions filters the lot list. Zero values select the defaults used by
// the dashboard table: all statuses, 20 rows, newest first.
type LotOptions struct {
	Status string
	Limit  int
	Sort   string
}

func (o LotOptions) normalized() LotOptions {
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Sort == "" {
		o.Sort = "created_at"
	}
	return o
}

// LotService serves the lot list cache-first from the MES.
type LotService struct {
	cache  *query.Cache
	client upstream.Client
	logger *logging.ChanneledLogger
}

// NewLotService creates a new lot application service
func NewLotService(cache *query.Cache, client upstream.Client, logger *logging.ChanneledLogger) *LotService {
	return &LotService{
		cache:  cache,
		client: client,
		logger: logger,
	}
}

func lotListKey(o LotOptions) query.Key {
	status := o.Status
	if status == "" {
		status = "all"
	}
	return query.NewKey("lots", "list", status, strconv.Itoa(o.Limit), o.Sort)
}

func lotListPolicy() query.Policy {
	return query.Policy{StaleTime: config.LotListStaleTime}
}

// List returns one page of lots matching opts. Each distinct filter
// combination caches under its own key.
func (s *LotService) List(ctx context.Context, opts LotOptions) (upstream.Page[tracking.Lot], error) {
	opts = opts.normalized()
	return query.FetchAs(ctx, s.cache, lotListKey(opts), lotListPolicy(), func(ctx context.Context) (upstream.Page[tracking.Lot], error) {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(opts.Limit))
		params.Set("sort", opts.Sort)
		if opts.Status != "" {
			params.Set("status", opts.Status)
		}

		var raw json.RawMessage
		if err := s.client.Get(ctx, "/api/v1/lots?"+params.Encode(), &raw); err != nil {
			return upstream.Page[tracking.Lot]{}, err
		}

		page, err := upstream.DecodePage[tracking.Lot](raw)
		if err != nil {
			return upstream.Page[tracking.Lot]{}, fmt.Errorf("failed to decode lot list: %w", err)
		}
		return page, nil
	})
}
