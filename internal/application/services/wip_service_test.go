package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/wip"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailRejectsMalformedIDBeforeUpstream(t *testing.T) {
	f := newFixture(t)

	_, err := f.wip.Detail(context.Background(), "wip-kr01psa2511-001")

	var formatErr *wip.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "wip-kr01psa2511-001", formatErr.Input)
	assert.Zero(t, f.mes.getCount(), "malformed ids must not reach the MES")
}

func TestDetailProjectsDisplayStatus(t *testing.T) {
	f := newFixture(t)
	f.mes.replies["/api/v1/wip/"] = `{"status":"IN_PROGRESS","current_process_id":3}`

	item, err := f.wip.Detail(context.Background(), "WIP-KR01PSA2511-001")
	require.NoError(t, err)

	assert.Equal(t, "Process #3", item.DisplayStatus)
	assert.Equal(t, "WIP-KR01PSA2511-001", item.WipID)
	assert.Equal(t, "KR01PSA2511", item.LotNumber, "lot number backfilled from the parsed id")
	assert.Equal(t, "001", item.Sequence)
}

func TestDetailAwaitingConversionLabel(t *testing.T) {
	f := newFixture(t)
	f.mes.replies["/api/v1/wip/"] = `{"wip_id":"WIP-KR01PSA2511-002","lot_number":"KR01PSA2511","sequence":"002","status":"COMPLETED"}`

	item, err := f.wip.Detail(context.Background(), "WIP-KR01PSA2511-002")
	require.NoError(t, err)

	assert.Equal(t, "All Processes Completed, Awaiting Conversion", item.DisplayStatus)
}

func TestDetailCachesPerID(t *testing.T) {
	f := newFixture(t)
	f.mes.replies["/api/v1/wip/"] = `{"status":"CREATED"}`
	ctx := context.Background()

	_, err := f.wip.Detail(ctx, "WIP-KR01PSA2511-001")
	require.NoError(t, err)
	_, err = f.wip.Detail(ctx, "WIP-KR01PSA2511-001")
	require.NoError(t, err)
	assert.Equal(t, 1, f.mes.getCount())

	_, err = f.wip.Detail(ctx, "WIP-KR01PSA2511-002")
	require.NoError(t, err)
	assert.Equal(t, 2, f.mes.getCount())
}

func TestDetailUpstreamFailureSurfaces(t *testing.T) {
	f := newFixture(t)

	_, err := f.wip.Detail(context.Background(), "WIP-KR01PSA2511-009")
	require.Error(t, err)

	fetchErr, ok := upstream.AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, 404, fetchErr.StatusCode)

	var formatErr *wip.FormatError
	assert.False(t, errors.As(err, &formatErr), "fetch failures are not format errors")
}
