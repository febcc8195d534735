package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListNormalizesBareArray(t *testing.T) {
	f := newFixture(t)
	f.mes.replies["/api/v1/lots"] = `[
		{"lot_number":"KR01PSA2511","status":"IN_PROGRESS","quantity":30,"created_at":"2025-05-30T02:00:00Z"},
		{"lot_number":"KR01PSA2512","status":"COMPLETED","quantity":25,"created_at":"2025-05-29T02:00:00Z"}
	]`

	page, err := f.lots.List(context.Background(), LotOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "KR01PSA2511", page.Items[0].LotNumber)
}

func TestListPassesEnvelopeThrough(t *testing.T) {
	f := newFixture(t)
	f.mes.replies["/api/v1/lots"] = `{"items":[{"lot_number":"KR01PSA2511","status":"CREATED","quantity":10,"created_at":"2025-05-30T02:00:00Z"}],"total":42}`

	page, err := f.lots.List(context.Background(), LotOptions{})
	require.NoError(t, err)

	assert.Equal(t, 42, page.Total, "envelope totals are authoritative")
	require.Len(t, page.Items, 1)
}

func TestListCachesPerFilterCombination(t *testing.T) {
	f := newFixture(t)
	f.mes.replies["/api/v1/lots"] = `[]`
	ctx := context.Background()

	_, err := f.lots.List(ctx, LotOptions{})
	require.NoError(t, err)
	_, err = f.lots.List(ctx, LotOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.mes.getCount(), "identical filters share one cache entry")

	_, err = f.lots.List(ctx, LotOptions{Status: "FAILED"})
	require.NoError(t, err)
	require.Equal(t, 2, f.mes.getCount())

	last := f.mes.getPaths()[1]
	assert.Contains(t, last, "status=FAILED")
	assert.Contains(t, last, "limit=20")
	assert.True(t, strings.HasPrefix(last, "/api/v1/lots?"))
}
