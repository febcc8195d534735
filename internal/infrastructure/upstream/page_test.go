package upstream

import (
	"encoding/json"
	"testing"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/entities/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePageBareArrayCountsItems(t *testing.T) {
	raw := json.RawMessage(`[
		{"lot_number":"KR01PSA2511","status":"IN_PROGRESS","quantity":10},
		{"lot_number":"KR01PSA2512","status":"COMPLETED","quantity":8},
		{"lot_number":"KR01PSA2513","status":"CREATED","quantity":12}
	]`)

	page, err := DecodePage[tracking.Lot](raw)
	require.NoError(t, err)

	assert.Len(t, page.Items, 3)
	assert.Equal(t, 3, page.Total, "a bare array reports its own length as the total")
	assert.Equal(t, "KR01PSA2511", page.Items[0].LotNumber)
}

func TestDecodePageEnvelopePassesThrough(t *testing.T) {
	raw := json.RawMessage(`{
		"items": [
			{"lot_number":"KR01PSA2511","status":"IN_PROGRESS","quantity":10},
			{"lot_number":"KR01PSA2512","status":"COMPLETED","quantity":8}
		],
		"total": 42
	}`)

	page, err := DecodePage[tracking.Lot](raw)
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	assert.Equal(t, 42, page.Total, "an envelope's total is upstream truth, not the page length")
}

func TestDecodePageEmptyShapes(t *testing.T) {
	page, err := DecodePage[tracking.Lot](json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Zero(t, page.Total)

	page, err = DecodePage[tracking.Lot](json.RawMessage(`{"total": 0}`))
	require.NoError(t, err)
	assert.NotNil(t, page.Items, "a missing items field must render as an empty list")
}

func TestDecodePageRejectsGarbage(t *testing.T) {
	_, err := DecodePage[tracking.Lot](json.RawMessage(``))
	assert.Error(t, err)

	_, err = DecodePage[tracking.Lot](json.RawMessage(`"just a string"`))
	assert.Error(t, err)

	_, err = DecodePage[tracking.Lot](json.RawMessage(`[{"lot_number": 5}]`))
	assert.Error(t, err)
}
