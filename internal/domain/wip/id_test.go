package wip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecomposesCanonicalID(t *testing.T) {
	id, err := Parse("WIP-KR01PSA2511-001")
	require.NoError(t, err)
	assert.Equal(t, "KR01PSA2511", id.LotNumber)
	assert.Equal(t, "001", id.Sequence)
	assert.Equal(t, "WIP-KR01PSA2511-001", id.String())
}

func TestValidateAndParseAgree(t *testing.T) {
	cases := []struct {
		name  string
		input string
		valid bool
	}{
		{"canonical", "WIP-KR01PSA2511-001", true},
		{"lot at max length", "WIP-ABCDEFGHIJKLMNO-999", true},
		{"lot of digits only", "WIP-00000000000-000", true},
		{"empty string", "", false},
		{"lowercase", "wip-kr01psa2511-001", false},
		{"lot too short", "WIP-SHORT-001", false},
		{"lot too long", "WIP-ABCDEFGHIJKLMNOP-001", false},
		{"sequence too short", "WIP-KR01PSA2511-01", false},
		{"sequence too long", "WIP-KR01PSA2511-0001", false},
		{"sequence not digits", "WIP-KR01PSA2511-0A1", false},
		{"missing prefix", "KR01PSA2511-001", false},
		{"missing hyphen", "WIPKR01PSA2511-001", false},
		{"surrounding whitespace", " WIP-KR01PSA2511-001 ", false},
		{"trailing garbage", "WIP-KR01PSA2511-001X", false},
		{"underscore in lot", "WIP-KR01_PSA2511-001", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, Validate(tc.input))

			id, err := Parse(tc.input)
			if tc.valid {
				require.NoError(t, err)
				assert.Equal(t, tc.input, id.String())
				return
			}

			require.Error(t, err)
			var formatErr *FormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, tc.input, formatErr.Input)
			assert.Zero(t, id)
		})
	}
}
