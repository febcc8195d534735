package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/wip"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/upstream"
)

func respondWith(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, err)
	return w
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "malformed id is the caller's fault",
			err:  &wip.FormatError{Input: "wip-lower-001"},
			want: http.StatusBadRequest,
		},
		{
			name: "unimplemented feature is 501, not an outage",
			err:  &upstream.UnimplementedError{Feature: "label printing"},
			want: http.StatusNotImplemented,
		},
		{
			name: "upstream 404 passes through",
			err:  &upstream.FetchError{StatusCode: http.StatusNotFound, Path: "/api/v1/wip/X"},
			want: http.StatusNotFound,
		},
		{
			name: "upstream 500 becomes bad gateway",
			err:  &upstream.FetchError{StatusCode: http.StatusInternalServerError, Path: "/api/v1/lots"},
			want: http.StatusBadGateway,
		},
		{
			name: "upstream network failure becomes bad gateway",
			err:  &upstream.FetchError{Path: "/api/v1/lots", Err: errors.New("connection refused")},
			want: http.StatusBadGateway,
		},
		{
			name: "anything else is a 500",
			err:  errors.New("snapshot store corrupt"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := respondWith(t, tc.err)
			assert.Equal(t, tc.want, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestRespondErrorUnwrapsServiceContext(t *testing.T) {
	// Services wrap upstream failures with call context. The mapping must
	// look through the wrapping, not match on the outermost type.
	wrapped := fmt.Errorf("loading lot page: %w", &upstream.FetchError{
		StatusCode: http.StatusServiceUnavailable,
		Path:       "/api/v1/lots",
		Message:    "maintenance window",
	})

	w := respondWith(t, wrapped)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "maintenance window")
}

func TestRespondErrorNeverMirrorsUpstreamBodyOn404(t *testing.T) {
	w := respondWith(t, &upstream.FetchError{
		StatusCode: http.StatusNotFound,
		Path:       "/api/v1/wip/WIP-ABCDEF1234567-001",
		Message:    "internal row id 88421 missing in shard 3",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "88421", "upstream internals must not leak to dashboard clients")
}
