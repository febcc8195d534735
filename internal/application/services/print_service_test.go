package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/events"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/wip"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/notifications"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/performance"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/upstream"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toastRecorder struct {
	mu     sync.Mutex
	toasts []events.Toast
}

func (r *toastRecorder) record(toast events.Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast)
}

func (r *toastRecorder) all() []events.Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Toast(nil), r.toasts...)
}

func newPrintFixture(t *testing.T, enabled bool) (*fakeUpstream, *toastRecorder, *PrintService) {
	t.Helper()
	prev := config.LabelPrintingEnabled
	config.LabelPrintingEnabled = enabled
	t.Cleanup(func() { config.LabelPrintingEnabled = prev })

	logger := quietLogger(t)
	mes := newFakeUpstream()
	bus := notifications.NewBus(logger)
	recorder := &toastRecorder{}
	bus.Subscribe(recorder.record)
	return mes, recorder, NewPrintService(mes, bus, logger, performance.NewTracker(nil))
}

func TestPrintDisabledReturnsUnimplemented(t *testing.T) {
	mes, recorder, svc := newPrintFixture(t, false)

	err := svc.PrintLabel(context.Background(), PrintRequest{WipID: "WIP-KR01PSA2511-001"})

	assert.True(t, upstream.IsUnimplemented(err))
	assert.Empty(t, mes.posts, "disabled printing never reaches the MES")
	assert.Empty(t, recorder.all(), "unimplemented is not a failure toast")
}

func TestPrintRejectsMalformedID(t *testing.T) {
	mes, _, svc := newPrintFixture(t, true)

	err := svc.PrintLabel(context.Background(), PrintRequest{WipID: "WIP-bad-1"})

	var formatErr *wip.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Empty(t, mes.posts)
}

func TestPrintUpstream501PassesThrough(t *testing.T) {
	mes, recorder, svc := newPrintFixture(t, true)
	mes.errs["/api/v1/labels/print"] = &upstream.UnimplementedError{Feature: "POST /api/v1/labels/print"}

	err := svc.PrintLabel(context.Background(), PrintRequest{WipID: "WIP-KR01PSA2511-001"})

	assert.True(t, upstream.IsUnimplemented(err))
	assert.Empty(t, recorder.all())
}

func TestPrintFailureEmitsErrorToast(t *testing.T) {
	mes, recorder, svc := newPrintFixture(t, true)
	mes.errs["/api/v1/labels/print"] = &upstream.FetchError{StatusCode: 500, Path: "/api/v1/labels/print", Message: "printer offline"}

	err := svc.PrintLabel(context.Background(), PrintRequest{WipID: "WIP-KR01PSA2511-001"})
	require.Error(t, err)

	toasts := recorder.all()
	require.Len(t, toasts, 1)
	assert.Equal(t, events.ToastError, toasts[0].Level)
	assert.Contains(t, toasts[0].Message, "WIP-KR01PSA2511-001")
}

func TestPrintSuccessEmitsSuccessToast(t *testing.T) {
	mes, recorder, svc := newPrintFixture(t, true)
	mes.replies["/api/v1/labels/print"] = `{}`

	err := svc.PrintLabel(context.Background(), PrintRequest{WipID: "WIP-KR01PSA2511-001", Copies: 2})
	require.NoError(t, err)

	require.Len(t, mes.posts, 1)
	toasts := recorder.all()
	require.Len(t, toasts, 1)
	assert.Equal(t, events.ToastSuccess, toasts[0].Level)
}
