package notifications

import (
	"log/slog"
	"testing"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/events"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		JSONFormat:    true,
		DefaultLevel:  slog.LevelError,
		ChannelLevels: make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)
	return NewBus(logger)
}

func TestEmitWithNoListenersIsSilent(t *testing.T) {
	bus := newTestBus(t)

	require.NotPanics(t, func() {
		bus.Emit(events.Toast{Level: events.ToastInfo, Message: "nobody home"})
		bus.Success("still nobody")
	})
}

func TestListenersReceiveInSubscriptionOrder(t *testing.T) {
	bus := newTestBus(t)

	var order []string
	bus.Subscribe(func(events.Toast) { order = append(order, "first") })
	bus.Subscribe(func(events.Toast) { order = append(order, "second") })
	bus.Subscribe(func(events.Toast) { order = append(order, "third") })

	bus.Info("tick")
	bus.Info("tock")

	assert.Equal(t, []string{"first", "second", "third", "first", "second", "third"}, order)
}

func TestPanickingListenerIsIsolated(t *testing.T) {
	bus := newTestBus(t)

	var delivered []string
	bus.Subscribe(func(events.Toast) { delivered = append(delivered, "before") })
	bus.Subscribe(func(events.Toast) { panic("bad listener") })
	bus.Subscribe(func(events.Toast) { delivered = append(delivered, "after") })

	require.NotPanics(t, func() {
		bus.Error("something failed")
	})

	assert.Equal(t, []string{"before", "after"}, delivered,
		"listeners after the panicking one must still receive the toast")
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := newTestBus(t)

	var first, second int
	unsubscribe := bus.Subscribe(func(events.Toast) { first++ })
	bus.Subscribe(func(events.Toast) { second++ })

	bus.Warning("one")
	unsubscribe()
	bus.Warning("two")

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)

	// A second call is a no-op rather than a removal of someone else.
	unsubscribe()
	bus.Warning("three")
	assert.Equal(t, 3, second)
}

func TestEmitFillsToastIdentity(t *testing.T) {
	bus := newTestBus(t)

	var got events.Toast
	bus.Subscribe(func(toast events.Toast) { got = toast })

	bus.Success("lot converted")

	assert.Len(t, got.ID, 26, "toast ids are ULIDs")
	assert.False(t, got.EmittedAt.IsZero())
	assert.Positive(t, got.Duration, "an unset duration falls back to the configured default")
	assert.Equal(t, events.ToastSuccess, got.Level)
	assert.Equal(t, "lot converted", got.Message)
}

func TestExplicitDurationWins(t *testing.T) {
	bus := newTestBus(t)

	var got events.Toast
	bus.Subscribe(func(toast events.Toast) { got = toast })

	bus.Error("printer offline", 250*time.Millisecond)

	assert.Equal(t, events.ToastError, got.Level)
	assert.Equal(t, 250*time.Millisecond, got.Duration)
}

func TestLevelHelpers(t *testing.T) {
	bus := newTestBus(t)

	var levels []events.ToastLevel
	bus.Subscribe(func(toast events.Toast) { levels = append(levels, toast.Level) })

	bus.Success("s")
	bus.Error("e")
	bus.Warning("w")
	bus.Info("i")

	assert.Equal(t, []events.ToastLevel{
		events.ToastSuccess, events.ToastError, events.ToastWarning, events.ToastInfo,
	}, levels)
}
