// Package notifications carries user-facing toast events from the services
// that produce them to the bridges that deliver them to dashboard clients.
package notifications

import (
	"fmt"
	"sync"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/events"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/security"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
)

// Listener receives every toast emitted after it subscribes.
type Listener func(events.Toast)

type subscriber struct {
	id int64
	fn Listener
}

// Bus is the in-process toast dispatcher. Emission is synchronous, on the
// caller's goroutine, in subscription order. A listener that panics is
// isolated so one bad consumer cannot take down the emitter or its peers.
// A bus with no listeners drops emissions silently.
//
// The bus is built once in the container and handed to whatever needs it;
// there is no package-level instance to reach for.
type Bus struct {
	mu              sync.RWMutex
	nextID          int64
	subs            []subscriber
	logger          *logging.ChanneledLogger
	defaultDuration time.Duration
}

// NewBus creates an empty bus.
func NewBus(logger *logging.ChanneledLogger) *Bus {
	return &Bus{
		logger:          logger,
		defaultDuration: config.ToastDefaultDuration,
	}
}

// Subscribe registers fn for every subsequent emission and returns the
// function that detaches it.
func (b *Bus) Subscribe(fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.subs {
			if sub.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit fills in the toast's identity and delivers it to every listener in
// subscription order.
func (b *Bus) Emit(toast events.Toast) {
	if toast.ID == "" {
		toast.ID = security.GenerateULID()
	}
	if toast.EmittedAt.IsZero() {
		toast.EmittedAt = time.Now().UTC()
	}
	if toast.Duration <= 0 {
		toast.Duration = b.defaultDuration
	}

	b.mu.RLock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	b.logger.Notify().Debug("Toast emitted",
		"id", toast.ID,
		"level", string(toast.Level),
		"listeners", len(subs))

	for _, sub := range subs {
		b.deliver(sub, toast)
	}
}

// deliver invokes one listener, converting a panic into a log line.
func (b *Bus) deliver(sub subscriber, toast events.Toast) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Notify().Error("Toast listener panicked",
				"id", toast.ID,
				"listener", sub.id,
				"panic", fmt.Sprint(r))
		}
	}()
	sub.fn(toast)
}

// Success emits a success-level toast. An explicit duration overrides the
// configured default.
func (b *Bus) Success(message string, duration ...time.Duration) {
	b.emitLevel(events.ToastSuccess, message, duration)
}

// Error emits an error-level toast.
func (b *Bus) Error(message string, duration ...time.Duration) {
	b.emitLevel(events.ToastError, message, duration)
}

// Warning emits a warning-level toast.
func (b *Bus) Warning(message string, duration ...time.Duration) {
	b.emitLevel(events.ToastWarning, message, duration)
}

// Info emits an info-level toast.
func (b *Bus) Info(message string, duration ...time.Duration) {
	b.emitLevel(events.ToastInfo, message, duration)
}

func (b *Bus) emitLevel(level events.ToastLevel, message string, duration []time.Duration) {
	toast := events.Toast{Level: level, Message: message}
	if len(duration) > 0 {
		toast.Duration = duration[0]
	}
	b.Emit(toast)
}
