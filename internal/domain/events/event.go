// Package events provides event types
package events

import "time"

// ToastLevel classifies a transient user-facing notification.
type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
	ToastWarning ToastLevel = "warning"
	ToastInfo    ToastLevel = "info"
)

// Toast is a transient user-facing message. Toasts are never persisted and
// are consumed at most once, by whichever listeners are registered at emit
// time. A zero Duration means the consumer's default display time.
type Toast struct {
	ID        string
	Level     ToastLevel
	Message   string
	Duration  time.Duration
	EmittedAt time.Time
}
