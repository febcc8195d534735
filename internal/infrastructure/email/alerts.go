package email

import (
	"fmt"
	"sync"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/events"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/email/templates"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/notifications"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
)

// AlertMailer listens on the toast bus and emails error-level toasts to the
// ops inbox. A cooldown caps the rate so an MES outage produces one email,
// not one per failed refresh.
type AlertMailer struct {
	service  Service
	logger   *logging.ChanneledLogger
	cooldown time.Duration

	mu       sync.Mutex
	lastSent time.Time

	detach func()
}

// NewAlertMailer attaches a mailer to the bus.
func NewAlertMailer(bus *notifications.Bus, service Service, logger *logging.ChanneledLogger) *AlertMailer {
	m := &AlertMailer{
		service:  service,
		logger:   logger,
		cooldown: config.AlertCooldown,
	}
	m.detach = bus.Subscribe(m.onToast)
	return m
}

// onToast runs on the emitter's goroutine; the actual send happens off it.
func (m *AlertMailer) onToast(toast events.Toast) {
	if toast.Level != events.ToastError {
		return
	}
	if !m.claimSendSlot() {
		m.logger.Alert().Debug("Alert email suppressed by cooldown", "id", toast.ID)
		return
	}

	go m.send(toast)
}

func (m *AlertMailer) send(toast events.Toast) {
	subject := fmt.Sprintf("[neurohub-gateway] %s", toast.Message)
	body := templates.GetAlertEmailContent(templates.AlertEmailProps{
		Level:     string(toast.Level),
		Message:   toast.Message,
		ToastID:   toast.ID,
		EmittedAt: toast.EmittedAt.UTC().Format(time.RFC3339),
	})

	if err := m.service.SendAlertEmail(subject, body); err != nil {
		m.logger.Alert().Error("Alert email failed", "id", toast.ID, "error", err)
		return
	}
	m.logger.Alert().Info("Alert email sent", "id", toast.ID)
}

// claimSendSlot reports whether the cooldown window is open and, if so,
// consumes it.
func (m *AlertMailer) claimSendSlot() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.lastSent) < m.cooldown {
		return false
	}
	m.lastSent = time.Now()
	return true
}

// Close detaches the mailer from the bus.
func (m *AlertMailer) Close() {
	m.detach()
}
