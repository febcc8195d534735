package email

import (
	"log/slog"
	"testing"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/notifications"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	subject string
	body    string
}

type fakeService struct {
	sent chan sentEmail
}

func (f *fakeService) SendAlertEmail(subject, htmlBody string) error {
	f.sent <- sentEmail{subject: subject, body: htmlBody}
	return nil
}

func newMailerFixture(t *testing.T) (*notifications.Bus, *fakeService, *AlertMailer) {
	t.Helper()

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		JSONFormat:    true,
		DefaultLevel:  slog.LevelError,
		ChannelLevels: make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	bus := notifications.NewBus(logger)
	svc := &fakeService{sent: make(chan sentEmail, 4)}
	mailer := NewAlertMailer(bus, svc, logger)
	t.Cleanup(mailer.Close)
	return bus, svc, mailer
}

func TestOnlyErrorToastsAreMailed(t *testing.T) {
	bus, svc, _ := newMailerFixture(t)

	bus.Info("routine refresh")
	bus.Success("lot converted")
	bus.Warning("slow upstream")
	bus.Error("mes api /v1/lots returned 502")

	select {
	case email := <-svc.sent:
		assert.Contains(t, email.subject, "mes api /v1/lots returned 502")
		assert.Contains(t, email.body, "error")
	case <-time.After(time.Second):
		t.Fatal("error toast did not produce an alert email")
	}

	select {
	case email := <-svc.sent:
		t.Fatalf("non-error toast produced an email: %s", email.subject)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCooldownSuppressesRepeatAlerts(t *testing.T) {
	bus, svc, mailer := newMailerFixture(t)
	mailer.cooldown = time.Hour

	bus.Error("mes unreachable")
	bus.Error("mes still unreachable")
	bus.Error("mes really still unreachable")

	select {
	case email := <-svc.sent:
		assert.Contains(t, email.subject, "mes unreachable")
	case <-time.After(time.Second):
		t.Fatal("first error toast did not produce an alert email")
	}

	select {
	case email := <-svc.sent:
		t.Fatalf("cooldown failed to suppress: %s", email.subject)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDetachedMailerStopsListening(t *testing.T) {
	bus, svc, mailer := newMailerFixture(t)

	mailer.Close()
	bus.Error("after close")

	select {
	case email := <-svc.sent:
		t.Fatalf("closed mailer still received toasts: %s", email.subject)
	case <-time.After(50 * time.Millisecond):
	}
}
