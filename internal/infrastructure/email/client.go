// Package email provides the email client for sending ops alert emails.
package email

import (
	"fmt"
	"strings"

	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendAlertEmail(subject, htmlBody string) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	toEmails  []string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	if config.ResendAPIKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY is required when alert email is enabled")
	}

	toEmails := splitRecipients(config.AlertEmailTo)
	if len(toEmails) == 0 {
		return nil, fmt.Errorf("ALERT_EMAIL_TO is required when alert email is enabled")
	}

	return &ResendClient{
		client:    resend.NewClient(config.ResendAPIKey),
		fromEmail: config.AlertEmailFrom,
		toEmails:  toEmails,
	}, nil
}

// SendAlertEmail sends one alert to every configured recipient.
func (c *ResendClient) SendAlertEmail(subject, htmlBody string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("NeuroHub Gateway <%s>", c.fromEmail),
		To:      c.toEmails,
		Subject: subject,
		Html:    htmlBody,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send alert email via Resend: %w", err)
	}
	return nil
}

func splitRecipients(raw string) []string {
	var recipients []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}
