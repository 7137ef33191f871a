package provider

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/jwalitptl/hms-notify/internal/model"
	"github.com/jwalitptl/hms-notify/pkg/logger"
)

// SMSProvider delivers a rendered text to a normalized phone number.
// Implementations never return an error: internal failures are logged and
// collapse to false.
type SMSProvider interface {
	Send(ctx context.Context, to, message string, priority model.Priority) bool
	Name() string
}

// EmailProvider delivers a rendered subject/body to an email address.
type EmailProvider interface {
	Send(ctx context.Context, to, subject, body string) bool
	Name() string
}

// SMSConfig selects and configures the SMS backend. Populated from the
// environment (SMS_* variables) via envconfig.
type SMSConfig struct {
	Provider   string `envconfig:"PROVIDER" default:"mock"`
	AccountSID string `envconfig:"ACCOUNT_SID"`
	AuthToken  string `envconfig:"AUTH_TOKEN"`
	AuthKey    string `envconfig:"AUTH_KEY"`
	SenderID   string `envconfig:"SENDER_ID" default:"HOSPTL"`
	From       string `envconfig:"FROM"`
}

// EmailConfig selects and configures the email backend (EMAIL_* variables).
type EmailConfig struct {
	Provider     string `envconfig:"PROVIDER" default:"mock"`
	APIKey       string `envconfig:"API_KEY"`
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	FromAddress  string `envconfig:"FROM_ADDRESS" default:"noreply@hospital.local"`
	FromName     string `envconfig:"FROM_NAME" default:"Hospital"`
}

const providerTimeout = 10 * time.Second

// NewSMSProvider builds the configured SMS backend. A selected vendor with
// missing credentials falls back to the mock so non-production environments
// always appear to succeed.
func NewSMSProvider(cfg SMSConfig, log *logger.Logger) SMSProvider {
	switch strings.ToLower(cfg.Provider) {
	case "twilio":
		if cfg.AccountSID == "" || cfg.AuthToken == "" {
			log.Info("twilio credentials absent, using mock SMS provider")
			return NewMockSMS(log)
		}
		return NewTwilio(cfg, log)
	case "msg91":
		if cfg.AuthKey == "" {
			log.Info("msg91 credentials absent, using mock SMS provider")
			return NewMockSMS(log)
		}
		return NewMSG91(cfg, log)
	default:
		return NewMockSMS(log)
	}
}

// NewEmailProvider builds the configured email backend with the same
// credential fallback rule as NewSMSProvider.
func NewEmailProvider(cfg EmailConfig, log *logger.Logger) EmailProvider {
	switch strings.ToLower(cfg.Provider) {
	case "sendgrid":
		if cfg.APIKey == "" {
			log.Info("sendgrid credentials absent, using mock email provider")
			return NewMockEmail(log)
		}
		return NewSendGrid(cfg, log)
	case "smtp":
		if cfg.SMTPHost == "" || cfg.SMTPUser == "" {
			log.Info("smtp credentials absent, using mock email provider")
			return NewMockEmail(log)
		}
		return NewSMTP(cfg, log)
	default:
		return NewMockEmail(log)
	}
}

// htmlWrap renders the HTML part from the plaintext body.
func htmlWrap(body string) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family:Arial,sans-serif;color:#333">`)
	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			b.WriteString("<br>")
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</p>")
	}
	b.WriteString(`</body></html>`)
	return b.String()
}
