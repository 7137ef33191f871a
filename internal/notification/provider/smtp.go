package provider

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/hms-notify/pkg/logger"
)

// SMTP sends email through a plain SMTP relay using gomail.
type SMTP struct {
	dialer      *gomail.Dialer
	fromAddress string
	fromName    string
	logger      *logger.Logger
}

func NewSMTP(cfg EmailConfig, log *logger.Logger) *SMTP {
	return &SMTP{
		dialer:      gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		logger:      log,
	}
}

func (s *SMTP) Name() string { return "smtp" }

func (s *SMTP) Send(ctx context.Context, to, subject, body string) bool {
	// gomail has no context support; the dialer's own timeout applies.
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.fromAddress, s.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.AddAlternative("text/html", htmlWrap(body))

	if err := s.dialer.DialAndSend(msg); err != nil {
		s.logger.Error(fmt.Errorf("smtp send: %w", err), "smtp: send failed")
		return false
	}
	return true
}
