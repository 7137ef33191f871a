package provider

import (
	"context"

	"github.com/jwalitptl/hms-notify/internal/model"
	"github.com/jwalitptl/hms-notify/pkg/logger"
)

// MockSMS only logs and reports success. Used in development and whenever
// no real provider credentials are configured.
type MockSMS struct {
	logger *logger.Logger
}

func NewMockSMS(log *logger.Logger) *MockSMS {
	return &MockSMS{logger: log}
}

func (m *MockSMS) Name() string { return "mock" }

func (m *MockSMS) Send(ctx context.Context, to, message string, priority model.Priority) bool {
	m.logger.Info("mock SMS sent", "to", to, "priority", string(priority), "length", len(message))
	return true
}

// MockEmail is the email counterpart of MockSMS.
type MockEmail struct {
	logger *logger.Logger
}

func NewMockEmail(log *logger.Logger) *MockEmail {
	return &MockEmail{logger: log}
}

func (m *MockEmail) Name() string { return "mock" }

func (m *MockEmail) Send(ctx context.Context, to, subject, body string) bool {
	m.logger.Info("mock email sent", "to", to, "subject", subject)
	return true
}
