package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jwalitptl/hms-notify/pkg/logger"
)

const sendgridBaseURL = "https://api.sendgrid.com/v3"

// SendGrid sends email through the SendGrid v3 mail API.
type SendGrid struct {
	apiKey      string
	fromAddress string
	fromName    string
	baseURL     string
	client      *http.Client
	logger      *logger.Logger
}

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgRequest struct {
	Personalizations []struct {
		To []sgAddress `json:"to"`
	} `json:"personalizations"`
	From    sgAddress   `json:"from"`
	Subject string      `json:"subject"`
	Content []sgContent `json:"content"`
}

func NewSendGrid(cfg EmailConfig, log *logger.Logger) *SendGrid {
	return &SendGrid{
		apiKey:      cfg.APIKey,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		baseURL:     sendgridBaseURL,
		client:      &http.Client{Timeout: providerTimeout},
		logger:      log,
	}
}

func (s *SendGrid) Name() string { return "sendgrid" }

func (s *SendGrid) Send(ctx context.Context, to, subject, body string) bool {
	payload := sgRequest{
		From:    sgAddress{Email: s.fromAddress, Name: s.fromName},
		Subject: subject,
		Content: []sgContent{
			{Type: "text/plain", Value: body},
			{Type: "text/html", Value: htmlWrap(body)},
		},
	}
	payload.Personalizations = append(payload.Personalizations, struct {
		To []sgAddress `json:"to"`
	}{To: []sgAddress{{Email: to}}})

	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "sendgrid: failed to marshal request")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/mail/send", bytes.NewReader(raw))
	if err != nil {
		s.logger.Error(err, "sendgrid: failed to build request")
		return false
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error(err, "sendgrid: request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Error(fmt.Errorf("unexpected status %d", resp.StatusCode), "sendgrid: send rejected")
		return false
	}
	return true
}
