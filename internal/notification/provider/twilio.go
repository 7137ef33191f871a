package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jwalitptl/hms-notify/internal/model"
	"github.com/jwalitptl/hms-notify/pkg/logger"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

// Twilio sends SMS through the Twilio Messages REST API.
type Twilio struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
	logger     *logger.Logger
}

func NewTwilio(cfg SMSConfig, log *logger.Logger) *Twilio {
	return &Twilio{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.From,
		baseURL:    twilioBaseURL,
		client:     &http.Client{Timeout: providerTimeout},
		logger:     log,
	}
}

func (t *Twilio) Name() string { return "twilio" }

func (t *Twilio) Send(ctx context.Context, to, message string, priority model.Priority) bool {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.from)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		t.logger.Error(err, "twilio: failed to build request")
		return false
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Error(err, "twilio: request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		t.logger.Error(fmt.Errorf("unexpected status %d", resp.StatusCode), "twilio: send rejected")
		return false
	}
	return true
}
