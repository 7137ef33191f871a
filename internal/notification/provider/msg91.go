package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jwalitptl/hms-notify/internal/model"
	"github.com/jwalitptl/hms-notify/pkg/logger"
)

const msg91BaseURL = "https://api.msg91.com/api/v2"

// MSG91 sends SMS through the MSG91 bulk API. High/urgent priority messages
// are sent on the transactional route, which bypasses DND registries.
type MSG91 struct {
	authKey  string
	senderID string
	baseURL  string
	client   *http.Client
	logger   *logger.Logger
}

type msg91Request struct {
	Sender string     `json:"sender"`
	Route  string     `json:"route"`
	SMS    []msg91SMS `json:"sms"`
}

type msg91SMS struct {
	Message string   `json:"message"`
	To      []string `json:"to"`
}

func NewMSG91(cfg SMSConfig, log *logger.Logger) *MSG91 {
	return &MSG91{
		authKey:  cfg.AuthKey,
		senderID: cfg.SenderID,
		baseURL:  msg91BaseURL,
		client:   &http.Client{Timeout: providerTimeout},
		logger:   log,
	}
}

func (m *MSG91) Name() string { return "msg91" }

func (m *MSG91) Send(ctx context.Context, to, message string, priority model.Priority) bool {
	route := "1"
	if priority == model.PriorityHigh || priority == model.PriorityUrgent {
		route = "4"
	}

	body, err := json.Marshal(msg91Request{
		Sender: m.senderID,
		Route:  route,
		SMS:    []msg91SMS{{Message: message, To: []string{strings.TrimPrefix(to, "+")}}},
	})
	if err != nil {
		m.logger.Error(err, "msg91: failed to marshal request")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/sendsms", bytes.NewReader(body))
	if err != nil {
		m.logger.Error(err, "msg91: failed to build request")
		return false
	}
	req.Header.Set("authkey", m.authKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.Error(err, "msg91: request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		m.logger.Error(fmt.Errorf("unexpected status %d", resp.StatusCode), "msg91: send rejected")
		return false
	}
	return true
}
