package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hms-notify/internal/model"
	"github.com/jwalitptl/hms-notify/internal/notification/provider"
	"github.com/jwalitptl/hms-notify/internal/notification/template"
	"github.com/jwalitptl/hms-notify/pkg/logger"
	"github.com/jwalitptl/hms-notify/pkg/messaging"
	"github.com/jwalitptl/hms-notify/pkg/metrics"
)

// Config tunes the orchestrator. Zero values fall back to defaults.
type Config struct {
	// DefaultCountryCode is prepended to bare 10-digit phone numbers.
	DefaultCountryCode string
	// DrainInterval is the pause between queue entries during a drain, a
	// crude self-imposed rate limit toward the providers.
	DrainInterval time.Duration
}

// Service is the notification orchestrator: it renders templates and fans
// a payload out to the SMS and email channels. All delivery failures
// collapse to false flags; Send never returns an error.
type Service struct {
	templates *template.Registry
	sms       provider.SMSProvider
	email     provider.EmailProvider
	broker    messaging.Broker // optional, events skipped when nil
	metrics   *metrics.Metrics // optional
	logger    *logger.Logger
	queue     *Queue
	limiter   *rate.Limiter
	cfg       Config
}

func NewService(templates *template.Registry, sms provider.SMSProvider, email provider.EmailProvider, broker messaging.Broker, m *metrics.Metrics, log *logger.Logger, cfg Config) *Service {
	if cfg.DefaultCountryCode == "" {
		cfg.DefaultCountryCode = "+91"
	}
	if cfg.DrainInterval <= 0 {
		cfg.DrainInterval = 100 * time.Millisecond
	}
	return &Service{
		templates: templates,
		sms:       sms,
		email:     email,
		broker:    broker,
		metrics:   m,
		logger:    log,
		queue:     NewQueue(),
		limiter:   rate.NewLimiter(rate.Every(cfg.DrainInterval), 1),
		cfg:       cfg,
	}
}

// Send dispatches one payload and reports per-channel outcomes. A payload
// with neither phone nor email is a no-op, not an error. The only
// structural failure is an unknown kind, and even that is swallowed.
func (s *Service) Send(ctx context.Context, payload *model.NotificationPayload) model.DeliveryResult {
	result := model.DeliveryResult{}

	tmpl, ok := s.templates.Lookup(payload.Kind)
	if !ok {
		s.logger.Error(fmt.Errorf("no template registered for kind %q", payload.Kind), "notification dropped")
		s.count("sms", false, payload.RecipientPhone != "")
		s.count("email", false, payload.RecipientEmail != "")
		return result
	}

	if payload.RecipientPhone != "" {
		result.SMSSent = s.sendSMS(ctx, payload, tmpl)
	}
	if payload.RecipientEmail != "" {
		result.EmailSent = s.sendEmail(ctx, payload, tmpl)
	}

	s.logger.Info("notification dispatched",
		"kind", string(payload.Kind),
		"priority", string(s.priority(payload)),
		"phone", maskPhone(payload.RecipientPhone),
		"email", maskEmail(payload.RecipientEmail),
		"sms_sent", result.SMSSent,
		"email_sent", result.EmailSent,
	)

	s.publishEvent(ctx, payload, result)
	return result
}

func (s *Service) sendSMS(ctx context.Context, payload *model.NotificationPayload, tmpl template.Template) bool {
	start := time.Now()
	to := NormalizePhone(payload.RecipientPhone, s.cfg.DefaultCountryCode)

	message := payload.Message
	if message == "" {
		message = template.Render(tmpl.SMSText, payload.Data)
	}

	sent := s.sms.Send(ctx, to, message, s.priority(payload))
	s.observe("sms", sent, time.Since(start))
	return sent
}

func (s *Service) sendEmail(ctx context.Context, payload *model.NotificationPayload, tmpl template.Template) bool {
	start := time.Now()
	to := strings.TrimSpace(payload.RecipientEmail)
	if !ValidEmail(to) {
		s.logger.Warn("malformed email address rejected", "email", maskEmail(to), "kind", string(payload.Kind))
		s.observe("email", false, time.Since(start))
		return false
	}

	subject := template.Render(tmpl.EmailSubject, payload.Data)
	body := template.Render(tmpl.EmailBody, payload.Data)

	sent := s.email.Send(ctx, to, subject, body)
	s.observe("email", sent, time.Since(start))
	return sent
}

// Queue defers a payload to the delivery queue instead of sending it.
func (s *Service) Queue(payload *model.NotificationPayload) {
	s.queue.Enqueue(payload)
	if s.metrics != nil {
		s.metrics.QueueDepth.Set(float64(s.queue.Len()))
	}
}

// QueueDepth reports the number of payloads waiting in the queue.
func (s *Service) QueueDepth() int {
	return s.queue.Len()
}

// ProcessQueue drains the delivery queue, pausing between entries. Only
// one drain runs at a time; a concurrent call returns 0 immediately. One
// failing entry never stalls the rest. Returns the number of entries
// processed.
func (s *Service) ProcessQueue(ctx context.Context) int {
	if !s.queue.beginDrain() {
		return 0
	}
	defer s.queue.endDrain()

	// The bucket refills while the queue sits idle; consume the stale
	// token so the pause applies between the first two entries as well.
	s.limiter.Reserve()

	processed := 0
	for {
		payload, ok := s.queue.pop()
		if !ok {
			break
		}

		s.Send(ctx, payload)
		processed++
		if s.metrics != nil {
			s.metrics.QueueProcessed.Inc()
			s.metrics.QueueDepth.Set(float64(s.queue.Len()))
		}

		if err := s.limiter.Wait(ctx); err != nil {
			s.logger.Warn("queue drain interrupted", "processed", processed)
			break
		}
	}
	return processed
}

func (s *Service) priority(payload *model.NotificationPayload) model.Priority {
	if payload.Priority == "" {
		return model.PriorityNormal
	}
	return payload.Priority
}

func (s *Service) publishEvent(ctx context.Context, payload *model.NotificationPayload, result model.DeliveryResult) {
	if s.broker == nil {
		return
	}
	event := &model.NotificationEvent{
		ID:        uuid.New(),
		Kind:      payload.Kind,
		Priority:  s.priority(payload),
		Phone:     maskPhone(payload.RecipientPhone),
		Email:     maskEmail(payload.RecipientEmail),
		SMSSent:   result.SMSSent,
		EmailSent: result.EmailSent,
		CreatedAt: time.Now(),
	}
	if err := s.broker.Publish(ctx, messaging.ChannelNotifications, event); err != nil {
		s.logger.Error(err, "failed to publish notification event")
	}
}

func (s *Service) observe(channel string, sent bool, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	status := "failed"
	if sent {
		status = "sent"
	}
	s.metrics.SendsTotal.WithLabelValues(channel, status).Inc()
	s.metrics.SendLatency.WithLabelValues(channel).Observe(elapsed.Seconds())
}

func (s *Service) count(channel string, sent, attempted bool) {
	if !attempted || s.metrics == nil {
		return
	}
	status := "failed"
	if sent {
		status = "sent"
	}
	s.metrics.SendsTotal.WithLabelValues(channel, status).Inc()
}

// maskPhone keeps only the last four digits.
func maskPhone(phone string) string {
	if phone == "" {
		return ""
	}
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}

// maskEmail keeps only the domain.
func maskEmail(email string) string {
	if email == "" {
		return ""
	}
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return "***@" + email[i+1:]
	}
	return "***"
}
