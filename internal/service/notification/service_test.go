package notification

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-notify/internal/model"
	"github.com/jwalitptl/hms-notify/internal/notification/template"
	"github.com/jwalitptl/hms-notify/pkg/logger"
	"github.com/jwalitptl/hms-notify/pkg/messaging"
)

type fakeSMS struct {
	mu      sync.Mutex
	calls   []string
	times   []time.Time
	result  bool
	blockCh chan struct{} // when set, Send blocks until closed
}

func (f *fakeSMS) Send(ctx context.Context, to, message string, priority model.Priority) bool {
	if f.blockCh != nil {
		<-f.blockCh
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, to+"|"+message)
	f.times = append(f.times, time.Now())
	return f.result
}

func (f *fakeSMS) Name() string { return "fake" }

func (f *fakeSMS) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSMS) sentTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.times...)
}

type publishedEvent struct {
	channel string
	message interface{}
}

type fakeBroker struct {
	mu        sync.Mutex
	published []publishedEvent
	err       error
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, publishedEvent{channel: channel, message: message})
	return b.err
}

func (b *fakeBroker) Close() error { return nil }

func (b *fakeBroker) all() []publishedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]publishedEvent(nil), b.published...)
}

type fakeEmail struct {
	mu     sync.Mutex
	calls  []string
	result bool
}

func (f *fakeEmail) Send(ctx context.Context, to, subject, body string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, to+"|"+subject)
	return f.result
}

func (f *fakeEmail) Name() string { return "fake" }

func (f *fakeEmail) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newTestService(sms *fakeSMS, email *fakeEmail, out *bytes.Buffer) *Service {
	if out == nil {
		out = &bytes.Buffer{}
	}
	log := logger.NewLogger(&logger.Config{
		Level:  logger.InfoLevel,
		Output: out,
	})
	return NewService(template.NewRegistry(), sms, email, nil, nil, log, Config{
		DefaultCountryCode: "+91",
		DrainInterval:      time.Millisecond,
	})
}

func TestSendSMSOnly(t *testing.T) {
	sms := &fakeSMS{result: true}
	email := &fakeEmail{result: true}
	out := &bytes.Buffer{}
	svc := newTestService(sms, email, out)

	result := svc.Send(context.Background(), &model.NotificationPayload{
		Kind:           model.KindAppointmentReminder,
		RecipientPhone: "9876543210",
		Data:           map[string]string{"doctorName": "Rao", "date": "2025-01-10", "time": "10:00"},
	})

	assert.True(t, result.SMSSent)
	assert.False(t, result.EmailSent, "no email address supplied")

	calls := sms.sent()
	require.Len(t, calls, 1)
	assert.True(t, strings.HasPrefix(calls[0], "+919876543210|"), "phone not normalized: %s", calls[0])
	assert.Contains(t, calls[0], "Rao")
	assert.Empty(t, email.sent())

	// Exactly one dispatch summary, with the phone masked.
	logs := out.String()
	assert.Equal(t, 1, strings.Count(logs, "notification dispatched"))
	assert.Contains(t, logs, "****3210")
	assert.NotContains(t, logs, "9876543210")
}

func TestSendBothChannels(t *testing.T) {
	sms := &fakeSMS{result: true}
	email := &fakeEmail{result: true}
	svc := newTestService(sms, email, nil)

	result := svc.Send(context.Background(), &model.NotificationPayload{
		Kind:           model.KindAppointmentConfirmation,
		RecipientPhone: "9876543210",
		RecipientEmail: "patient@example.com",
		Data:           map[string]string{"doctorName": "Rao"},
	})

	assert.True(t, result.SMSSent)
	assert.True(t, result.EmailSent)
	assert.Len(t, sms.sent(), 1)
	assert.Len(t, email.sent(), 1)
}

func TestSendMessageOverridesSMSTemplate(t *testing.T) {
	sms := &fakeSMS{result: true}
	svc := newTestService(sms, &fakeEmail{}, nil)

	svc.Send(context.Background(), &model.NotificationPayload{
		Kind:           model.KindEmergencyAlert,
		RecipientPhone: "9876543210",
		Message:        "Evacuate ward 3 now",
	})

	calls := sms.sent()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], "Evacuate ward 3 now")
}

func TestSendUnknownKind(t *testing.T) {
	sms := &fakeSMS{result: true}
	email := &fakeEmail{result: true}
	svc := newTestService(sms, email, nil)

	result := svc.Send(context.Background(), &model.NotificationPayload{
		Kind:           model.NotificationKind("carrier_pigeon"),
		RecipientPhone: "9876543210",
		RecipientEmail: "patient@example.com",
	})

	assert.False(t, result.SMSSent)
	assert.False(t, result.EmailSent)
	assert.Empty(t, sms.sent(), "no provider call for unknown kind")
	assert.Empty(t, email.sent())
}

func TestSendNoRecipientsIsNoOp(t *testing.T) {
	sms := &fakeSMS{result: true}
	email := &fakeEmail{result: true}
	svc := newTestService(sms, email, nil)

	result := svc.Send(context.Background(), &model.NotificationPayload{
		Kind: model.KindLabResultReady,
	})

	assert.False(t, result.SMSSent)
	assert.False(t, result.EmailSent)
	assert.Empty(t, sms.sent())
	assert.Empty(t, email.sent())
}

func TestSendInvalidEmailRejectedBeforeProvider(t *testing.T) {
	email := &fakeEmail{result: true}
	svc := newTestService(&fakeSMS{}, email, nil)

	result := svc.Send(context.Background(), &model.NotificationPayload{
		Kind:           model.KindPaymentReceipt,
		RecipientEmail: "not-an-address",
	})

	assert.False(t, result.EmailSent)
	assert.Empty(t, email.sent(), "provider must not be called for a malformed address")
}

func TestSendProviderFailureCollapsesToFalse(t *testing.T) {
	sms := &fakeSMS{result: false}
	svc := newTestService(sms, &fakeEmail{}, nil)

	result := svc.Send(context.Background(), &model.NotificationPayload{
		Kind:           model.KindBillGenerated,
		RecipientPhone: "9876543210",
	})

	assert.False(t, result.SMSSent)
	assert.Len(t, sms.sent(), 1)
}

func TestSendPublishesOneMaskedEvent(t *testing.T) {
	sms := &fakeSMS{result: true}
	email := &fakeEmail{result: true}
	broker := &fakeBroker{}
	log := logger.NewLogger(&logger.Config{Level: logger.InfoLevel, Output: &bytes.Buffer{}})
	svc := NewService(template.NewRegistry(), sms, email, broker, nil, log, Config{})

	svc.Send(context.Background(), &model.NotificationPayload{
		Kind:           model.KindAppointmentReminder,
		RecipientPhone: "9876543210",
		RecipientEmail: "patient@example.com",
		Data:           map[string]string{"doctorName": "Rao"},
	})

	events := broker.all()
	require.Len(t, events, 1)
	assert.Equal(t, messaging.ChannelNotifications, events[0].channel)

	event, ok := events[0].message.(*model.NotificationEvent)
	require.True(t, ok, "published message is not a NotificationEvent")
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, model.KindAppointmentReminder, event.Kind)
	assert.Equal(t, "****3210", event.Phone, "event must carry the masked phone")
	assert.Equal(t, "***@example.com", event.Email, "event must carry the masked email")
	assert.True(t, event.SMSSent)
	assert.True(t, event.EmailSent)
}

func TestSendPublishErrorIsSwallowed(t *testing.T) {
	sms := &fakeSMS{result: true}
	broker := &fakeBroker{err: errors.New("connection refused")}
	out := &bytes.Buffer{}
	log := logger.NewLogger(&logger.Config{Level: logger.InfoLevel, Output: out})
	svc := NewService(template.NewRegistry(), sms, &fakeEmail{}, broker, nil, log, Config{})

	result := svc.Send(context.Background(), &model.NotificationPayload{
		Kind:           model.KindAppointmentReminder,
		RecipientPhone: "9876543210",
		Data:           map[string]string{"doctorName": "Rao"},
	})

	assert.True(t, result.SMSSent, "a broker outage must not affect delivery outcomes")
	assert.Contains(t, out.String(), "failed to publish notification event")
}

func TestProcessQueueDrainsFIFO(t *testing.T) {
	sms := &fakeSMS{result: true}
	svc := newTestService(sms, &fakeEmail{}, nil)

	for _, msg := range []string{"first", "second", "third"} {
		svc.Queue(&model.NotificationPayload{
			Kind:           model.KindEmergencyAlert,
			RecipientPhone: "9876543210",
			Message:        msg,
		})
	}
	assert.Equal(t, 3, svc.QueueDepth())

	processed := svc.ProcessQueue(context.Background())
	assert.Equal(t, 3, processed)
	assert.Equal(t, 0, svc.QueueDepth())

	calls := sms.sent()
	require.Len(t, calls, 3)
	assert.Contains(t, calls[0], "first")
	assert.Contains(t, calls[1], "second")
	assert.Contains(t, calls[2], "third")
}

func TestProcessQueuePacesEntries(t *testing.T) {
	sms := &fakeSMS{result: true}
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: &bytes.Buffer{}})
	svc := NewService(template.NewRegistry(), sms, &fakeEmail{}, nil, nil, log, Config{
		DrainInterval: 50 * time.Millisecond,
	})

	for _, msg := range []string{"first", "second"} {
		svc.Queue(&model.NotificationPayload{
			Kind:           model.KindEmergencyAlert,
			RecipientPhone: "9876543210",
			Message:        msg,
		})
	}

	assert.Equal(t, 2, svc.ProcessQueue(context.Background()))

	times := sms.sentTimes()
	require.Len(t, times, 2)
	assert.GreaterOrEqual(t, times[1].Sub(times[0]), 45*time.Millisecond,
		"the pause must apply between the first and second entries")
}

func TestProcessQueueSingleFlight(t *testing.T) {
	block := make(chan struct{})
	sms := &fakeSMS{result: true, blockCh: block}
	svc := newTestService(sms, &fakeEmail{}, nil)

	svc.Queue(&model.NotificationPayload{
		Kind:           model.KindEmergencyAlert,
		RecipientPhone: "9876543210",
		Message:        "only entry",
	})

	firstDone := make(chan int)
	go func() {
		firstDone <- svc.ProcessQueue(context.Background())
	}()

	// Wait until the first drain is inside the blocking send, then a
	// concurrent call must no-op immediately. The probe releases the slot
	// if it accidentally wins it.
	require.Eventually(t, func() bool {
		if svc.queue.beginDrain() {
			svc.queue.endDrain()
			return false
		}
		return true
	}, time.Second, time.Millisecond)

	assert.Equal(t, 0, svc.ProcessQueue(context.Background()))

	close(block)
	assert.Equal(t, 1, <-firstDone)
	assert.Equal(t, 0, svc.QueueDepth())

	// Drained exactly once.
	assert.Len(t, sms.sent(), 1)
}
