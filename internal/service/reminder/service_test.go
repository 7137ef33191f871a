package reminder

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-notify/internal/model"
	"github.com/jwalitptl/hms-notify/internal/notification/template"
	"github.com/jwalitptl/hms-notify/internal/repository/memory"
	notificationService "github.com/jwalitptl/hms-notify/internal/service/notification"
	"github.com/jwalitptl/hms-notify/pkg/logger"
)

type recordedSend struct {
	to       string
	message  string
	priority model.Priority
}

type recordingSMS struct {
	mu    sync.Mutex
	sends []recordedSend
}

func (r *recordingSMS) Send(ctx context.Context, to, message string, priority model.Priority) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends = append(r.sends, recordedSend{to: to, message: message, priority: priority})
	return true
}

func (r *recordingSMS) Name() string { return "recording" }

func (r *recordingSMS) all() []recordedSend {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedSend(nil), r.sends...)
}

type discardEmail struct{}

func (discardEmail) Send(ctx context.Context, to, subject, body string) bool { return true }
func (discardEmail) Name() string                                            { return "discard" }

func newReminderService() (*Service, *memory.AppointmentRepository, *recordingSMS) {
	repo := memory.NewAppointmentRepository()
	sms := &recordingSMS{}
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: &bytes.Buffer{}})

	notifier := notificationService.NewService(
		template.NewRegistry(), sms, discardEmail{}, nil, nil, log,
		notificationService.Config{},
	)
	return NewService(repo, notifier, nil, log), repo, sms
}

func addAppointment(repo *memory.AppointmentRepository, start time.Time, phone string) *model.Appointment {
	apt := &model.Appointment{
		DoctorName:   "Rao",
		PatientName:  "Asha Verma",
		PatientPhone: phone,
		StartTime:    start,
		Status:       model.AppointmentStatusScheduled,
	}
	repo.Add(apt)
	return apt
}

func TestSweepFiresDayWindow(t *testing.T) {
	svc, repo, sms := newReminderService()
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	addAppointment(repo, now.Add(24*time.Hour), "9876543210")

	result, err := svc.Sweep(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Considered)
	assert.Equal(t, 1, result.Sent)

	sends := sms.all()
	require.Len(t, sends, 1)
	assert.Equal(t, model.PriorityNormal, sends[0].priority)
	assert.Contains(t, sends[0].message, "Dr. Rao")
	assert.Contains(t, sends[0].message, "2025-01-07")
}

func TestSweepFiresHourWindowAsHighPriority(t *testing.T) {
	svc, repo, sms := newReminderService()
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	addAppointment(repo, now.Add(time.Hour), "9876543210")

	result, err := svc.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)

	sends := sms.all()
	require.Len(t, sends, 1)
	assert.Equal(t, model.PriorityHigh, sends[0].priority)
}

func TestSweepSkipsOutsideWindows(t *testing.T) {
	svc, repo, sms := newReminderService()
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	addAppointment(repo, now.Add(20*time.Hour), "9876543210")   // between windows
	addAppointment(repo, now.Add(26*time.Hour), "9876543210")   // past the day window
	addAppointment(repo, now.Add(20*time.Minute), "9876543210") // too close

	result, err := svc.Sweep(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Considered)
	assert.Equal(t, 0, result.Sent)
	assert.Empty(t, sms.all())
}

func TestSweepIgnoresBeyondLookahead(t *testing.T) {
	svc, repo, _ := newReminderService()
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	addAppointment(repo, now.Add(72*time.Hour), "9876543210")

	result, err := svc.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Considered)
}

func TestSweepSkipsNoContact(t *testing.T) {
	svc, repo, sms := newReminderService()
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	addAppointment(repo, now.Add(24*time.Hour), "")

	result, err := svc.Sweep(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Considered)
	assert.Equal(t, 0, result.Sent)
	assert.Empty(t, sms.all())
}

func TestSweepDeduplicatesWithinWindow(t *testing.T) {
	svc, repo, sms := newReminderService()
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	addAppointment(repo, now.Add(24*time.Hour), "9876543210")

	first, err := svc.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Sent)

	// A second sweep fifteen minutes later still sees the appointment in
	// the window, but the marker suppresses a duplicate.
	second, err := svc.Sweep(context.Background(), now.Add(15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, second.Considered)
	assert.Equal(t, 0, second.Sent)

	assert.Len(t, sms.all(), 1)
}

func TestSweepSendsBothWindowsOverTime(t *testing.T) {
	svc, repo, sms := newReminderService()
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	start := now.Add(24 * time.Hour)

	addAppointment(repo, start, "9876543210")

	first, err := svc.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Sent)

	// A day later the same appointment enters the one-hour window and is
	// reminded again under the other window's marker.
	second, err := svc.Sweep(context.Background(), start.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, second.Sent)

	sends := sms.all()
	require.Len(t, sends, 2)
	assert.Equal(t, model.PriorityNormal, sends[0].priority)
	assert.Equal(t, model.PriorityHigh, sends[1].priority)
}

func TestDueWindowBoundaries(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{25.5, ""},
		{25.0, "24h"},
		{24.0, "24h"},
		{23.1, "24h"},
		{23.0, ""},
		{20.0, ""},
		{2.0, "1h"},
		{1.0, "1h"},
		{0.6, "1h"},
		{0.5, ""},
		{0.1, ""},
		{-1.0, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, dueWindow(tt.hours), "hoursUntil=%v", tt.hours)
	}
}
