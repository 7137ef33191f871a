package reminder

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/hms-notify/internal/model"
	"github.com/jwalitptl/hms-notify/internal/repository"
	notificationService "github.com/jwalitptl/hms-notify/internal/service/notification"
	"github.com/jwalitptl/hms-notify/pkg/logger"
	"github.com/jwalitptl/hms-notify/pkg/metrics"
)

const (
	// Windows are half-open on the near side so an appointment exactly 24
	// (or 1) hours out is still included.
	dayWindowMin  = 23.0
	dayWindowMax  = 25.0
	hourWindowMin = 0.5
	hourWindowMax = 2.0

	windowDay  = "24h"
	windowHour = "1h"

	lookahead = 2 * 24 * time.Hour

	// markerTTL outlives the widest window, so one appointment cannot be
	// reminded twice inside the same window even across many sweeps.
	markerTTL = 26 * time.Hour
)

// SweepResult reports one sweep invocation.
type SweepResult struct {
	Considered int `json:"considered"`
	Sent       int `json:"sent"`
}

// Service periodically inspects upcoming appointments and fires reminder
// notifications when they enter the 24-hour or 1-hour window. Sent markers
// are held in process memory only; a restart may re-send within a window.
type Service struct {
	repo     repository.AppointmentRepository
	notifier *notificationService.Service
	markers  *gocache.Cache
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewService(repo repository.AppointmentRepository, notifier *notificationService.Service, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		markers:  gocache.New(markerTTL, 30*time.Minute),
		metrics:  m,
		logger:   log,
	}
}

// Sweep fetches appointments inside the lookahead horizon and fires every
// due reminder synchronously.
func (s *Service) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	appointments, err := s.repo.ListUpcoming(ctx, now, now.Add(lookahead))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming appointments: %w", err)
	}

	result := &SweepResult{Considered: len(appointments)}
	for _, apt := range appointments {
		if apt.PatientPhone == "" && apt.PatientEmail == "" {
			continue
		}

		window := dueWindow(apt.StartTime.Sub(now).Hours())
		if window == "" {
			continue
		}

		marker := apt.ID.String() + ":" + window
		if err := s.markers.Add(marker, struct{}{}, markerTTL); err != nil {
			// Already reminded inside this window.
			continue
		}

		s.fire(ctx, apt, window)
		result.Sent++
	}

	if s.metrics != nil {
		s.metrics.SweepsTotal.Inc()
	}
	s.logger.Info("reminder sweep finished", "considered", result.Considered, "sent", result.Sent)
	return result, nil
}

// dueWindow maps hours-until-start to a reminder window name, or "" when
// the appointment is not due.
func dueWindow(hoursUntil float64) string {
	switch {
	case hoursUntil > dayWindowMin && hoursUntil <= dayWindowMax:
		return windowDay
	case hoursUntil > hourWindowMin && hoursUntil <= hourWindowMax:
		return windowHour
	default:
		return ""
	}
}

func (s *Service) fire(ctx context.Context, apt *model.Appointment, window string) {
	payload := &model.NotificationPayload{
		Kind:           model.KindAppointmentReminder,
		RecipientPhone: apt.PatientPhone,
		RecipientEmail: apt.PatientEmail,
		Priority:       model.PriorityNormal,
		Data: map[string]string{
			"patientName": apt.PatientName,
			"doctorName":  apt.DoctorName,
			"date":        apt.StartTime.Format("2006-01-02"),
			"time":        apt.StartTime.Format("15:04"),
		},
	}
	if window == windowHour {
		payload.Priority = model.PriorityHigh
	}

	s.notifier.Send(ctx, payload)
	if s.metrics != nil {
		s.metrics.RemindersSent.WithLabelValues(window).Inc()
	}
}
