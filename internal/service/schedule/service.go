package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hms-notify/internal/model"
	"github.com/jwalitptl/hms-notify/internal/repository"
	apperrors "github.com/jwalitptl/hms-notify/pkg/errors"
)

// Existing bookings are treated as fixed-length; the store does not carry
// a per-appointment duration.
const bookingMinutes = 30

// DayWindow is one weekday's open/close window in HH:MM.
type DayWindow struct {
	Open  string
	Close string
}

// Config holds the clinic hours table. Weekdays absent from Hours are
// fully closed.
type Config struct {
	SlotMinutes int
	Hours       map[string]DayWindow
}

func DefaultConfig() Config {
	return Config{
		SlotMinutes: 30,
		Hours: map[string]DayWindow{
			"Monday":    {Open: "09:00", Close: "17:00"},
			"Tuesday":   {Open: "09:00", Close: "17:00"},
			"Wednesday": {Open: "09:00", Close: "17:00"},
			"Thursday":  {Open: "09:00", Close: "17:00"},
			"Friday":    {Open: "09:00", Close: "17:00"},
			"Saturday":  {Open: "09:00", Close: "13:00"},
		},
	}
}

// Service computes a doctor's open slots and tests proposed bookings for
// overlap. Slot generation and conflict detection share one interval
// predicate, so the two views cannot disagree on the same data.
type Service struct {
	repo repository.AppointmentRepository
	cfg  Config
}

func NewService(repo repository.AppointmentRepository, cfg Config) *Service {
	if cfg.SlotMinutes <= 0 {
		cfg.SlotMinutes = 30
	}
	return &Service{repo: repo, cfg: cfg}
}

// DaySlots generates the doctor's slot grid for one calendar day. A slot is
// booked when its interval overlaps any active booking's interval.
func (s *Service) DaySlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]model.AppointmentSlot, error) {
	window, ok := s.cfg.Hours[date.Weekday().String()]
	if !ok {
		return []model.AppointmentSlot{}, nil
	}

	openMin, err := parseHHMM(window.Open)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("invalid open time for %s: %w", date.Weekday(), err))
	}
	closeMin, err := parseHHMM(window.Close)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("invalid close time for %s: %w", date.Weekday(), err))
	}

	bookings, err := s.repo.ListForDoctorDay(ctx, doctorID, date)
	if err != nil {
		return nil, apperrors.Unavailable("appointment store", err)
	}

	slots := make([]model.AppointmentSlot, 0, (closeMin-openMin)/s.cfg.SlotMinutes)
	for start := openMin; start+s.cfg.SlotMinutes <= closeMin; start += s.cfg.SlotMinutes {
		booked := false
		for _, b := range bookings {
			bStart := minutesOf(b.StartTime)
			if overlaps(start, start+s.cfg.SlotMinutes, bStart, bStart+bookingMinutes) {
				booked = true
				break
			}
		}
		slots = append(slots, model.AppointmentSlot{
			Start:       formatHHMM(start),
			End:         formatHHMM(start + s.cfg.SlotMinutes),
			IsBooked:    booked,
			IsAvailable: !booked,
		})
	}
	return slots, nil
}

// CheckConflict tests a proposed (date, start, duration) against the
// doctor's active bookings. excludeID skips one appointment, for
// reschedule-in-place checks; pass uuid.Nil to check everything.
func (s *Service) CheckConflict(ctx context.Context, doctorID uuid.UUID, date time.Time, start string, durationMinutes int, excludeID uuid.UUID) (*model.ConflictCheckResult, error) {
	if durationMinutes <= 0 {
		durationMinutes = bookingMinutes
	}

	proposed, err := parseHHMM(start)
	if err != nil {
		return nil, apperrors.BadRequest("invalid start time", err)
	}

	bookings, err := s.repo.ListForDoctorDay(ctx, doctorID, date)
	if err != nil {
		return nil, apperrors.Unavailable("appointment store", err)
	}

	var conflicts []model.ConflictingBooking
	for _, b := range bookings {
		if excludeID != uuid.Nil && b.ID == excludeID {
			continue
		}
		bStart := minutesOf(b.StartTime)
		if overlaps(proposed, proposed+durationMinutes, bStart, bStart+bookingMinutes) {
			conflicts = append(conflicts, model.ConflictingBooking{
				ID:          b.ID,
				PatientName: b.PatientName,
				Time:        formatHHMM(bStart),
			})
		}
	}

	result := &model.ConflictCheckResult{
		HasConflict: len(conflicts) > 0,
		Conflicts:   conflicts,
	}
	if !result.HasConflict {
		result.Message = "The selected time slot is available."
		return result, nil
	}

	result.Message = fmt.Sprintf("The selected time conflicts with %d existing booking(s).", len(conflicts))
	if next := s.nextAvailable(date, bookings, durationMinutes, excludeID); next != "" {
		result.NextAvailableSlot = &next
		result.Message += fmt.Sprintf(" Next available slot: %s.", next)
	} else {
		result.Message += " No free slot remains before close of day."
	}
	return result, nil
}

// nextAvailable scans forward in booking-length steps across the day's
// window (09:00-17:00 when the day is absent from the hours table) for the
// first start that fits without overlap.
func (s *Service) nextAvailable(date time.Time, bookings []*model.Appointment, durationMinutes int, excludeID uuid.UUID) string {
	openMin, closeMin := 9*60, 17*60
	if window, ok := s.cfg.Hours[date.Weekday().String()]; ok {
		if o, err := parseHHMM(window.Open); err == nil {
			openMin = o
		}
		if c, err := parseHHMM(window.Close); err == nil {
			closeMin = c
		}
	}

	for start := openMin; start+durationMinutes <= closeMin; start += bookingMinutes {
		free := true
		for _, b := range bookings {
			if excludeID != uuid.Nil && b.ID == excludeID {
				continue
			}
			bStart := minutesOf(b.StartTime)
			if overlaps(start, start+durationMinutes, bStart, bStart+bookingMinutes) {
				free = false
				break
			}
		}
		if free {
			return formatHHMM(start)
		}
	}
	return ""
}

// overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

func minutesOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func parseHHMM(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
