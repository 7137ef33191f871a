package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hms-notify/internal/model"
	"github.com/jwalitptl/hms-notify/internal/repository"
)

// AppointmentRepository is an in-memory implementation used in tests and
// when the service runs without a configured database.
type AppointmentRepository struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]*model.Appointment
}

var _ repository.AppointmentRepository = (*AppointmentRepository)(nil)

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{
		appointments: make(map[uuid.UUID]*model.Appointment),
	}
}

// Add inserts or replaces an appointment.
func (r *AppointmentRepository) Add(apt *model.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if apt.ID == uuid.Nil {
		apt.ID = uuid.New()
	}
	r.appointments[apt.ID] = apt
}

func (r *AppointmentRepository) ListForDoctorDay(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]*model.Appointment, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Appointment
	for _, apt := range r.appointments {
		if apt.DoctorID != doctorID {
			continue
		}
		if apt.Status == model.AppointmentStatusCancelled || apt.Status == model.AppointmentStatusNoShow {
			continue
		}
		if apt.StartTime.Before(dayStart) || !apt.StartTime.Before(dayEnd) {
			continue
		}
		out = append(out, apt)
	}
	sortByStart(out)
	return out, nil
}

func (r *AppointmentRepository) ListUpcoming(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Appointment
	for _, apt := range r.appointments {
		switch apt.Status {
		case model.AppointmentStatusCancelled, model.AppointmentStatusCompleted, model.AppointmentStatusNoShow:
			continue
		}
		if apt.StartTime.Before(from) || !apt.StartTime.Before(to) {
			continue
		}
		out = append(out, apt)
	}
	sortByStart(out)
	return out, nil
}

func sortByStart(apts []*model.Appointment) {
	sort.Slice(apts, func(i, j int) bool {
		return apts[i].StartTime.Before(apts[j].StartTime)
	})
}
