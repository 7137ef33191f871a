package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hms-notify/internal/model"
)

// AppointmentRepository is the read-only view of the booking store this
// engine consults. The store itself (and every write path) belongs to the
// main application.
type AppointmentRepository interface {
	// ListForDoctorDay returns a doctor's active bookings for one calendar
	// day (cancelled and no-show appointments excluded), ordered by start.
	ListForDoctorDay(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]*model.Appointment, error)

	// ListUpcoming returns appointments starting in [from, to) that can
	// still happen (cancelled, completed and no-show excluded), with
	// patient contact fields populated.
	ListUpcoming(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
}
