package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hms-notify/internal/model"
	"github.com/jwalitptl/hms-notify/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) ListForDoctorDay(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]*model.Appointment, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT a.id, a.doctor_id, a.patient_id,
			   d.name AS doctor_name,
			   p.name AS patient_name, p.phone AS patient_phone, p.email AS patient_email,
			   a.start_time, a.status
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		JOIN patients p ON p.id = a.patient_id
		WHERE a.doctor_id = $1
		  AND a.start_time >= $2 AND a.start_time < $3
		  AND a.status NOT IN ('cancelled', 'no_show')
		ORDER BY a.start_time
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, dayStart, dayEnd); err != nil {
		return nil, fmt.Errorf("failed to list appointments for doctor day: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListUpcoming(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT a.id, a.doctor_id, a.patient_id,
			   d.name AS doctor_name,
			   p.name AS patient_name, p.phone AS patient_phone, p.email AS patient_email,
			   a.start_time, a.status
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		JOIN patients p ON p.id = a.patient_id
		WHERE a.start_time >= $1 AND a.start_time < $2
		  AND a.status NOT IN ('cancelled', 'completed', 'no_show')
		ORDER BY a.start_time
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}
	return appointments, nil
}
