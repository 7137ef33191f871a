package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// Appointment is a booking row joined with the contact fields the
// notification engine needs. The store itself is external; this is the
// read-only projection consulted for slot and reminder computations.
type Appointment struct {
	ID           uuid.UUID         `db:"id" json:"id"`
	DoctorID     uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	PatientID    uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorName   string            `db:"doctor_name" json:"doctor_name"`
	PatientName  string            `db:"patient_name" json:"patient_name"`
	PatientPhone string            `db:"patient_phone" json:"patient_phone,omitempty"`
	PatientEmail string            `db:"patient_email" json:"patient_email,omitempty"`
	StartTime    time.Time         `db:"start_time" json:"start_time"`
	Status       AppointmentStatus `db:"status" json:"status"`
}

// AppointmentSlot is derived per request, never persisted.
type AppointmentSlot struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	IsBooked    bool   `json:"is_booked"`
	IsAvailable bool   `json:"is_available"`
}

// ConflictingBooking is the redacted view of an existing booking returned
// by the conflict check.
type ConflictingBooking struct {
	ID          uuid.UUID `json:"id"`
	PatientName string    `json:"patient_name"`
	Time        string    `json:"time"`
}

type ConflictCheckResult struct {
	HasConflict       bool                 `json:"has_conflict"`
	Conflicts         []ConflictingBooking `json:"conflicts"`
	NextAvailableSlot *string              `json:"next_available_slot"`
	Message           string               `json:"message"`
}
