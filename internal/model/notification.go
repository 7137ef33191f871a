package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind identifies which template pair a notification uses.
type NotificationKind string

const (
	KindAppointmentReminder     NotificationKind = "appointment_reminder"
	KindAppointmentConfirmation NotificationKind = "appointment_confirmation"
	KindAppointmentCancelled    NotificationKind = "appointment_cancelled"
	KindLabResultReady          NotificationKind = "lab_result_ready"
	KindCriticalValueAlert      NotificationKind = "critical_value_alert"
	KindDischargeSummary        NotificationKind = "discharge_summary"
	KindPrescriptionReady       NotificationKind = "prescription_ready"
	KindPaymentReceipt          NotificationKind = "payment_receipt"
	KindBillGenerated           NotificationKind = "bill_generated"
	KindPasswordReset           NotificationKind = "password_reset"
	KindEmergencyAlert          NotificationKind = "emergency_alert"
	KindAdmissionNotification   NotificationKind = "admission_notification"
	KindSurgeryScheduled        NotificationKind = "surgery_scheduled"
	KindBloodRequestUrgent      NotificationKind = "blood_request_urgent"
)

// Kinds lists every supported notification kind.
func Kinds() []NotificationKind {
	return []NotificationKind{
		KindAppointmentReminder,
		KindAppointmentConfirmation,
		KindAppointmentCancelled,
		KindLabResultReady,
		KindCriticalValueAlert,
		KindDischargeSummary,
		KindPrescriptionReady,
		KindPaymentReceipt,
		KindBillGenerated,
		KindPasswordReset,
		KindEmergencyAlert,
		KindAdmissionNotification,
		KindSurgeryScheduled,
		KindBloodRequestUrgent,
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// NotificationPayload is the inbound unit of work for the orchestrator.
// At least one of RecipientPhone/RecipientEmail must be set for a send to
// have any effect; absence of both is a no-op, not an error.
type NotificationPayload struct {
	Kind           NotificationKind  `json:"kind"`
	RecipientPhone string            `json:"recipient_phone,omitempty"`
	RecipientEmail string            `json:"recipient_email,omitempty"`
	Message        string            `json:"message,omitempty"`
	Data           map[string]string `json:"data,omitempty"`
	Priority       Priority          `json:"priority,omitempty"`
}

// DeliveryResult aggregates per-channel outcomes. Every failure collapses
// to false for that channel; nothing is ever raised to the caller.
type DeliveryResult struct {
	SMSSent   bool `json:"sms_sent"`
	EmailSent bool `json:"email_sent"`
}

// NotificationEvent is published on the broker after each dispatch so
// downstream consumers (audit trail, status UI) can observe deliveries.
// Recipients are already masked by the orchestrator.
type NotificationEvent struct {
	ID        uuid.UUID        `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Priority  Priority         `json:"priority"`
	Phone     string           `json:"phone,omitempty"`
	Email     string           `json:"email,omitempty"`
	SMSSent   bool             `json:"sms_sent"`
	EmailSent bool             `json:"email_sent"`
	CreatedAt time.Time        `json:"created_at"`
}
