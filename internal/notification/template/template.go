package template

import (
	"github.com/jwalitptl/hms-notify/internal/model"
)

// Template is a static SMS/email text pair with {{token}} placeholders.
// Templates are immutable and loaded once at process start.
type Template struct {
	SMSText      string
	EmailSubject string
	EmailBody    string
}

// Registry maps every notification kind to its template pair.
type Registry struct {
	templates map[model.NotificationKind]Template
}

func NewRegistry() *Registry {
	return &Registry{templates: map[model.NotificationKind]Template{
		model.KindAppointmentReminder: {
			SMSText:      "Reminder: appointment with Dr. {{doctorName}} on {{date}} at {{time}}. Reply CANCEL to cancel.",
			EmailSubject: "Appointment reminder - {{date}}",
			EmailBody:    "Dear {{patientName}},\n\nThis is a reminder of your appointment with Dr. {{doctorName}} on {{date}} at {{time}}.\n\nPlease arrive 15 minutes early with your ID card.",
		},
		model.KindAppointmentConfirmation: {
			SMSText:      "Appointment confirmed with Dr. {{doctorName}} on {{date}} at {{time}}. Token: {{tokenNumber}}",
			EmailSubject: "Appointment confirmed - {{date}}",
			EmailBody:    "Dear {{patientName}},\n\nYour appointment with Dr. {{doctorName}} is confirmed for {{date}} at {{time}}.\nToken number: {{tokenNumber}}",
		},
		model.KindAppointmentCancelled: {
			SMSText:      "Your appointment with Dr. {{doctorName}} on {{date}} at {{time}} has been cancelled.",
			EmailSubject: "Appointment cancelled - {{date}}",
			EmailBody:    "Dear {{patientName}},\n\nYour appointment with Dr. {{doctorName}} on {{date}} at {{time}} has been cancelled.\nReason: {{reason}}\n\nPlease contact the front desk to reschedule.",
		},
		model.KindLabResultReady: {
			SMSText:      "Your lab results for {{testName}} are ready. Collect the report at the lab counter or view it online.",
			EmailSubject: "Lab results ready - {{testName}}",
			EmailBody:    "Dear {{patientName}},\n\nYour results for {{testName}} are ready.\nReport ID: {{reportId}}",
		},
		model.KindCriticalValueAlert: {
			SMSText:      "CRITICAL: {{testName}} result for patient {{patientName}} requires immediate attention. Value: {{value}}",
			EmailSubject: "CRITICAL value alert - {{testName}}",
			EmailBody:    "Critical result for patient {{patientName}}.\n\nTest: {{testName}}\nValue: {{value}}\nReference range: {{range}}\n\nImmediate clinical review required.",
		},
		model.KindDischargeSummary: {
			SMSText:      "Discharge summary for {{patientName}} is ready. Please collect it from the ward desk before leaving.",
			EmailSubject: "Discharge summary - {{patientName}}",
			EmailBody:    "Dear {{patientName}},\n\nYour discharge summary is attached to your patient record.\nDischarge date: {{date}}\nFollow-up: {{followUp}}",
		},
		model.KindPrescriptionReady: {
			SMSText:      "Your prescription {{prescriptionId}} is ready for pickup at the pharmacy.",
			EmailSubject: "Prescription ready",
			EmailBody:    "Dear {{patientName}},\n\nPrescription {{prescriptionId}} is ready for pickup at the hospital pharmacy.",
		},
		model.KindPaymentReceipt: {
			SMSText:      "Payment of {{amount}} received. Receipt no: {{receiptNumber}}. Thank you.",
			EmailSubject: "Payment receipt {{receiptNumber}}",
			EmailBody:    "Dear {{patientName}},\n\nWe have received your payment of {{amount}}.\nReceipt number: {{receiptNumber}}\nDate: {{date}}",
		},
		model.KindBillGenerated: {
			SMSText:      "Bill {{billNumber}} of {{amount}} generated. Pay at the billing counter or online.",
			EmailSubject: "Bill generated - {{billNumber}}",
			EmailBody:    "Dear {{patientName}},\n\nBill {{billNumber}} for {{amount}} has been generated.\nDue date: {{dueDate}}",
		},
		model.KindPasswordReset: {
			SMSText:      "Your password reset code is {{code}}. It expires in 15 minutes.",
			EmailSubject: "Password reset request",
			EmailBody:    "A password reset was requested for your account.\n\nReset code: {{code}}\n\nIf you did not request this, ignore this message.",
		},
		model.KindEmergencyAlert: {
			SMSText:      "EMERGENCY: {{message}} Location: {{location}}",
			EmailSubject: "EMERGENCY alert",
			EmailBody:    "Emergency alert.\n\n{{message}}\n\nLocation: {{location}}\nTime: {{time}}",
		},
		model.KindAdmissionNotification: {
			SMSText:      "{{patientName}} admitted to {{ward}}, bed {{bed}}. Visiting hours: {{visitingHours}}.",
			EmailSubject: "Admission notification - {{patientName}}",
			EmailBody:    "Dear {{contactName}},\n\n{{patientName}} has been admitted to {{ward}}, bed {{bed}}.\nAttending doctor: Dr. {{doctorName}}\nVisiting hours: {{visitingHours}}",
		},
		model.KindSurgeryScheduled: {
			SMSText:      "Surgery scheduled for {{patientName}} on {{date}} at {{time}}. Fasting required from {{fastingFrom}}.",
			EmailSubject: "Surgery scheduled - {{date}}",
			EmailBody:    "Dear {{patientName}},\n\nYour surgery with Dr. {{doctorName}} is scheduled for {{date}} at {{time}}.\n\nPre-operative instructions:\n{{instructions}}",
		},
		model.KindBloodRequestUrgent: {
			SMSText:      "URGENT: {{bloodGroup}} blood needed at {{hospitalName}}. Contact {{contactPhone}} if you can donate.",
			EmailSubject: "URGENT blood request - {{bloodGroup}}",
			EmailBody:    "Urgent requirement for {{bloodGroup}} blood at {{hospitalName}}.\n\nUnits needed: {{units}}\nContact: {{contactPhone}}",
		},
	}}
}

// Lookup returns the template pair for a kind.
func (r *Registry) Lookup(kind model.NotificationKind) (Template, bool) {
	t, ok := r.templates[kind]
	return t, ok
}
