package templates

import (
	"fmt"
	"time"
)

// RenderAppointmentRejectedEmail builds the body sent to a patient whose
// booking request was turned down. It repeats the original schedule so the
// patient can pick a new slot without opening the app.
func RenderAppointmentRejectedEmail(providerName string, start time.Time, duration int) (subject, plain, htmlBody string) {
	subject = "Your appointment request was declined"
	plain = fmt.Sprintf(
		"Unfortunately %s is unable to take your appointment on %s at %s (%d minutes).\n\n"+
			"You can check their availability and request another slot at any time.",
		providerName,
		start.Format("Monday, 2 January 2006"),
		start.Format("15:04"),
		duration,
	)
	htmlBody = RenderGenericEmail(subject, plain)
	return subject, plain, htmlBody
}

// RenderAppointmentReminderEmail builds the reminder sent the day before a
// confirmed appointment.
func RenderAppointmentReminderEmail(providerName string, start time.Time) (subject, plain, htmlBody string) {
	subject = "Appointment reminder"
	plain = fmt.Sprintf(
		"This is a reminder of your appointment with %s tomorrow, %s at %s.",
		providerName,
		start.Format("Monday, 2 January 2006"),
		start.Format("15:04"),
	)
	htmlBody = RenderGenericEmail(subject, plain)
	return subject, plain, htmlBody
}

// RenderAccountApprovedEmail builds the notice sent to a healthcare account
// once an administrator approves it.
func RenderAccountApprovedEmail(name string) (subject, plain, htmlBody string) {
	subject = "Your healthcare account has been approved"
	plain = fmt.Sprintf(
		"Hi %s,\n\nYour healthcare account has been reviewed and approved. "+
			"Patients can now find your profile and request appointments.",
		name,
	)
	htmlBody = RenderGenericEmail(subject, plain)
	return subject, plain, htmlBody
}
