package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Appointment lifecycle statuses. An appointment is created pending by a
// patient and may only leave pending through the provider (active/rejected).
// Completed is applied by the background sweep once an active slot elapses.
const (
	AppointmentPending   = "pending"
	AppointmentActive    = "active"
	AppointmentRejected  = "rejected"
	AppointmentCompleted = "completed"
)

// DefaultAppointmentDuration is used when a booking request omits the
// duration or sends something non-numeric.
const DefaultAppointmentDuration = 30

// Appointment holds the structure for the appointments collection in mongo
type Appointment struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	PatientID    string             `json:"patientID" bson:"patientID"`
	HealthcareID string             `json:"healthcareID" bson:"healthcareID"`
	Start        primitive.DateTime `json:"start" bson:"start"`
	Duration     int                `json:"duration" bson:"duration"` // minutes
	Status       string             `json:"status" bson:"status"`
	Message      string             `json:"message" bson:"message"`
	Rating       *int               `json:"rating,omitempty" bson:"rating,omitempty"`
	Comment      string             `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt    primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt    primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// BookedSlot is one occupied interval returned by the availability endpoint.
type BookedSlot struct {
	Start    primitive.DateTime `json:"start"`
	End      primitive.DateTime `json:"end"`
	Duration int                `json:"duration"`
}

// AvailabilityResponse is the availability payload: occupied slots plus the
// provider's resolved working-hour range. Free-slot computation is left to
// the caller.
type AvailabilityResponse struct {
	Slots        []BookedSlot      `json:"slots"`
	WorkingHours WorkingHoursRange `json:"workingHours"`
}

// WorkingHoursRange is a half-open [startHour, endHour) range on a 24h clock.
type WorkingHoursRange struct {
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}
