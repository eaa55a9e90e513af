package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Notification type tags. Closed set.
const (
	NotificationAppointmentRequested = "appointment_requested"
	NotificationAppointmentAccepted  = "appointment_accepted"
	NotificationAppointmentRejected  = "appointment_rejected"
	NotificationNewMessage           = "new_message"
)

// Notification holds the structure for the notifications collection in
// mongo. Delivery over the live channel is at-most-once; a notification
// created while its user is offline is only seen on the next fetch.
type Notification struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	UserID    string             `json:"userID" bson:"userID"`
	Type      string             `json:"type" bson:"type"`
	Message   string             `json:"message" bson:"message"`
	RefID     string             `json:"refID" bson:"refID"` // related appointment or chat id
	Read      bool               `json:"read" bson:"read"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
