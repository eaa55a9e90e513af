package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Chat holds the structure for the chats collection in mongo. There is at
// most one chat per (patient, healthcare) pair; AppointmentIDs accumulates
// every appointment that justified the chat, without duplicates.
type Chat struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	PatientID      string             `json:"patientID" bson:"patientID"`
	HealthcareID   string             `json:"healthcareID" bson:"healthcareID"`
	AppointmentIDs []string           `json:"appointmentIDs" bson:"appointmentIDs"`
	CreatedAt      primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt      primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// Participant reports whether userID is one of the two chat parties.
func (c Chat) Participant(userID string) bool {
	return userID == c.PatientID || userID == c.HealthcareID
}

// Peer returns the other participant for a given party of the chat.
func (c Chat) Peer(userID string) string {
	if userID == c.PatientID {
		return c.HealthcareID
	}
	return c.PatientID
}

// ChatPreview is the chat list payload: the chat plus its last message and
// the caller's unread count.
type ChatPreview struct {
	Chat        Chat     `json:"chat"`
	LastMessage *Message `json:"lastMessage,omitempty"`
	UnreadCount int64    `json:"unreadCount"`
}
