package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Announcement holds the structure for the announcements collection in mongo
type Announcement struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Title     string             `json:"title" bson:"title"`
	Body      string             `json:"body" bson:"body"`
	Audience  string             `json:"audience" bson:"audience"` // all, patients, healthcare
	CreatedBy string             `json:"createdBy" bson:"createdBy"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
