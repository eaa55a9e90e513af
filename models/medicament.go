package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Medicament holds the structure for the medicaments collection in mongo.
// Pharmacies and laboratories use it to publish what they stock or analyze.
type Medicament struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	OwnerID     string             `json:"ownerID" bson:"ownerID"` // pharmacy or laboratory user id
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	InStock     bool               `json:"inStock" bson:"inStock"`
	ImageURL    string             `json:"imageUrl" bson:"imageUrl"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
