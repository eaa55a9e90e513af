package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// HealthcareProfile holds the structure for the healthcare collection in
// mongo. One document per provider account. Kind matches the owning user's
// role and selects which variant block is populated; the other variants stay
// nil so a doctor document never carries pharmacy fields.
type HealthcareProfile struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	UserID       string             `json:"userID" bson:"userID"`
	Kind         string             `json:"kind" bson:"kind"` // doctor, nurse, pharmacy, laboratory
	WorkingHours string             `json:"workingHours" bson:"workingHours"`

	Doctor     *DoctorProfile     `json:"doctor,omitempty" bson:"doctor,omitempty"`
	Nurse      *NurseProfile      `json:"nurse,omitempty" bson:"nurse,omitempty"`
	Pharmacy   *PharmacyProfile   `json:"pharmacy,omitempty" bson:"pharmacy,omitempty"`
	Laboratory *LaboratoryProfile `json:"laboratory,omitempty" bson:"laboratory,omitempty"`

	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// DoctorProfile holds the doctor-only fields
type DoctorProfile struct {
	Specialty       string  `json:"specialty" bson:"specialty"`
	ConsultationFee float64 `json:"consultationFee" bson:"consultationFee"`
}

// NurseProfile holds the nurse-only fields
type NurseProfile struct {
	YearsExperience int    `json:"yearsExperience" bson:"yearsExperience"`
	Ward            string `json:"ward" bson:"ward"`
}

// PharmacyProfile holds the pharmacy-only fields
type PharmacyProfile struct {
	Address      string `json:"address" bson:"address"`
	DeliveryArea string `json:"deliveryArea" bson:"deliveryArea"`
}

// LaboratoryProfile holds the laboratory-only fields
type LaboratoryProfile struct {
	Address  string   `json:"address" bson:"address"`
	Analyses []string `json:"analyses" bson:"analyses"`
}
