package models

// Roles a user account can hold. Role checks are flat comparisons, no role
// implies another's permissions.
const (
	RolePatient    = "patient"
	RoleDoctor     = "doctor"
	RoleNurse      = "nurse"
	RolePharmacy   = "pharmacy"
	RoleLaboratory = "laboratory"
)

// HealthcareRoles lists every provider-kind role.
var HealthcareRoles = []string{RoleDoctor, RoleNurse, RolePharmacy, RoleLaboratory}

// IsHealthcareRole reports whether role is one of the provider kinds.
func IsHealthcareRole(role string) bool {
	for _, r := range HealthcareRoles {
		if role == r {
			return true
		}
	}
	return false
}

// User holds the structure for the user collection in mongo
type User struct {
	ID      string      `json:"_id" bson:"_id"`
	Details UserDetails `json:"user" bson:"user"`
	Version int32       `json:"__v" bson:"__v"`
}

// UserDetails holds the structure for the inner user structure as defined in
// the user collection in mongo
type UserDetails struct {
	Name           string      `json:"name" bson:"name"`
	Email          string      `json:"email" bson:"email"`
	Password       string      `json:"password,omitempty" bson:"password"`
	Role           string      `json:"role" bson:"role"`
	Banned         bool        `json:"banned" bson:"banned"`
	Approved       bool        `json:"approved" bson:"approved"`
	ProfilePicture string      `json:"profilePicture" bson:"profilePicture"`
	CreatedAt      interface{} `json:"createdAt" bson:"createdAt"`
	UpdatedAt      interface{} `json:"updatedAt" bson:"updatedAt"`
}
