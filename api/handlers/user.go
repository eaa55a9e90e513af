package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/carebridge/carebridge-api/api"
	"github.com/carebridge/carebridge-api/config"
	"github.com/carebridge/carebridge-api/databases"
	"github.com/carebridge/carebridge-api/models"
)

// User exported for testing purposes
type User struct {
	DB       databases.UserDatabase
	HealthDB databases.HealthcareDatabase
}

type registerRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	WorkingHours string  `json:"workingHours"`
	Specialty    string  `json:"specialty"`
	Fee          float64 `json:"consultationFee"`
	Experience   int     `json:"yearsExperience"`
	Ward         string  `json:"ward"`
	Address      string  `json:"address"`
	DeliveryArea string  `json:"deliveryArea"`
}

// UserCreateHandler registers a new account. Patients are usable right away;
// healthcare accounts start unapproved and also get a profile document of
// their kind.
func (u User) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		config.ErrorStatus("name, email and password are required", http.StatusBadRequest, w, fmt.Errorf("missing required field"))
		return
	}
	if req.Role != models.RolePatient && !models.IsHealthcareRole(req.Role) {
		config.ErrorStatus("invalid role", http.StatusBadRequest, w, fmt.Errorf("unknown role %q", req.Role))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// check if the user already exists
	existingUser, _ := u.DB.FindOne(ctx, bson.M{"user.email": req.Email})
	if existingUser != nil {
		config.ErrorStatus("email already exists", http.StatusConflict, w, fmt.Errorf("duplicate email"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	user := models.User{
		ID: primitive.NewObjectID().Hex(),
		Details: models.UserDetails{
			Name:     req.Name,
			Email:    req.Email,
			Password: string(hashedPassword),
			Role:     req.Role,
			Banned:   false,
			// patients need no vetting; providers wait for an admin
			Approved:  req.Role == models.RolePatient,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if _, err := u.DB.InsertOne(ctx, user); err != nil {
		config.ErrorStatus("failed to insert user", http.StatusInternalServerError, w, err)
		return
	}

	if models.IsHealthcareRole(req.Role) {
		profile := models.HealthcareProfile{
			ID:           primitive.NewObjectID(),
			UserID:       user.ID,
			Kind:         req.Role,
			WorkingHours: req.WorkingHours,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		switch req.Role {
		case models.RoleDoctor:
			profile.Doctor = &models.DoctorProfile{Specialty: req.Specialty, ConsultationFee: req.Fee}
		case models.RoleNurse:
			profile.Nurse = &models.NurseProfile{YearsExperience: req.Experience, Ward: req.Ward}
		case models.RolePharmacy:
			profile.Pharmacy = &models.PharmacyProfile{Address: req.Address, DeliveryArea: req.DeliveryArea}
		case models.RoleLaboratory:
			profile.Laboratory = &models.LaboratoryProfile{Address: req.Address}
		}
		if _, err := u.HealthDB.InsertOne(ctx, profile); err != nil {
			config.ErrorStatus("failed to insert healthcare profile", http.StatusInternalServerError, w, err)
			return
		}
	}

	user.Details.Password = ""
	b, err := json.Marshal(user)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UserHandler returns a user by ID
func (u User) UserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := u.DB.FindOne(ctx, bson.M{"_id": userID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusNotFound, w, err)
		return
	}
	dbResp.Details.Password = ""

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MeHandler returns the authenticated caller's own account
func (u User) MeHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.UserFromContext(r.Context())
	if caller == nil {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errUnauthorized)
		return
	}

	me := *caller
	me.Details.Password = ""
	b, err := json.Marshal(me)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// protected fields that only dedicated endpoints may change
var protectedUserFields = map[string]bool{
	"role":     true,
	"banned":   true,
	"approved": true,
	"password": true,
	"email":    true,
}

// UpdateUserByIDHandler updates a user's own mutable details
func (u User) UpdateUserByIDHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	caller := api.UserFromContext(r.Context())
	if caller == nil || caller.ID != userID {
		config.ErrorStatus("cannot update another user's account", http.StatusForbidden, w, errNotOwner)
		return
	}

	var updatedFields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updatedFields); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	for key := range updatedFields {
		if protectedUserFields[key] {
			delete(updatedFields, key)
		}
	}
	updatedFields["updatedAt"] = primitive.NewDateTimeFromTime(time.Now())

	// target the internal user object
	update := bson.M{}
	for key, value := range updatedFields {
		update["user."+key] = value
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := u.DB.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": update}); err != nil {
		config.ErrorStatus("failed to update user", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "User updated successfully"}`))
}
