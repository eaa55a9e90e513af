package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carebridge/carebridge-api/api"
	"github.com/carebridge/carebridge-api/config"
	"github.com/carebridge/carebridge-api/databases"
	"github.com/carebridge/carebridge-api/models"
)

// Healthcare represents the healthcare-profile REST handler
type Healthcare struct {
	DB     databases.HealthcareDatabase
	UserDB databases.UserDatabase
}

// HealthcareListHandler lists provider profiles, optionally filtered by kind
func (h Healthcare) HealthcareListHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		if !models.IsHealthcareRole(kind) {
			config.ErrorStatus("invalid healthcare kind", http.StatusBadRequest, w, errInvalidSlot)
			return
		}
		filter["kind"] = kind
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profiles, err := h.DB.Find(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to get healthcare profiles", http.StatusNotFound, w, err)
		return
	}

	// only surface providers an admin has approved
	listed := make([]models.HealthcareProfile, 0, len(profiles))
	for _, profile := range profiles {
		owner, err := h.UserDB.FindOne(ctx, bson.M{"_id": profile.UserID})
		if err != nil || !owner.Details.Approved || owner.Details.Banned {
			continue
		}
		listed = append(listed, profile)
	}

	b, err := json.Marshal(listed)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// HealthcareByUserIDHandler returns the profile owned by a provider account
func (h Healthcare) HealthcareByUserIDHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := h.DB.FindOne(ctx, bson.M{"userID": userID})
	if err != nil {
		config.ErrorStatus("healthcare profile not found", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(profile)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type updateHealthcareRequest struct {
	WorkingHours *string                   `json:"workingHours"`
	Doctor       *models.DoctorProfile     `json:"doctor"`
	Nurse        *models.NurseProfile      `json:"nurse"`
	Pharmacy     *models.PharmacyProfile   `json:"pharmacy"`
	Laboratory   *models.LaboratoryProfile `json:"laboratory"`
}

// UpdateHealthcareHandler updates the caller's own profile. Only the variant
// block matching the profile's kind is accepted, so a doctor can never grow
// pharmacy fields.
func (h Healthcare) UpdateHealthcareHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	caller := api.UserFromContext(r.Context())
	if caller == nil || caller.ID != userID {
		config.ErrorStatus("cannot update another provider's profile", http.StatusForbidden, w, errNotOwner)
		return
	}

	var req updateHealthcareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := h.DB.FindOne(ctx, bson.M{"userID": userID})
	if err != nil {
		config.ErrorStatus("healthcare profile not found", http.StatusNotFound, w, err)
		return
	}

	update := bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())}
	if req.WorkingHours != nil {
		update["workingHours"] = *req.WorkingHours
	}
	switch profile.Kind {
	case models.RoleDoctor:
		if req.Doctor != nil {
			update["doctor"] = req.Doctor
		}
	case models.RoleNurse:
		if req.Nurse != nil {
			update["nurse"] = req.Nurse
		}
	case models.RolePharmacy:
		if req.Pharmacy != nil {
			update["pharmacy"] = req.Pharmacy
		}
	case models.RoleLaboratory:
		if req.Laboratory != nil {
			update["laboratory"] = req.Laboratory
		}
	}

	if _, err := h.DB.UpdateOne(ctx, bson.M{"userID": userID}, bson.M{"$set": update}); err != nil {
		config.ErrorStatus("failed to update healthcare profile", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Healthcare profile updated successfully"}`))
}
