package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carebridge/carebridge-api/api"
	"github.com/carebridge/carebridge-api/config"
	"github.com/carebridge/carebridge-api/databases"
	"github.com/carebridge/carebridge-api/models"
)

// Medicament represents the medicament catalog REST handler
type Medicament struct {
	DB databases.MedicamentDatabase
}

// MedicamentsHandler lists catalog entries, optionally for one owner
func (m Medicament) MedicamentsHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if ownerID := r.URL.Query().Get("ownerId"); ownerID != "" {
		filter["ownerID"] = ownerID
	}

	page := 0
	if parsed, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && parsed >= 0 {
		page = parsed
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := m.DB.Find(ctx, filter, databases.Paginate(50, page))
	if err != nil {
		config.ErrorStatus("failed to get medicaments", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Medicament{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MedicamentByIDHandler returns a single catalog entry
func (m Medicament) MedicamentByIDHandler(w http.ResponseWriter, r *http.Request) {
	medicamentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["medicament_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := m.DB.FindOne(ctx, bson.M{"_id": medicamentID})
	if err != nil {
		config.ErrorStatus("medicament not found", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type medicamentRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	InStock     *bool   `json:"inStock"`
	ImageURL    string  `json:"imageUrl"`
}

// CreateMedicamentHandler adds a catalog entry owned by the calling pharmacy
// or laboratory
func (m Medicament) CreateMedicamentHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.UserFromContext(r.Context())
	if caller == nil {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errUnauthorized)
		return
	}

	var req medicamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Name == "" {
		config.ErrorStatus("name is required", http.StatusBadRequest, w, errInvalidSlot)
		return
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := primitive.NewDateTimeFromTime(time.Now())
	medicament := models.Medicament{
		ID:          primitive.NewObjectID(),
		OwnerID:     caller.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		InStock:     inStock,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := m.DB.InsertOne(ctx, medicament); err != nil {
		config.ErrorStatus("failed to create medicament", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(medicament)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateMedicamentHandler edits a catalog entry owned by the caller
func (m Medicament) UpdateMedicamentHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.UserFromContext(r.Context())
	if caller == nil {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errUnauthorized)
		return
	}

	medicamentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["medicament_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req medicamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	update := bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.Price > 0 {
		update["price"] = req.Price
	}
	if req.InStock != nil {
		update["inStock"] = *req.InStock
	}
	if req.ImageURL != "" {
		update["imageUrl"] = req.ImageURL
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// ownership rides in the filter
	res, err := m.DB.UpdateOne(ctx,
		bson.M{"_id": medicamentID, "ownerID": caller.ID},
		bson.M{"$set": update},
	)
	if err != nil {
		config.ErrorStatus("failed to update medicament", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("medicament not found or not owned by caller", http.StatusNotFound, w, errNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Medicament updated successfully"}`))
}

// DeleteMedicamentHandler removes a catalog entry owned by the caller
func (m Medicament) DeleteMedicamentHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.UserFromContext(r.Context())
	if caller == nil {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errUnauthorized)
		return
	}

	medicamentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["medicament_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := m.DB.FindOne(ctx, bson.M{"_id": medicamentID})
	if err != nil {
		config.ErrorStatus("medicament not found", http.StatusNotFound, w, err)
		return
	}
	if existing.OwnerID != caller.ID {
		config.ErrorStatus("only the owner can delete a medicament", http.StatusForbidden, w, errNotOwner)
		return
	}

	if err := m.DB.DeleteOne(ctx, bson.M{"_id": medicamentID}); err != nil {
		config.ErrorStatus("failed to delete medicament", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Medicament deleted successfully"}`))
}
