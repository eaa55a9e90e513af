package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carebridge/carebridge-api/api"
	"github.com/carebridge/carebridge-api/config"
	"github.com/carebridge/carebridge-api/databases"
	"github.com/carebridge/carebridge-api/models"
)

// Announcement audiences
const (
	AudienceAll        = "all"
	AudiencePatients   = "patients"
	AudienceHealthcare = "healthcare"
)

// Announcement represents the announcement REST handler
type Announcement struct {
	DB databases.AnnouncementDatabase
}

// AnnouncementsHandler lists announcements visible to the caller's role,
// newest first
func (a Announcement) AnnouncementsHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.UserFromContext(r.Context())
	if caller == nil {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errUnauthorized)
		return
	}

	audience := AudiencePatients
	if models.IsHealthcareRole(caller.Details.Role) {
		audience = AudienceHealthcare
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	dbResp, err := a.DB.Find(ctx, bson.M{
		"audience": bson.M{"$in": []string{AudienceAll, audience}},
	}, opts)
	if err != nil {
		config.ErrorStatus("failed to get announcements", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Announcement{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type announcementRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Audience string `json:"audience"`
}

func validAudience(audience string) bool {
	return audience == AudienceAll || audience == AudiencePatients || audience == AudienceHealthcare
}

// CreateAnnouncementHandler publishes a new announcement (admin only; the
// route is behind the admin JWT middleware)
func (a Announcement) CreateAnnouncementHandler(w http.ResponseWriter, r *http.Request) {
	var req announcementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Title == "" || req.Body == "" {
		config.ErrorStatus("title and body are required", http.StatusBadRequest, w, errInvalidSlot)
		return
	}
	if req.Audience == "" {
		req.Audience = AudienceAll
	}
	if !validAudience(req.Audience) {
		config.ErrorStatus("audience must be all, patients or healthcare", http.StatusBadRequest, w, errInvalidSlot)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := primitive.NewDateTimeFromTime(time.Now())
	announcement := models.Announcement{
		ID:        primitive.NewObjectID(),
		Title:     req.Title,
		Body:      req.Body,
		Audience:  req.Audience,
		CreatedBy: api.AdminIDFromContext(r.Context()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := a.DB.InsertOne(ctx, announcement); err != nil {
		config.ErrorStatus("failed to create announcement", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(announcement)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateAnnouncementHandler edits an announcement (admin only)
func (a Announcement) UpdateAnnouncementHandler(w http.ResponseWriter, r *http.Request) {
	announcementID, err := primitive.ObjectIDFromHex(mux.Vars(r)["announcement_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req announcementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	update := bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Body != "" {
		update["body"] = req.Body
	}
	if req.Audience != "" {
		if !validAudience(req.Audience) {
			config.ErrorStatus("audience must be all, patients or healthcare", http.StatusBadRequest, w, errInvalidSlot)
			return
		}
		update["audience"] = req.Audience
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := a.DB.UpdateOne(ctx, bson.M{"_id": announcementID}, bson.M{"$set": update})
	if err != nil {
		config.ErrorStatus("failed to update announcement", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("announcement not found", http.StatusNotFound, w, errNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Announcement updated successfully"}`))
}

// DeleteAnnouncementHandler removes an announcement (admin only)
func (a Announcement) DeleteAnnouncementHandler(w http.ResponseWriter, r *http.Request) {
	announcementID, err := primitive.ObjectIDFromHex(mux.Vars(r)["announcement_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := a.DB.DeleteOne(ctx, bson.M{"_id": announcementID}); err != nil {
		config.ErrorStatus("failed to delete announcement", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Announcement deleted successfully"}`))
}
