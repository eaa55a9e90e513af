package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/carebridge/carebridge-api/api"
	"github.com/carebridge/carebridge-api/api/handlers/schedule"
	"github.com/carebridge/carebridge-api/config"
	"github.com/carebridge/carebridge-api/databases"
	"github.com/carebridge/carebridge-api/models"
	html "github.com/carebridge/carebridge-api/templates/html"
)

// Appointment represents the appointment REST handler
type Appointment struct {
	DB       databases.AppointmentDatabase
	UserDB   databases.UserDatabase
	ChatDB   databases.ChatDatabase
	HealthDB databases.HealthcareDatabase
	Notifier *Notifier
	Mail     Mailer
}

type createAppointmentRequest struct {
	HealthcareID string      `json:"healthcareID"`
	Date         string      `json:"date"` // 2006-01-02
	Time         string      `json:"time"` // 15:04
	Duration     interface{} `json:"duration"`
	Message      string      `json:"message"`
}

// CreateAppointmentHandler books a pending appointment for the calling
// patient with the given provider.
//
// The slot checks (working hours, horizon, overlap) are read-then-insert
// without a transaction, so two concurrent requests for the same slot can
// both pass validation and both land in the collection. Providers see every
// pending request and resolve the collision by accepting one and rejecting
// the other.
func (a Appointment) CreateAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.UserFromContext(r.Context())
	if caller == nil {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errUnauthorized)
		return
	}

	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	duration, ok := schedule.CoerceDuration(req.Duration, models.DefaultAppointmentDuration)
	if !ok {
		config.ErrorStatus("duration must be between 30 and 60 minutes", http.StatusBadRequest, w, errInvalidSlot)
		return
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, time.UTC)
	if err != nil {
		config.ErrorStatus("invalid date or time", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	provider, err := a.UserDB.FindOne(ctx, bson.M{"_id": req.HealthcareID})
	if err != nil {
		config.ErrorStatus("healthcare provider not found", http.StatusNotFound, w, err)
		return
	}
	if !models.IsHealthcareRole(provider.Details.Role) || !provider.Details.Approved {
		config.ErrorStatus("user is not an approved healthcare provider", http.StatusBadRequest, w, errInvalidSlot)
		return
	}

	// a missing or malformed profile falls back to the default working hours
	workingHours := ""
	if profile, err := a.HealthDB.FindOne(ctx, bson.M{"userID": req.HealthcareID}); err == nil {
		workingHours = profile.WorkingHours
	}
	hours := schedule.ParseWorkingHours(workingHours)

	startMinute := start.Hour()*60 + start.Minute()
	if !hours.Contains(startMinute, startMinute+duration) {
		config.ErrorStatus("appointment is outside the provider's working hours", http.StatusBadRequest, w, errInvalidSlot)
		return
	}

	now := time.Now()
	if start.Before(now) {
		config.ErrorStatus("appointment cannot be in the past", http.StatusBadRequest, w, errInvalidSlot)
		return
	}
	if start.After(now.Add(schedule.BookingHorizon)) {
		config.ErrorStatus("appointment must be within the next 7 days", http.StatusBadRequest, w, errInvalidSlot)
		return
	}

	booked, err := a.DB.Find(ctx, bson.M{
		"healthcareID": req.HealthcareID,
		"status":       bson.M{"$in": []string{models.AppointmentPending, models.AppointmentActive}},
	})
	if err != nil {
		config.ErrorStatus("failed to get existing appointments", http.StatusInternalServerError, w, err)
		return
	}
	for _, existing := range booked {
		// documents written before durations were recorded have none stored
		existingDuration := existing.Duration
		if existingDuration == 0 {
			existingDuration = models.DefaultAppointmentDuration
		}
		if schedule.Overlaps(existing.Start.Time(), existingDuration, start, duration) {
			config.ErrorStatus("the requested slot is already booked", http.StatusBadRequest, w, errInvalidSlot)
			return
		}
	}

	appointment := models.Appointment{
		ID:           primitive.NewObjectID(),
		PatientID:    caller.ID,
		HealthcareID: req.HealthcareID,
		Start:        primitive.NewDateTimeFromTime(start),
		Duration:     duration,
		Status:       models.AppointmentPending,
		Message:      req.Message,
		CreatedAt:    primitive.NewDateTimeFromTime(now),
		UpdatedAt:    primitive.NewDateTimeFromTime(now),
	}
	if _, err := a.DB.InsertOne(ctx, appointment); err != nil {
		config.ErrorStatus("failed to create appointment", http.StatusInternalServerError, w, err)
		return
	}

	a.Notifier.Notify(ctx, req.HealthcareID, models.NotificationAppointmentRequested,
		caller.Details.Name+" requested an appointment", appointment.ID.Hex())

	b, err := json.Marshal(appointment)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

type updateAppointmentStatusRequest struct {
	Status string `json:"status"`
}

// UpdateAppointmentStatusHandler lets the owning provider accept or reject a
// pending appointment. The pending check rides in the update filter so a
// second transition matches nothing instead of overwriting the first.
func (a Appointment) UpdateAppointmentStatusHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.UserFromContext(r.Context())
	if caller == nil {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errUnauthorized)
		return
	}

	appointmentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["appointment_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req updateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Status != models.AppointmentActive && req.Status != models.AppointmentRejected {
		config.ErrorStatus("status must be active or rejected", http.StatusBadRequest, w, errInvalidSlot)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	appointment, err := a.DB.FindOne(ctx, bson.M{"_id": appointmentID})
	if err != nil {
		config.ErrorStatus("appointment not found", http.StatusNotFound, w, err)
		return
	}
	if appointment.HealthcareID != caller.ID {
		config.ErrorStatus("only the appointment's provider can update its status", http.StatusForbidden, w, errNotOwner)
		return
	}

	now := time.Now()
	res, err := a.DB.UpdateOne(ctx,
		bson.M{"_id": appointmentID, "status": models.AppointmentPending},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": primitive.NewDateTimeFromTime(now)}},
	)
	if err != nil {
		config.ErrorStatus("failed to update appointment", http.StatusInternalServerError, w, err)
		return
	}
	if res.ModifiedCount == 0 {
		config.ErrorStatus("appointment is no longer pending", http.StatusBadRequest, w, errInvalidSlot)
		return
	}
	appointment.Status = req.Status
	appointment.UpdatedAt = primitive.NewDateTimeFromTime(now)

	switch req.Status {
	case models.AppointmentActive:
		if _, err := ensureChat(ctx, a.ChatDB, appointment.PatientID, appointment.HealthcareID, appointmentID.Hex()); err != nil {
			zap.S().Errorw("failed to ensure chat for accepted appointment",
				"appointmentID", appointmentID.Hex(), "error", err)
		}
		a.Notifier.Notify(ctx, appointment.PatientID, models.NotificationAppointmentAccepted,
			caller.Details.Name+" accepted your appointment", appointmentID.Hex())
	case models.AppointmentRejected:
		a.Notifier.Notify(ctx, appointment.PatientID, models.NotificationAppointmentRejected,
			caller.Details.Name+" rejected your appointment", appointmentID.Hex())
		if patient, err := a.UserDB.FindOne(ctx, bson.M{"_id": appointment.PatientID}); err == nil {
			subject, plain, body := html.RenderAppointmentRejectedEmail(
				caller.Details.Name, appointment.Start.Time(), appointment.Duration)
			sendEmailBestEffort(a.Mail, patient.Details.Email, subject, plain, body)
		}
	}

	b, err := json.Marshal(appointment)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AppointmentsHandler returns the caller's appointments on either side of the
// booking, optionally filtered by status.
func (a Appointment) AppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.UserFromContext(r.Context())
	if caller == nil {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errUnauthorized)
		return
	}

	filter := bson.M{"$or": []bson.M{
		{"patientID": caller.ID},
		{"healthcareID": caller.ID},
	}}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := databases.Paginate(100, 0)
	opts.SetSort(bson.M{"start": 1})
	dbResp, err := a.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get appointments", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Appointment{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AvailabilityHandler returns a provider's occupied slots over the booking
// horizon together with their resolved working hours. Clients compute free
// slots themselves.
func (a Appointment) AvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	healthcareID := mux.Vars(r)["healthcare_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	workingHours := ""
	if profile, err := a.HealthDB.FindOne(ctx, bson.M{"userID": healthcareID}); err == nil {
		workingHours = profile.WorkingHours
	}
	hours := schedule.ParseWorkingHours(workingHours)

	now := time.Now()
	opts := databases.Paginate(500, 0)
	opts.SetSort(bson.M{"start": 1})
	booked, err := a.DB.Find(ctx, bson.M{
		"healthcareID": healthcareID,
		"status":       bson.M{"$in": []string{models.AppointmentPending, models.AppointmentActive}},
		"start": bson.M{
			"$gte": primitive.NewDateTimeFromTime(now.Add(-time.Duration(schedule.MaxDuration) * time.Minute)),
			"$lt":  primitive.NewDateTimeFromTime(now.Add(schedule.BookingHorizon)),
		},
	}, opts)
	if err != nil {
		config.ErrorStatus("failed to get appointments", http.StatusInternalServerError, w, err)
		return
	}

	slots := make([]models.BookedSlot, 0, len(booked))
	for _, appointment := range booked {
		end := appointment.Start.Time().Add(time.Duration(appointment.Duration) * time.Minute)
		slots = append(slots, models.BookedSlot{
			Start:    appointment.Start,
			End:      primitive.NewDateTimeFromTime(end),
			Duration: appointment.Duration,
		})
	}

	b, err := json.Marshal(models.AvailabilityResponse{
		Slots: slots,
		WorkingHours: models.WorkingHoursRange{
			StartHour: hours.StartHour,
			EndHour:   hours.EndHour,
		},
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type reviewAppointmentRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewAppointmentHandler records the patient's one-time rating of a
// completed appointment. The completed/unrated checks live in the update
// filter so a repeat review matches nothing.
func (a Appointment) ReviewAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.UserFromContext(r.Context())
	if caller == nil {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errUnauthorized)
		return
	}

	appointmentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["appointment_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req reviewAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		config.ErrorStatus("rating must be between 1 and 5", http.StatusBadRequest, w, errInvalidSlot)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	appointment, err := a.DB.FindOne(ctx, bson.M{"_id": appointmentID})
	if err != nil {
		config.ErrorStatus("appointment not found", http.StatusNotFound, w, err)
		return
	}
	if appointment.PatientID != caller.ID {
		config.ErrorStatus("only the appointment's patient can review it", http.StatusForbidden, w, errNotOwner)
		return
	}

	res, err := a.DB.UpdateOne(ctx,
		bson.M{
			"_id":    appointmentID,
			"status": models.AppointmentCompleted,
			"rating": nil,
		},
		bson.M{"$set": bson.M{
			"rating":    req.Rating,
			"comment":   req.Comment,
			"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
		}},
	)
	if err != nil {
		config.ErrorStatus("failed to update appointment", http.StatusInternalServerError, w, err)
		return
	}
	if res.ModifiedCount == 0 {
		config.ErrorStatus("appointment is not completed or was already reviewed", http.StatusBadRequest, w, errInvalidSlot)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Review recorded",
	})
}
