package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carebridge/carebridge-api/api"
	"github.com/carebridge/carebridge-api/databases/mocks"
	"github.com/carebridge/carebridge-api/models"
)

type captureMailer struct {
	sent     int
	lastTo   string
	lastSubj string
}

func (c *captureMailer) Send(toEmail, subject, plainTextContent, htmlContent string) error {
	c.sent++
	c.lastTo = toEmail
	c.lastSubj = subject
	return nil
}

func authedRequest(method, target string, body interface{}, caller *models.User) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	return req.WithContext(api.ContextWithUser(req.Context(), caller))
}

func patientCaller() *models.User {
	return &models.User{
		ID: primitive.NewObjectID().Hex(),
		Details: models.UserDetails{
			Name:     "Alice Martin",
			Email:    "alice@example.com",
			Role:     models.RolePatient,
			Approved: true,
		},
	}
}

func providerCaller() *models.User {
	return &models.User{
		ID: primitive.NewObjectID().Hex(),
		Details: models.UserDetails{
			Name:     "Dr. Dupont",
			Email:    "dupont@example.com",
			Role:     models.RoleDoctor,
			Approved: true,
		},
	}
}

// tomorrowAt returns tomorrow's date at the given wall-clock time in UTC,
// which is always inside the booking horizon.
func tomorrowAt(hour, minute int) time.Time {
	t := time.Now().UTC().Add(24 * time.Hour)
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, time.UTC)
}

func createBody(healthcareID string, start time.Time, duration interface{}) map[string]interface{} {
	return map[string]interface{}{
		"healthcareID": healthcareID,
		"date":         start.Format("2006-01-02"),
		"time":         start.Format("15:04"),
		"duration":     duration,
		"message":      "persistent headaches",
	}
}

func TestCreateAppointmentHandler_DurationOutOfRange(t *testing.T) {
	a := Appointment{}

	for _, duration := range []interface{}{10, 61} {
		req := authedRequest("POST", "/api/v1/appointments",
			createBody("abc", tomorrowAt(10, 0), duration), patientCaller())
		rr := httptest.NewRecorder()

		a.CreateAppointmentHandler(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "duration %v", duration)
		assert.Contains(t, rr.Body.String(), "duration must be between 30 and 60 minutes")
	}
}

func TestCreateAppointmentHandler_OmittedDurationDefaults(t *testing.T) {
	provider := providerCaller()

	userDB := mocks.NewUserDatabase(t)
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(provider, nil)

	healthDB := mocks.NewHealthcareDatabase(t)
	healthDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.HealthcareProfile{WorkingHours: "9 AM - 5 PM"}, nil)

	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("Find", mock.Anything, mock.Anything).Return([]models.Appointment{}, nil)
	apptDB.On("InsertOne", mock.Anything, mock.MatchedBy(func(doc interface{}) bool {
		appt, ok := doc.(models.Appointment)
		return ok && appt.Duration == models.DefaultAppointmentDuration && appt.Status == models.AppointmentPending
	})).Return(nil, nil)

	notifDB := mocks.NewNotificationDatabase(t)
	notifDB.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	a := Appointment{
		DB:       apptDB,
		UserDB:   userDB,
		HealthDB: healthDB,
		Notifier: &Notifier{DB: notifDB},
	}

	body := createBody(provider.ID, tomorrowAt(10, 0), nil)
	delete(body, "duration")
	req := authedRequest("POST", "/api/v1/appointments", body, patientCaller())
	rr := httptest.NewRecorder()

	a.CreateAppointmentHandler(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestCreateAppointmentHandler_NonNumericDurationDefaults(t *testing.T) {
	provider := providerCaller()

	userDB := mocks.NewUserDatabase(t)
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(provider, nil)

	healthDB := mocks.NewHealthcareDatabase(t)
	healthDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.HealthcareProfile{WorkingHours: "9 AM - 5 PM"}, nil)

	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("Find", mock.Anything, mock.Anything).Return([]models.Appointment{}, nil)
	apptDB.On("InsertOne", mock.Anything, mock.MatchedBy(func(doc interface{}) bool {
		appt, ok := doc.(models.Appointment)
		return ok && appt.Duration == models.DefaultAppointmentDuration
	})).Return(nil, nil)

	notifDB := mocks.NewNotificationDatabase(t)
	notifDB.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	a := Appointment{
		DB:       apptDB,
		UserDB:   userDB,
		HealthDB: healthDB,
		Notifier: &Notifier{DB: notifDB},
	}

	// a non-numeric duration is not an error, it falls back to the default
	req := authedRequest("POST", "/api/v1/appointments",
		createBody(provider.ID, tomorrowAt(10, 0), "nope"), patientCaller())
	rr := httptest.NewRecorder()

	a.CreateAppointmentHandler(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestCreateAppointmentHandler_OutsideWorkingHours(t *testing.T) {
	provider := providerCaller()

	userDB := mocks.NewUserDatabase(t)
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(provider, nil)

	healthDB := mocks.NewHealthcareDatabase(t)
	healthDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.HealthcareProfile{WorkingHours: "9 AM - 5 PM"}, nil)

	a := Appointment{UserDB: userDB, HealthDB: healthDB}

	// 4:45 PM + 30min spills past 5 PM
	req := authedRequest("POST", "/api/v1/appointments",
		createBody(provider.ID, tomorrowAt(16, 45), 30), patientCaller())
	rr := httptest.NewRecorder()

	a.CreateAppointmentHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "outside the provider's working hours")
}

func TestCreateAppointmentHandler_BeyondHorizon(t *testing.T) {
	provider := providerCaller()

	userDB := mocks.NewUserDatabase(t)
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(provider, nil)

	healthDB := mocks.NewHealthcareDatabase(t)
	healthDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.HealthcareProfile{WorkingHours: "24/7"}, nil)

	a := Appointment{UserDB: userDB, HealthDB: healthDB}

	farOut := time.Now().UTC().Add(9 * 24 * time.Hour)
	req := authedRequest("POST", "/api/v1/appointments",
		createBody(provider.ID, farOut, 30), patientCaller())
	rr := httptest.NewRecorder()

	a.CreateAppointmentHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "within the next 7 days")
}

func TestCreateAppointmentHandler_OverlapRejected(t *testing.T) {
	provider := providerCaller()

	userDB := mocks.NewUserDatabase(t)
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(provider, nil)

	healthDB := mocks.NewHealthcareDatabase(t)
	healthDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.HealthcareProfile{WorkingHours: "9 AM - 5 PM"}, nil)

	existing := models.Appointment{
		ID:           primitive.NewObjectID(),
		HealthcareID: provider.ID,
		Start:        primitive.NewDateTimeFromTime(tomorrowAt(10, 0)),
		Duration:     30,
		Status:       models.AppointmentActive,
	}
	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("Find", mock.Anything, mock.Anything).Return([]models.Appointment{existing}, nil)

	a := Appointment{DB: apptDB, UserDB: userDB, HealthDB: healthDB}

	// 10:15 lands inside the existing 10:00-10:30 slot
	req := authedRequest("POST", "/api/v1/appointments",
		createBody(provider.ID, tomorrowAt(10, 15), 30), patientCaller())
	rr := httptest.NewRecorder()

	a.CreateAppointmentHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "already booked")
}

func TestCreateAppointmentHandler_LegacyDurationConflicts(t *testing.T) {
	provider := providerCaller()

	userDB := mocks.NewUserDatabase(t)
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(provider, nil)

	healthDB := mocks.NewHealthcareDatabase(t)
	healthDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.HealthcareProfile{WorkingHours: "9 AM - 5 PM"}, nil)

	// documents from before durations were recorded carry a zero; they still
	// block their default 30-minute window
	existing := models.Appointment{
		ID:           primitive.NewObjectID(),
		HealthcareID: provider.ID,
		Start:        primitive.NewDateTimeFromTime(tomorrowAt(10, 0)),
		Duration:     0,
		Status:       models.AppointmentActive,
	}
	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("Find", mock.Anything, mock.Anything).Return([]models.Appointment{existing}, nil)

	a := Appointment{DB: apptDB, UserDB: userDB, HealthDB: healthDB}

	req := authedRequest("POST", "/api/v1/appointments",
		createBody(provider.ID, tomorrowAt(10, 15), 30), patientCaller())
	rr := httptest.NewRecorder()

	a.CreateAppointmentHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "already booked")
}

func TestCreateAppointmentHandler_StaleReadDoubleBooks(t *testing.T) {
	provider := providerCaller()

	userDB := mocks.NewUserDatabase(t)
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(provider, nil)

	healthDB := mocks.NewHealthcareDatabase(t)
	healthDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.HealthcareProfile{WorkingHours: "9 AM - 5 PM"}, nil)

	// two requests for the identical slot whose overlap checks both read the
	// collection before either insert lands: the check is read-then-insert
	// with no transaction, so both bookings go through and the provider has
	// to resolve the collision at approval time
	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("Find", mock.Anything, mock.Anything).Return([]models.Appointment{}, nil)
	apptDB.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	notifDB := mocks.NewNotificationDatabase(t)
	notifDB.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	a := Appointment{
		DB:       apptDB,
		UserDB:   userDB,
		HealthDB: healthDB,
		Notifier: &Notifier{DB: notifDB},
	}

	for i := 0; i < 2; i++ {
		req := authedRequest("POST", "/api/v1/appointments",
			createBody(provider.ID, tomorrowAt(10, 0), 30), patientCaller())
		rr := httptest.NewRecorder()

		a.CreateAppointmentHandler(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	}
	apptDB.AssertNumberOfCalls(t, "InsertOne", 2)
}

func TestCreateAppointmentHandler_BackToBackAccepted(t *testing.T) {
	provider := providerCaller()

	userDB := mocks.NewUserDatabase(t)
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(provider, nil)

	healthDB := mocks.NewHealthcareDatabase(t)
	healthDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.HealthcareProfile{WorkingHours: "9 AM - 5 PM"}, nil)

	existing := models.Appointment{
		ID:           primitive.NewObjectID(),
		HealthcareID: provider.ID,
		Start:        primitive.NewDateTimeFromTime(tomorrowAt(10, 0)),
		Duration:     30,
		Status:       models.AppointmentActive,
	}
	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("Find", mock.Anything, mock.Anything).Return([]models.Appointment{existing}, nil)
	apptDB.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	notifDB := mocks.NewNotificationDatabase(t)
	notifDB.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	a := Appointment{
		DB:       apptDB,
		UserDB:   userDB,
		HealthDB: healthDB,
		Notifier: &Notifier{DB: notifDB},
	}

	// 10:30 starts exactly where the existing slot ends
	req := authedRequest("POST", "/api/v1/appointments",
		createBody(provider.ID, tomorrowAt(10, 30), 30), patientCaller())
	rr := httptest.NewRecorder()

	a.CreateAppointmentHandler(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var created models.Appointment
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, models.AppointmentPending, created.Status)
}

func TestUpdateAppointmentStatusHandler_NotOwner(t *testing.T) {
	caller := providerCaller()
	appointmentID := primitive.NewObjectID()

	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.Appointment{
		ID:           appointmentID,
		HealthcareID: "someone-else",
		Status:       models.AppointmentPending,
	}, nil)

	a := Appointment{DB: apptDB}

	req := authedRequest("PUT", "/api/v1/appointments/"+appointmentID.Hex()+"/status",
		map[string]string{"status": models.AppointmentActive}, caller)
	req = mux.SetURLVars(req, map[string]string{"appointment_id": appointmentID.Hex()})
	rr := httptest.NewRecorder()

	a.UpdateAppointmentStatusHandler(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestUpdateAppointmentStatusHandler_AlreadyResolved(t *testing.T) {
	caller := providerCaller()
	appointmentID := primitive.NewObjectID()

	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.Appointment{
		ID:           appointmentID,
		HealthcareID: caller.ID,
		Status:       models.AppointmentRejected,
	}, nil)
	apptDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{ModifiedCount: 0}, nil)

	a := Appointment{DB: apptDB}

	req := authedRequest("PUT", "/api/v1/appointments/"+appointmentID.Hex()+"/status",
		map[string]string{"status": models.AppointmentActive}, caller)
	req = mux.SetURLVars(req, map[string]string{"appointment_id": appointmentID.Hex()})
	rr := httptest.NewRecorder()

	a.UpdateAppointmentStatusHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "no longer pending")
}

func TestUpdateAppointmentStatusHandler_AcceptCreatesChat(t *testing.T) {
	caller := providerCaller()
	appointmentID := primitive.NewObjectID()
	patientID := primitive.NewObjectID().Hex()

	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.Appointment{
		ID:           appointmentID,
		PatientID:    patientID,
		HealthcareID: caller.ID,
		Status:       models.AppointmentPending,
	}, nil)
	apptDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	chatDB := mocks.NewChatDatabase(t)
	chatDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	chatDB.On("InsertOne", mock.Anything, mock.MatchedBy(func(doc interface{}) bool {
		chat, ok := doc.(*models.Chat)
		return ok && chat.PatientID == patientID && chat.HealthcareID == caller.ID &&
			len(chat.AppointmentIDs) == 1 && chat.AppointmentIDs[0] == appointmentID.Hex()
	})).Return(nil, nil)

	notifDB := mocks.NewNotificationDatabase(t)
	notifDB.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	a := Appointment{
		DB:       apptDB,
		ChatDB:   chatDB,
		Notifier: &Notifier{DB: notifDB},
	}

	req := authedRequest("PUT", "/api/v1/appointments/"+appointmentID.Hex()+"/status",
		map[string]string{"status": models.AppointmentActive}, caller)
	req = mux.SetURLVars(req, map[string]string{"appointment_id": appointmentID.Hex()})
	rr := httptest.NewRecorder()

	a.UpdateAppointmentStatusHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var updated models.Appointment
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, models.AppointmentActive, updated.Status)
}

func TestUpdateAppointmentStatusHandler_RejectEmailsPatient(t *testing.T) {
	caller := providerCaller()
	appointmentID := primitive.NewObjectID()
	patientID := primitive.NewObjectID().Hex()

	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.Appointment{
		ID:           appointmentID,
		PatientID:    patientID,
		HealthcareID: caller.ID,
		Start:        primitive.NewDateTimeFromTime(tomorrowAt(10, 0)),
		Duration:     45,
		Status:       models.AppointmentPending,
	}, nil)
	apptDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	userDB := mocks.NewUserDatabase(t)
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.User{
		ID:      patientID,
		Details: models.UserDetails{Name: "Alice Martin", Email: "alice@example.com"},
	}, nil)

	notifDB := mocks.NewNotificationDatabase(t)
	notifDB.On("InsertOne", mock.Anything, mock.MatchedBy(func(doc interface{}) bool {
		n, ok := doc.(models.Notification)
		return ok && n.UserID == patientID && n.Type == models.NotificationAppointmentRejected
	})).Return(nil, nil)

	mailer := &captureMailer{}
	a := Appointment{
		DB:       apptDB,
		UserDB:   userDB,
		Notifier: &Notifier{DB: notifDB},
		Mail:     mailer,
	}

	req := authedRequest("PUT", "/api/v1/appointments/"+appointmentID.Hex()+"/status",
		map[string]string{"status": models.AppointmentRejected}, caller)
	req = mux.SetURLVars(req, map[string]string{"appointment_id": appointmentID.Hex()})
	rr := httptest.NewRecorder()

	a.UpdateAppointmentStatusHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, "alice@example.com", mailer.lastTo)
}

func TestAvailabilityHandler(t *testing.T) {
	providerID := primitive.NewObjectID().Hex()

	healthDB := mocks.NewHealthcareDatabase(t)
	healthDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.HealthcareProfile{WorkingHours: "24/7"}, nil)

	booked := models.Appointment{
		ID:           primitive.NewObjectID(),
		HealthcareID: providerID,
		Start:        primitive.NewDateTimeFromTime(tomorrowAt(14, 0)),
		Duration:     60,
		Status:       models.AppointmentPending,
	}
	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Appointment{booked}, nil)

	a := Appointment{DB: apptDB, HealthDB: healthDB}

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/healthcare/%s/availability", providerID), nil)
	req = mux.SetURLVars(req, map[string]string{"healthcare_id": providerID})
	rr := httptest.NewRecorder()

	a.AvailabilityHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.AvailabilityResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Slots, 1)
	assert.Equal(t, 60, resp.Slots[0].Duration)
	assert.Equal(t, 0, resp.WorkingHours.StartHour)
	assert.Equal(t, 24, resp.WorkingHours.EndHour)
}

func TestReviewAppointmentHandler_RatingBounds(t *testing.T) {
	a := Appointment{}
	appointmentID := primitive.NewObjectID()

	for _, rating := range []int{0, 6} {
		req := authedRequest("PUT", "/api/v1/appointments/"+appointmentID.Hex()+"/review",
			map[string]interface{}{"rating": rating}, patientCaller())
		req = mux.SetURLVars(req, map[string]string{"appointment_id": appointmentID.Hex()})
		rr := httptest.NewRecorder()

		a.ReviewAppointmentHandler(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "rating %d", rating)
	}
}

func TestReviewAppointmentHandler_SecondReviewRejected(t *testing.T) {
	caller := patientCaller()
	appointmentID := primitive.NewObjectID()
	rating := 5

	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.Appointment{
		ID:        appointmentID,
		PatientID: caller.ID,
		Status:    models.AppointmentCompleted,
		Rating:    &rating,
	}, nil)
	apptDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0, ModifiedCount: 0}, nil)

	a := Appointment{DB: apptDB}

	req := authedRequest("PUT", "/api/v1/appointments/"+appointmentID.Hex()+"/review",
		map[string]interface{}{"rating": 4, "comment": "changed my mind"}, caller)
	req = mux.SetURLVars(req, map[string]string{"appointment_id": appointmentID.Hex()})
	rr := httptest.NewRecorder()

	a.ReviewAppointmentHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "already reviewed")
}

func TestReviewAppointmentHandler_Success(t *testing.T) {
	caller := patientCaller()
	appointmentID := primitive.NewObjectID()

	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.Appointment{
		ID:        appointmentID,
		PatientID: caller.ID,
		Status:    models.AppointmentCompleted,
	}, nil)
	apptDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	a := Appointment{DB: apptDB}

	req := authedRequest("PUT", "/api/v1/appointments/"+appointmentID.Hex()+"/review",
		map[string]interface{}{"rating": 5, "comment": "great visit"}, caller)
	req = mux.SetURLVars(req, map[string]string{"appointment_id": appointmentID.Hex()})
	rr := httptest.NewRecorder()

	a.ReviewAppointmentHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
