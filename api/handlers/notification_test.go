package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carebridge/carebridge-api/databases/mocks"
	"github.com/carebridge/carebridge-api/models"
)

func TestNotification_GetUserNotificationsHandlerForbidden(t *testing.T) {
	caller := patientCaller()

	n := Notification{DB: mocks.NewNotificationDatabase(t)}

	req := authedRequest(http.MethodGet, "/api/v1/user/someone-else/notifications", nil, caller)
	req = mux.SetURLVars(req, map[string]string{"user_id": "someone-else"})
	rr := httptest.NewRecorder()

	n.GetUserNotificationsHandler(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestNotification_GetUserNotificationsHandlerSorted(t *testing.T) {
	caller := patientCaller()

	notifDB := mocks.NewNotificationDatabase(t)
	notifDB.On("Find", mock.Anything, bson.M{"userID": caller.ID}, mock.Anything).
		Return([]models.Notification{{
			ID:      primitive.NewObjectID(),
			UserID:  caller.ID,
			Type:    models.NotificationAppointmentAccepted,
			Message: "Your appointment was accepted",
		}}, nil)

	n := Notification{DB: notifDB}

	req := authedRequest(http.MethodGet, "/api/v1/user/"+caller.ID+"/notifications", nil, caller)
	req = mux.SetURLVars(req, map[string]string{"user_id": caller.ID})
	rr := httptest.NewRecorder()

	n.GetUserNotificationsHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Your appointment was accepted")
}

func TestNotification_MarkNotificationReadHandlerNotFound(t *testing.T) {
	caller := patientCaller()
	notificationID := primitive.NewObjectID()

	notifDB := mocks.NewNotificationDatabase(t)
	notifDB.On("UpdateOne", mock.Anything, bson.M{"_id": notificationID, "userID": caller.ID}, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	n := Notification{DB: notifDB}

	req := authedRequest(http.MethodPut, "/api/v1/user/"+caller.ID+"/notifications/"+notificationID.Hex()+"/read", nil, caller)
	req = mux.SetURLVars(req, map[string]string{
		"user_id":         caller.ID,
		"notification_id": notificationID.Hex(),
	})
	rr := httptest.NewRecorder()

	n.MarkNotificationReadHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNotification_MarkNotificationReadHandlerSuccess(t *testing.T) {
	caller := patientCaller()
	notificationID := primitive.NewObjectID()

	notifDB := mocks.NewNotificationDatabase(t)
	notifDB.On("UpdateOne", mock.Anything, bson.M{"_id": notificationID, "userID": caller.ID}, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	n := Notification{DB: notifDB}

	req := authedRequest(http.MethodPut, "/api/v1/user/"+caller.ID+"/notifications/"+notificationID.Hex()+"/read", nil, caller)
	req = mux.SetURLVars(req, map[string]string{
		"user_id":         caller.ID,
		"notification_id": notificationID.Hex(),
	})
	rr := httptest.NewRecorder()

	n.MarkNotificationReadHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Notification marked as read")
}
