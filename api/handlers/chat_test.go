package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carebridge/carebridge-api/databases/mocks"
	"github.com/carebridge/carebridge-api/models"
)

func TestCreateChatHandler_RequiresActiveAppointment(t *testing.T) {
	caller := patientCaller()
	appointmentID := primitive.NewObjectID()

	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.Appointment{
		ID:        appointmentID,
		PatientID: caller.ID,
		Status:    models.AppointmentPending,
	}, nil)

	c := Chat{AppointmentDB: apptDB}

	req := authedRequest("POST", "/api/v1/chats",
		map[string]string{"appointmentID": appointmentID.Hex()}, caller)
	rr := httptest.NewRecorder()

	c.CreateChatHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "active appointment")
}

func TestCreateChatHandler_IdempotentPerPair(t *testing.T) {
	caller := patientCaller()
	providerID := primitive.NewObjectID().Hex()
	appointmentID := primitive.NewObjectID()
	existingChat := &models.Chat{
		ID:             primitive.NewObjectID(),
		PatientID:      caller.ID,
		HealthcareID:   providerID,
		AppointmentIDs: []string{primitive.NewObjectID().Hex()},
	}

	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.Appointment{
		ID:           appointmentID,
		PatientID:    caller.ID,
		HealthcareID: providerID,
		Status:       models.AppointmentActive,
	}, nil)

	// the existing chat is reused; the new appointment id is added to it
	chatDB := mocks.NewChatDatabase(t)
	chatDB.On("FindOne", mock.Anything, mock.Anything).Return(existingChat, nil)
	chatDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	c := Chat{DB: chatDB, AppointmentDB: apptDB}

	req := authedRequest("POST", "/api/v1/chats",
		map[string]string{"appointmentID": appointmentID.Hex()}, caller)
	rr := httptest.NewRecorder()

	c.CreateChatHandler(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	chatDB.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestSendMessageHandler_NonParticipantForbidden(t *testing.T) {
	caller := patientCaller()
	chatID := primitive.NewObjectID()

	chatDB := mocks.NewChatDatabase(t)
	chatDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.Chat{
		ID:           chatID,
		PatientID:    "someone",
		HealthcareID: "someone-else",
	}, nil)

	c := Chat{DB: chatDB}

	req := authedRequest("POST", "/api/v1/chats/"+chatID.Hex()+"/messages",
		map[string]string{"content": "hello"}, caller)
	req = mux.SetURLVars(req, map[string]string{"chat_id": chatID.Hex()})
	rr := httptest.NewRecorder()

	c.SendMessageHandler(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestSendMessageHandler_EmptyMessageRejected(t *testing.T) {
	caller := patientCaller()
	chatID := primitive.NewObjectID()

	c := Chat{}

	req := authedRequest("POST", "/api/v1/chats/"+chatID.Hex()+"/messages",
		map[string]string{}, caller)
	req = mux.SetURLVars(req, map[string]string{"chat_id": chatID.Hex()})
	rr := httptest.NewRecorder()

	c.SendMessageHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSendMessageHandler_PersistsAndNotifiesPeer(t *testing.T) {
	caller := patientCaller()
	providerID := primitive.NewObjectID().Hex()
	chatID := primitive.NewObjectID()

	chatDB := mocks.NewChatDatabase(t)
	chatDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.Chat{
		ID:           chatID,
		PatientID:    caller.ID,
		HealthcareID: providerID,
	}, nil)

	msgDB := mocks.NewMessageDatabase(t)
	msgDB.On("InsertOne", mock.Anything, mock.MatchedBy(func(doc interface{}) bool {
		msg, ok := doc.(models.Message)
		return ok && msg.SenderID == caller.ID && msg.ChatID == chatID.Hex() && !msg.Read
	})).Return(nil, nil)

	notifDB := mocks.NewNotificationDatabase(t)
	notifDB.On("InsertOne", mock.Anything, mock.MatchedBy(func(doc interface{}) bool {
		n, ok := doc.(models.Notification)
		return ok && n.UserID == providerID && n.Type == models.NotificationNewMessage
	})).Return(nil, nil)

	c := Chat{
		DB:        chatDB,
		MessageDB: msgDB,
		Notifier:  &Notifier{DB: notifDB},
	}

	req := authedRequest("POST", "/api/v1/chats/"+chatID.Hex()+"/messages",
		map[string]string{"content": "hello doctor"}, caller)
	req = mux.SetURLVars(req, map[string]string{"chat_id": chatID.Hex()})
	rr := httptest.NewRecorder()

	c.SendMessageHandler(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestSendMessageHandler_AttachmentTypeFromMIME(t *testing.T) {
	caller := patientCaller()
	providerID := primitive.NewObjectID().Hex()
	chatID := primitive.NewObjectID()

	chatDB := mocks.NewChatDatabase(t)
	chatDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.Chat{
		ID:           chatID,
		PatientID:    caller.ID,
		HealthcareID: providerID,
	}, nil)

	msgDB := mocks.NewMessageDatabase(t)
	msgDB.On("InsertOne", mock.Anything, mock.MatchedBy(func(doc interface{}) bool {
		msg, ok := doc.(models.Message)
		return ok && msg.FileType == models.FileTypePDF
	})).Return(nil, nil)

	notifDB := mocks.NewNotificationDatabase(t)
	notifDB.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	c := Chat{
		DB:        chatDB,
		MessageDB: msgDB,
		Notifier:  &Notifier{DB: notifDB},
	}

	req := authedRequest("POST", "/api/v1/chats/"+chatID.Hex()+"/messages",
		map[string]string{
			"fileUrl":  "https://res.cloudinary.com/carebridge/results.pdf",
			"fileType": "application/pdf",
		}, caller)
	req = mux.SetURLVars(req, map[string]string{"chat_id": chatID.Hex()})
	rr := httptest.NewRecorder()

	c.SendMessageHandler(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestChatMessagesHandler_MarksPeerMessagesRead(t *testing.T) {
	caller := patientCaller()
	providerID := primitive.NewObjectID().Hex()
	chatID := primitive.NewObjectID()

	chatDB := mocks.NewChatDatabase(t)
	chatDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.Chat{
		ID:           chatID,
		PatientID:    caller.ID,
		HealthcareID: providerID,
	}, nil)

	history := []models.Message{
		{ID: primitive.NewObjectID(), ChatID: chatID.Hex(), SenderID: providerID, Content: "your results are in", Read: true},
		{ID: primitive.NewObjectID(), ChatID: chatID.Hex(), SenderID: caller.ID, Content: "thank you"},
	}
	msgDB := mocks.NewMessageDatabase(t)
	msgDB.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	msgDB.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(history, nil)

	c := Chat{DB: chatDB, MessageDB: msgDB}

	req := authedRequest("GET", "/api/v1/chats/"+chatID.Hex()+"/messages", nil, caller)
	req = mux.SetURLVars(req, map[string]string{"chat_id": chatID.Hex()})
	rr := httptest.NewRecorder()

	c.ChatMessagesHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	msgDB.AssertCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestChatsHandler_PreviewsWithUnreadCounts(t *testing.T) {
	caller := patientCaller()
	providerID := primitive.NewObjectID().Hex()
	chat := models.Chat{
		ID:           primitive.NewObjectID(),
		PatientID:    caller.ID,
		HealthcareID: providerID,
	}

	chatDB := mocks.NewChatDatabase(t)
	chatDB.On("Find", mock.Anything, mock.Anything).Return([]models.Chat{chat}, nil)

	last := &models.Message{
		ID:       primitive.NewObjectID(),
		ChatID:   chat.ID.Hex(),
		SenderID: providerID,
		Content:  "see you tomorrow",
	}
	msgDB := mocks.NewMessageDatabase(t)
	msgDB.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(last, nil)
	msgDB.On("CountDocuments", mock.Anything, mock.MatchedBy(func(filter interface{}) bool {
		return true
	})).Return(int64(3), nil)

	c := Chat{DB: chatDB, MessageDB: msgDB}

	req := authedRequest("GET", "/api/v1/chats", nil, caller)
	rr := httptest.NewRecorder()

	c.ChatsHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "see you tomorrow")
	assert.Contains(t, rr.Body.String(), `"unreadCount":3`)
}
