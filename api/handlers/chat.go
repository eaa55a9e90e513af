package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carebridge/carebridge-api/api"
	"github.com/carebridge/carebridge-api/config"
	"github.com/carebridge/carebridge-api/databases"
	"github.com/carebridge/carebridge-api/models"
)

// Chat represents the chat REST handler
type Chat struct {
	DB            databases.ChatDatabase
	MessageDB     databases.MessageDatabase
	AppointmentDB databases.AppointmentDatabase
	Notifier      *Notifier
}

// ensureChat finds or creates the single chat for a patient/provider pair and
// records appointmentID on it. $addToSet keeps AppointmentIDs duplicate-free
// when the same pair books again.
func ensureChat(ctx context.Context, db databases.ChatDatabase, patientID, healthcareID, appointmentID string) (*models.Chat, error) {
	filter := bson.M{"patientID": patientID, "healthcareID": healthcareID}

	chat, err := db.FindOne(ctx, filter)
	if err == nil {
		_, err = db.UpdateOne(ctx, filter, bson.M{
			"$addToSet": bson.M{"appointmentIDs": appointmentID},
			"$set":      bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())},
		})
		if err != nil {
			return nil, err
		}
		chat.AppointmentIDs = appendUnique(chat.AppointmentIDs, appointmentID)
		return chat, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	created := &models.Chat{
		ID:             primitive.NewObjectID(),
		PatientID:      patientID,
		HealthcareID:   healthcareID,
		AppointmentIDs: []string{appointmentID},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := db.InsertOne(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

type createChatRequest struct {
	AppointmentID string `json:"appointmentID"`
}

// CreateChatHandler opens (or returns) the chat backing an active
// appointment. Idempotent per patient/provider pair.
func (c Chat) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.UserFromContext(r.Context())
	if caller == nil {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errUnauthorized)
		return
	}

	var req createChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	appointmentID, err := primitive.ObjectIDFromHex(req.AppointmentID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	appointment, err := c.AppointmentDB.FindOne(ctx, bson.M{"_id": appointmentID})
	if err != nil {
		config.ErrorStatus("appointment not found", http.StatusNotFound, w, err)
		return
	}
	if appointment.PatientID != caller.ID && appointment.HealthcareID != caller.ID {
		config.ErrorStatus("caller is not part of this appointment", http.StatusForbidden, w, errNotParticipant)
		return
	}
	if appointment.Status != models.AppointmentActive {
		config.ErrorStatus("chat requires an active appointment", http.StatusBadRequest, w, errInvalidSlot)
		return
	}

	chat, err := ensureChat(ctx, c.DB, appointment.PatientID, appointment.HealthcareID, req.AppointmentID)
	if err != nil {
		config.ErrorStatus("failed to create chat", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(chat)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// ChatsHandler lists the caller's chats with their last message and unread
// count
func (c Chat) ChatsHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.UserFromContext(r.Context())
	if caller == nil {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errUnauthorized)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	chats, err := c.DB.Find(ctx, bson.M{"$or": []bson.M{
		{"patientID": caller.ID},
		{"healthcareID": caller.ID},
	}})
	if err != nil {
		config.ErrorStatus("failed to get chats", http.StatusNotFound, w, err)
		return
	}

	previews := make([]models.ChatPreview, 0, len(chats))
	for _, chat := range chats {
		preview := models.ChatPreview{Chat: chat}

		lastOpts := options.FindOne().SetSort(bson.M{"createdAt": -1})
		if last, err := c.MessageDB.FindOne(ctx, bson.M{"chatID": chat.ID.Hex()}, lastOpts); err == nil {
			preview.LastMessage = last
		}

		unread, err := c.MessageDB.CountDocuments(ctx, bson.M{
			"chatID":   chat.ID.Hex(),
			"senderID": chat.Peer(caller.ID),
			"read":     false,
		})
		if err == nil {
			preview.UnreadCount = unread
		}

		previews = append(previews, preview)
	}

	b, err := json.Marshal(previews)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ChatMessagesHandler returns a chat's history oldest-first and marks every
// message from the other participant as read. Fetching history is the only
// read receipt in the system.
func (c Chat) ChatMessagesHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.UserFromContext(r.Context())
	if caller == nil {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errUnauthorized)
		return
	}

	chatID := mux.Vars(r)["chat_id"]
	cID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	chat, err := c.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("chat not found", http.StatusNotFound, w, err)
		return
	}
	if !chat.Participant(caller.ID) {
		config.ErrorStatus("caller is not a participant of this chat", http.StatusForbidden, w, errNotParticipant)
		return
	}

	res, err := c.MessageDB.UpdateMany(ctx,
		bson.M{"chatID": chatID, "senderID": bson.M{"$ne": caller.ID}, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		config.ErrorStatus("failed to mark messages as read", http.StatusInternalServerError, w, err)
		return
	}
	if res.ModifiedCount > 0 {
		EmitMessagesRead(chatID, caller.ID)
	}

	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	messages, err := c.MessageDB.Find(ctx, bson.M{"chatID": chatID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get messages", http.StatusNotFound, w, err)
		return
	}
	if len(messages) == 0 {
		messages = []models.Message{}
	}

	b, err := json.Marshal(messages)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type sendMessageRequest struct {
	Content  string `json:"content"`
	FileURL  string `json:"fileUrl"`
	FileType string `json:"fileType"` // MIME type of the attachment, if any
}

// SendMessageHandler persists a message and fans it out: room broadcast for
// open chat screens, plus a durable notification and direct push for the
// other participant.
func (c Chat) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	caller := api.UserFromContext(r.Context())
	if caller == nil {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errUnauthorized)
		return
	}

	chatID := mux.Vars(r)["chat_id"]
	cID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Content == "" && req.FileURL == "" {
		config.ErrorStatus("message must have content or an attachment", http.StatusBadRequest, w, errInvalidSlot)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	chat, err := c.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("chat not found", http.StatusNotFound, w, err)
		return
	}
	if !chat.Participant(caller.ID) {
		config.ErrorStatus("caller is not a participant of this chat", http.StatusForbidden, w, errNotParticipant)
		return
	}

	message := models.Message{
		ID:        primitive.NewObjectID(),
		ChatID:    chatID,
		SenderID:  caller.ID,
		Content:   req.Content,
		FileURL:   req.FileURL,
		Read:      false,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if req.FileURL != "" {
		message.FileType = models.FileTypeFromMIME(req.FileType)
	}
	if _, err := c.MessageDB.InsertOne(ctx, message); err != nil {
		config.ErrorStatus("failed to send message", http.StatusInternalServerError, w, err)
		return
	}

	EmitReceiveMessage(chatID, message)
	c.Notifier.Notify(ctx, chat.Peer(caller.ID), models.NotificationNewMessage,
		"New message from "+caller.Details.Name, chatID)

	b, err := json.Marshal(message)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}
