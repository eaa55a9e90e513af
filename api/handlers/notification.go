package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/carebridge/carebridge-api/api"
	"github.com/carebridge/carebridge-api/api/sessions"
	"github.com/carebridge/carebridge-api/config"
	"github.com/carebridge/carebridge-api/databases"
	"github.com/carebridge/carebridge-api/models"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NotificationHub holds the live websocket connections behind the session
// registry. The registry maps users to connection ids; the hub maps
// connection ids to transports.
type NotificationHub struct {
	Registry *sessions.Registry

	mutex sync.Mutex
	conns map[string]*websocket.Conn
}

// NewNotificationHub creates a hub around the given session registry
func NewNotificationHub(registry *sessions.Registry) *NotificationHub {
	return &NotificationHub{
		Registry: registry,
		conns:    make(map[string]*websocket.Conn),
	}
}

// HandleWebSocket upgrades the connection and registers it under the userId
// query parameter. A re-register for the same user replaces the old mapping.
func (h *NotificationHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		conn.Close()
		return
	}

	connID := uuid.New().String()
	h.mutex.Lock()
	h.conns[connID] = conn
	h.mutex.Unlock()
	h.Registry.Register(userID, connID)
	zap.S().Debugw("user connected to /ws/notifications", "userID", userID, "connID", connID)

	// the transport's own disconnect signal is the only liveness check
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
	conn.Close()
	h.Registry.Remove(connID)
	h.mutex.Lock()
	delete(h.conns, connID)
	h.mutex.Unlock()
	zap.S().Debugw("user disconnected from /ws/notifications", "userID", userID, "connID", connID)
}

// Push delivers a payload to the user's registered connection, if any.
// Delivery is at-most-once; a user without a live session simply misses the
// push and reads the durable notification later.
func (h *NotificationHub) Push(userID string, payload interface{}) {
	connID, ok := h.Registry.Lookup(userID)
	if !ok {
		return
	}

	h.mutex.Lock()
	conn, ok := h.conns[connID]
	h.mutex.Unlock()
	if !ok {
		return
	}

	err := conn.WriteJSON(map[string]interface{}{
		"event": "new_notification",
		"data":  payload,
	})
	if err != nil {
		zap.S().Errorw("failed to push notification", "userID", userID, "error", err)
		h.Registry.Remove(connID)
		h.mutex.Lock()
		delete(h.conns, connID)
		h.mutex.Unlock()
		conn.Close()
	}
}

// Notifier persists notifications and pushes them to live sessions
type Notifier struct {
	DB  databases.NotificationDatabase
	Hub *NotificationHub
}

// Notify stores a notification for userID and pushes it over the user's live
// session when one is registered. Failures are logged and swallowed; the
// operation that triggered the notification never fails because of it.
func (n *Notifier) Notify(ctx context.Context, userID, notificationType, message, refID string) {
	if n == nil || n.DB == nil {
		return
	}

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Type:      notificationType,
		Message:   message,
		RefID:     refID,
		Read:      false,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	if _, err := n.DB.InsertOne(ctx, notification); err != nil {
		zap.S().Errorw("failed to persist notification",
			"userID", userID,
			"type", notificationType,
			"error", err,
		)
		return
	}

	if n.Hub != nil {
		n.Hub.Push(userID, notification)
	}
}

// Notification represents the notification REST handler
type Notification struct {
	DB databases.NotificationDatabase
}

// GetUserNotificationsHandler returns the caller's notifications, newest
// first
func (n Notification) GetUserNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	caller := api.UserFromContext(r.Context())
	if caller == nil || caller.ID != userID {
		config.ErrorStatus("cannot read another user's notifications", http.StatusForbidden, w, errNotOwner)
		return
	}

	limit := int64(50)
	if parsed, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && parsed > 0 {
		limit = parsed
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := databases.Paginate(int(limit), 0)
	opts.SetSort(bson.M{"createdAt": -1})
	dbResp, err := n.DB.Find(ctx, bson.M{"userID": userID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get notifications", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Notification{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MarkNotificationReadHandler flips a notification's read flag
func (n Notification) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	notificationID := mux.Vars(r)["notification_id"]

	caller := api.UserFromContext(r.Context())
	if caller == nil || caller.ID != userID {
		config.ErrorStatus("cannot update another user's notifications", http.StatusForbidden, w, errNotOwner)
		return
	}

	nID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := n.DB.UpdateOne(ctx,
		bson.M{"_id": nID, "userID": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		config.ErrorStatus("failed to update notification", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("notification not found", http.StatusNotFound, w, errNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Notification marked as read",
	})
}
