package handlers

import (
	"context"
	"log"
	"time"

	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carebridge/carebridge-api/api"
	"github.com/carebridge/carebridge-api/api/sessions"
	"github.com/carebridge/carebridge-api/databases"
	"github.com/carebridge/carebridge-api/models"
)

var server *socketio.Server

// Realtime wires the chat databases and session registry into the Socket.IO
// event handlers.
type Realtime struct {
	ChatDB    databases.ChatDatabase
	MessageDB databases.MessageDatabase
	Registry  *sessions.Registry
	Notifier  *Notifier
}

// InitializeSocketIO initializes the Socket.IO server
func (rt Realtime) InitializeSocketIO() *socketio.Server {
	server = socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			polling.Default,
			websocket.Default,
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		log.Println("Socket.IO client connected:", s.ID())
		return nil
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.Println("Socket.IO error:", e)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		rt.Registry.Remove(s.ID())
		log.Println("Socket.IO client disconnected:", s.ID(), "reason:", reason)
	})

	// register binds the socket to a user for direct events; a second
	// register for the same user replaces the first
	server.OnEvent("/", "register", func(s socketio.Conn, msg map[string]interface{}) {
		userID, ok := msg["userId"].(string)
		if !ok || userID == "" {
			return
		}
		rt.Registry.Register(userID, s.ID())
		s.Join("user:" + userID)
		log.Println("Client registered as user:", userID)
	})

	server.OnEvent("/", "join_chat", func(s socketio.Conn, msg map[string]interface{}) {
		chatID, ok := msg["chatId"].(string)
		if ok && chatID != "" {
			s.Join("chat:" + chatID)
			log.Println("Client joined chat:", chatID)
		}
	})

	server.OnEvent("/", "leave_chat", func(s socketio.Conn, msg map[string]interface{}) {
		chatID, ok := msg["chatId"].(string)
		if ok && chatID != "" {
			s.Leave("chat:" + chatID)
			log.Println("Client left chat:", chatID)
		}
	})

	server.OnEvent("/", "send_message", func(s socketio.Conn, msg map[string]interface{}) {
		rt.handleSendMessage(msg)
	})

	server.OnEvent("/", "mark_messages_read", func(s socketio.Conn, msg map[string]interface{}) {
		rt.handleMarkMessagesRead(msg)
	})

	go func() {
		if err := server.Serve(); err != nil {
			log.Fatalf("Socket.IO server error: %v", err)
		}
	}()

	return server
}

// handleSendMessage persists a chat message sent over the socket and fans it
// out exactly like the REST send endpoint.
func (rt Realtime) handleSendMessage(msg map[string]interface{}) {
	chatID, _ := msg["chatId"].(string)
	senderID, _ := msg["senderId"].(string)
	content, _ := msg["content"].(string)
	fileURL, _ := msg["fileUrl"].(string)
	fileType, _ := msg["fileType"].(string)
	if chatID == "" || senderID == "" || (content == "" && fileURL == "") {
		return
	}

	cID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return
	}

	ctx, cancel := api.WithQueryTimeout(context.Background())
	defer cancel()

	chat, err := rt.ChatDB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		log.Println("send_message: chat not found:", chatID)
		return
	}
	if !chat.Participant(senderID) {
		log.Println("send_message: sender is not a participant:", senderID)
		return
	}

	message := models.Message{
		ID:        primitive.NewObjectID(),
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		Read:      false,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if fileURL != "" {
		message.FileURL = fileURL
		message.FileType = models.FileTypeFromMIME(fileType)
	}
	if _, err := rt.MessageDB.InsertOne(ctx, message); err != nil {
		log.Println("send_message: failed to persist message:", err)
		return
	}

	EmitReceiveMessage(chatID, message)
	rt.Notifier.Notify(ctx, chat.Peer(senderID), models.NotificationNewMessage,
		"You have a new message", chatID)
}

// handleMarkMessagesRead flips the read flag on every message the other
// participant sent in the chat.
func (rt Realtime) handleMarkMessagesRead(msg map[string]interface{}) {
	chatID, _ := msg["chatId"].(string)
	userID, _ := msg["userId"].(string)
	if chatID == "" || userID == "" {
		return
	}

	ctx, cancel := api.WithQueryTimeout(context.Background())
	defer cancel()

	res, err := rt.MessageDB.UpdateMany(ctx,
		bson.M{"chatID": chatID, "senderID": bson.M{"$ne": userID}, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		log.Println("mark_messages_read: failed to update messages:", err)
		return
	}
	if res.ModifiedCount > 0 {
		EmitMessagesRead(chatID, userID)
	}
}

// GetSocketIOServer returns the Socket.IO server instance
func GetSocketIOServer() *socketio.Server {
	return server
}

// EmitReceiveMessage broadcasts a new message to everyone in the chat room
func EmitReceiveMessage(chatID string, message models.Message) {
	if server != nil {
		server.BroadcastToRoom("/", "chat:"+chatID, "receive_message", message)
	}
}

// EmitMessagesRead tells the chat room that userID has read its messages
func EmitMessagesRead(chatID string, userID string) {
	if server != nil {
		data := map[string]interface{}{
			"chatId": chatID,
			"userId": userID,
		}
		server.BroadcastToRoom("/", "chat:"+chatID, "messages_read", data)
	}
}
