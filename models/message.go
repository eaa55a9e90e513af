package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coarse attachment type tags stored on messages.
const (
	FileTypeImage = "image"
	FileTypeVideo = "video"
	FileTypePDF   = "pdf"
	FileTypeFile  = "file"
)

// FileTypeFromMIME maps a MIME type to the coarse tag stored on the message.
func FileTypeFromMIME(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return FileTypeImage
	case strings.HasPrefix(mime, "video/"):
		return FileTypeVideo
	case mime == "application/pdf":
		return FileTypePDF
	default:
		return FileTypeFile
	}
}

// Message holds the structure for the messages collection in mongo. Messages
// are append-only; the only mutation is the read flag, flipped in bulk when
// the other participant fetches the chat history.
type Message struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	ChatID    string             `json:"chatID" bson:"chatID"`
	SenderID  string             `json:"senderID" bson:"senderID"`
	Content   string             `json:"content" bson:"content"`
	FileURL   string             `json:"fileUrl,omitempty" bson:"fileUrl,omitempty"`
	FileType  string             `json:"fileType,omitempty" bson:"fileType,omitempty"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
