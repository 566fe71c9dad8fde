package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types.
const (
	MessageTypeDefault     = "DEFAULT"
	MessageTypePostShare   = "POST_SHARE"
	MessageTypeGroupInvite = "GROUP_INVITE"
)

// Message is a chat message stored in MongoDB. Immutable once created; a
// multi-recipient share persists one message per recipient.
type Message struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SenderID     uint               `json:"senderId" bson:"sender_id"`
	ReceiverID   uint               `json:"receiverId" bson:"receiver_id"`
	Content      string             `json:"content" bson:"content"`
	ImageURL     string             `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	SharedPostID *uint              `json:"sharedPostId,omitempty" bson:"shared_post_id,omitempty"`
	Type         string             `json:"type" bson:"type"`
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at"`
}

// SendMessageRequest is the inbound payload of a realtime "message" event.
// Exactly one of ReceiverID or ReceiverIDs must be set.
type SendMessageRequest struct {
	SenderID     uint   `json:"senderId"`
	ReceiverID   uint   `json:"receiverId,omitempty"`
	ReceiverIDs  []uint `json:"receiverIds,omitempty"`
	Content      string `json:"content"`
	ImageURL     string `json:"imageUrl,omitempty"`
	SharedPostID *uint  `json:"sharedPostId,omitempty"`
	Type         string `json:"type,omitempty"`
}
