package models

import "time"

// Conversation types.
const (
	ConversationDirect    = "direct"
	ConversationSupport   = "support"
	ConversationBroadcast = "broadcast"
)

// Broadcast audiences.
const (
	AudienceAll        = "all"
	AudienceCleaners   = "cleaners"
	AudienceHomeowners = "homeowners"
)

// Conversation is a message thread between participants.
type Conversation struct {
	ID                 string    `bson:"id" json:"id"`
	Type               string    `bson:"type" json:"type"`
	ParticipantIDs     []string  `bson:"participantIds" json:"participantIds"`
	AppointmentID      string    `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	Title              string    `bson:"title,omitempty" json:"title,omitempty"`
	CreatedBy          string    `bson:"createdBy" json:"createdBy"`
	LastMessageAt      time.Time `bson:"lastMessageAt" json:"lastMessageAt"`
	LastMessagePreview string    `bson:"lastMessagePreview,omitempty" json:"lastMessagePreview,omitempty"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
}

// HasParticipant reports whether userID belongs to the conversation.
func (c Conversation) HasParticipant(userID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Message is a single entry in a conversation.
type Message struct {
	ID             string    `bson:"id" json:"id"`
	ConversationID string    `bson:"conversationId" json:"conversationId"`
	SenderID       string    `bson:"senderId" json:"senderId"`
	Content        string    `bson:"content" json:"content"`
	ReadBy         []string  `bson:"readBy" json:"readBy"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// ConversationView is a conversation with the caller's unread count.
type ConversationView struct {
	Conversation
	UnreadCount int64 `json:"unreadCount"`
}

// BroadcastRequest is the payload of POST /messages/broadcast.
type BroadcastRequest struct {
	Audience string `json:"audience" binding:"required"`
	Title    string `json:"title"`
	Content  string `json:"content" binding:"required"`
}
