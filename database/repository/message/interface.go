package messageRepo

import (
	"context"
	"time"

	"cleanly/models"
)

// ConversationRepository stores message threads.
type ConversationRepository interface {
	Create(ctx context.Context, conv *models.Conversation) error
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	// GetByParticipant lists the user's conversations, newest activity first.
	GetByParticipant(ctx context.Context, userID string) ([]models.Conversation, error)
	// FindDirect returns the direct conversation between exactly a and b.
	FindDirect(ctx context.Context, a, b string) (*models.Conversation, error)
	// FindSupport returns the support conversation created by userID.
	FindSupport(ctx context.Context, userID string) (*models.Conversation, error)
	Touch(ctx context.Context, id string, at time.Time, preview string) error
	// AddParticipants adds users that are not yet on the conversation.
	AddParticipants(ctx context.Context, id string, userIDs []string) error
}

// MessageRepository stores conversation entries.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
	MarkRead(ctx context.Context, conversationID, userID string) error
	CountUnread(ctx context.Context, conversationID, userID string) (int64, error)
	CountUnreadIn(ctx context.Context, conversationIDs []string, userID string) (int64, error)
}
