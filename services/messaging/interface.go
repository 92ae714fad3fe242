package messaging

import (
	"context"
	"time"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/services/notification"
)

type MessagingService interface {
	Conversations(ctx context.Context, userID string) ([]models.ConversationView, error)
	StartDirect(ctx context.Context, userID, participantID, appointmentID string) (*models.Conversation, error)
	Support(ctx context.Context, userID string) (*models.Conversation, error)

	Messages(ctx context.Context, userID, conversationID string) ([]models.Message, error)
	Send(ctx context.Context, userID, conversationID, content string) (*models.Message, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)

	Broadcast(ctx context.Context, ownerID string, req models.BroadcastRequest) (*models.Conversation, error)
}

// DefaultMessagingService is the production implementation.
type DefaultMessagingService struct {
	ConversationRepo repository.ConversationRepository
	MessageRepo      repository.MessageRepository
	Users            repository.UserRepository
	Appointments     repository.AppointmentRepository
	Notifier         notification.NotificationService
	Now              func() time.Time
}

func (s *DefaultMessagingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
