package notification

import (
	"context"

	"cleanly/database/repository"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService sends push notifications to users.
type NotificationService interface {
	// Push notifies one user. Users without a device token are skipped.
	Push(ctx context.Context, userID, title, body string, data map[string]string) error
	// PushMany notifies several users; individual failures are logged.
	PushMany(ctx context.Context, userIDs []string, title, body string, data map[string]string)
}

// Sender is the part of the FCM client used here.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// DefaultNotificationService is the production implementation backed by FCM.
type DefaultNotificationService struct {
	Users  repository.UserRepository
	Sender Sender
}
