package notification

import (
	"context"
	"fmt"

	"cleanly/utils"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// NewFCMClient initializes the Firebase app and its messaging client.
func NewFCMClient(ctx context.Context, credentialsFile string) (*messaging.Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting messaging client: %w", err)
	}
	return client, nil
}

func buildMessage(token, title, body string, data map[string]string) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
}

func (s *DefaultNotificationService) Push(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("push: could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		utils.GetLogger().Debug("push skipped, no device token", zap.String("userID", userID))
		return nil
	}
	if s.Sender == nil {
		utils.GetLogger().Info("push (fcm disabled)", zap.String("userID", userID), zap.String("title", title))
		return nil
	}

	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = u.Type
	}

	if _, err := s.Sender.Send(ctx, buildMessage(u.FCMToken, title, body, data)); err != nil {
		return fmt.Errorf("push: failed to send FCM message to %s: %w", userID, err)
	}
	return nil
}

func (s *DefaultNotificationService) PushMany(ctx context.Context, userIDs []string, title, body string, data map[string]string) {
	for _, id := range userIDs {
		// Each push gets its own map since Push may add a role.
		payload := make(map[string]string, len(data)+1)
		for k, v := range data {
			payload[k] = v
		}
		if err := s.Push(ctx, id, title, body, payload); err != nil {
			utils.GetLogger().Warn("push failed", zap.String("userID", id), zap.Error(err))
		}
	}
}
