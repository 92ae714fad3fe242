package notification

import (
	"context"
	"errors"
	"testing"

	"cleanly/database/repository/memrepo"
	"cleanly/models"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, m)
	return "msg-id", nil
}

func TestPush(t *testing.T) {
	ctx := context.Background()
	users := memrepo.NewUsers()
	require.NoError(t, users.Create(ctx, &models.User{ID: "u1", Username: "u1", Email: "u1@x.io", Type: models.UserTypeCleaner, FCMToken: "tok"}))
	require.NoError(t, users.Create(ctx, &models.User{ID: "u2", Username: "u2", Email: "u2@x.io", Type: models.UserTypeHomeowner}))

	sender := &fakeSender{}
	svc := &DefaultNotificationService{Users: users, Sender: sender}

	require.NoError(t, svc.Push(ctx, "u1", "Hi", "there", map[string]string{"type": "test"}))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "tok", sender.sent[0].Token)
	assert.Equal(t, "cleaner", sender.sent[0].Data["role"])
	assert.Equal(t, "Hi", sender.sent[0].Notification.Title)

	// No token: skipped without error.
	require.NoError(t, svc.Push(ctx, "u2", "Hi", "there", nil))
	assert.Len(t, sender.sent, 1)

	assert.Error(t, svc.Push(ctx, "missing", "Hi", "there", nil))

	sender.err = errors.New("fcm down")
	assert.Error(t, svc.Push(ctx, "u1", "Hi", "there", nil))
}

func TestPushManyContinuesOnFailure(t *testing.T) {
	ctx := context.Background()
	users := memrepo.NewUsers()
	require.NoError(t, users.Create(ctx, &models.User{ID: "a", Username: "a", Email: "a@x.io", FCMToken: "ta"}))
	require.NoError(t, users.Create(ctx, &models.User{ID: "b", Username: "b", Email: "b@x.io", FCMToken: "tb"}))

	sender := &fakeSender{}
	svc := &DefaultNotificationService{Users: users, Sender: sender}
	svc.PushMany(ctx, []string{"a", "ghost", "b"}, "T", "B", map[string]string{"k": "v"})

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "ta", sender.sent[0].Token)
	assert.Equal(t, "tb", sender.sent[1].Token)
	assert.Equal(t, "v", sender.sent[1].Data["k"])
}

func TestPushWithoutSenderIsNoop(t *testing.T) {
	ctx := context.Background()
	users := memrepo.NewUsers()
	require.NoError(t, users.Create(ctx, &models.User{ID: "a", Username: "a", Email: "a@x.io", FCMToken: "ta"}))
	svc := &DefaultNotificationService{Users: users}
	assert.NoError(t, svc.Push(ctx, "a", "T", "B", nil))
}
