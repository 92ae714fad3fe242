package messaging

import (
	"context"
	"strings"
	"testing"
	"time"

	"cleanly/database/repository/memrepo"
	"cleanly/models"
	"cleanly/services/notification/notificationtest"
	"cleanly/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*DefaultMessagingService, *notificationtest.Recorder) {
	t.Helper()
	ctx := context.Background()
	users := memrepo.NewUsers()
	appts := memrepo.NewAppointments()
	for _, u := range []models.User{
		{ID: "boss", Username: "boss", Email: "boss@x.io", Type: models.UserTypeOwner, FirstName: "Bea"},
		{ID: "ho", Username: "homer", Email: "ho@x.io", Type: models.UserTypeHomeowner, FirstName: "Hal"},
		{ID: "ho2", Username: "homer2", Email: "ho2@x.io", Type: models.UserTypeHomeowner},
		{ID: "c1", Username: "cleaner1", Email: "c1@x.io", Type: models.UserTypeCleaner, FirstName: "Cara"},
		{ID: "c2", Username: "cleaner2", Email: "c2@x.io", Type: models.UserTypeCleaner},
	} {
		u := u
		require.NoError(t, users.Create(ctx, &u))
	}
	require.NoError(t, appts.Create(ctx, &models.Appointment{ID: "a1", UserID: "ho", HomeID: "h1", Date: "2026-05-10", EmployeesAssigned: []string{"c1"}}))

	rec := &notificationtest.Recorder{}
	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return &DefaultMessagingService{
		ConversationRepo: memrepo.NewConversations(),
		MessageRepo:      memrepo.NewMessages(),
		Users:            users,
		Appointments:     appts,
		Notifier:         rec,
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	}, rec
}

func TestStartDirectRules(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	c, err := svc.StartDirect(ctx, "ho", "c1", "")
	require.NoError(t, err)
	again, err := svc.StartDirect(ctx, "c1", "ho", "a1")
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID, "the pair shares one conversation")

	_, err = svc.StartDirect(ctx, "boss", "c2", "")
	assert.NoError(t, err, "owners can message anyone")

	tests := []struct {
		name, from, to, appt, code string
	}{
		{"cleaner not assigned", "ho", "c2", "", utils.CodeForbidden},
		{"other homeowner's cleaner", "ho2", "c1", "", utils.CodeForbidden},
		{"wrong appointment", "c1", "ho2", "a1", utils.CodeForbidden},
		{"cleaner to cleaner", "c1", "c2", "", utils.CodeForbidden},
		{"homeowner to owner", "ho", "boss", "", utils.CodeForbidden},
		{"self", "ho", "ho", "", utils.CodeValidation},
		{"unknown user", "ho", "ghost", "", utils.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.StartDirect(ctx, tt.from, tt.to, tt.appt)
			assert.True(t, utils.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestSendAndRead(t *testing.T) {
	ctx := context.Background()
	svc, rec := newService(t)
	c, err := svc.StartDirect(ctx, "ho", "c1", "")
	require.NoError(t, err)

	_, err = svc.Send(ctx, "ho", c.ID, "   ")
	assert.True(t, utils.IsCode(err, utils.CodeValidation))
	_, err = svc.Send(ctx, "ho", c.ID, strings.Repeat("x", 2001))
	assert.True(t, utils.IsCode(err, utils.CodeValidation))
	_, err = svc.Send(ctx, "c2", c.ID, "hi")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound), "outsiders cannot post")

	m, err := svc.Send(ctx, "ho", c.ID, "  Gate code is 1234 ")
	require.NoError(t, err)
	assert.Equal(t, "Gate code is 1234", m.Content)
	require.Len(t, rec.To("c1"), 1)
	assert.Equal(t, "Hal", rec.To("c1")[0].Title)

	n, err := svc.UnreadCount(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	views, err := svc.Conversations(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(1), views[0].UnreadCount)
	assert.Equal(t, "Gate code is 1234", views[0].LastMessagePreview)

	msgs, err := svc.Messages(ctx, "c1", c.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	n, err = svc.UnreadCount(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.Messages(ctx, "boss", c.ID)
	assert.NoError(t, err, "owners can read any conversation")
}

func TestSupport(t *testing.T) {
	ctx := context.Background()
	svc, rec := newService(t)

	c, err := svc.Support(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, models.ConversationSupport, c.Type)
	assert.ElementsMatch(t, []string{"c1", "boss"}, c.ParticipantIDs)

	again, err := svc.Support(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)

	_, err = svc.Send(ctx, "c1", c.ID, "My payout is late")
	require.NoError(t, err)
	assert.Len(t, rec.To("boss"), 1)
}

func TestBroadcast(t *testing.T) {
	ctx := context.Background()
	svc, rec := newService(t)

	_, err := svc.Broadcast(ctx, "boss", models.BroadcastRequest{Audience: "everyone", Content: "hi"})
	assert.True(t, utils.IsCode(err, utils.CodeValidation))
	_, err = svc.Broadcast(ctx, "ho", models.BroadcastRequest{Audience: models.AudienceAll, Content: "hi"})
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))

	c, err := svc.Broadcast(ctx, "boss", models.BroadcastRequest{Audience: models.AudienceCleaners, Content: "New tiers are live"})
	require.NoError(t, err)
	assert.Equal(t, "Announcement", c.Title)
	assert.ElementsMatch(t, []string{"boss", "c1", "c2"}, c.ParticipantIDs)
	assert.Len(t, rec.To("c1"), 1)
	assert.Empty(t, rec.To("ho"))

	_, err = svc.Send(ctx, "c1", c.ID, "thanks")
	assert.True(t, utils.IsCode(err, utils.CodeForbidden), "only owners post into broadcasts")
}

func TestSupportReachesOwnersAddedLater(t *testing.T) {
	ctx := context.Background()
	svc, rec := newService(t)

	c, err := svc.Support(ctx, "c1")
	require.NoError(t, err)
	require.NoError(t, svc.Users.Create(ctx, &models.User{
		ID: "boss2", Username: "boss2", Email: "boss2@x.io", Type: models.UserTypeOwner, FirstName: "Ben",
	}))

	_, err = svc.Send(ctx, "c1", c.ID, "Still waiting on my payout")
	require.NoError(t, err)
	assert.Len(t, rec.To("boss2"), 1)

	views, err := svc.Conversations(ctx, "boss2")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, c.ID, views[0].ID)

	again, err := svc.Support(ctx, "c1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "boss", "boss2"}, again.ParticipantIDs)
}
