// Package notificationtest records pushes instead of sending them.
package notificationtest

import (
	"context"
	"sync"

	"cleanly/services/notification"
)

// Push is one recorded notification.
type Push struct {
	UserID string
	Title  string
	Body   string
	Data   map[string]string
}

// Recorder implements notification.NotificationService in memory.
type Recorder struct {
	mu     sync.Mutex
	Pushes []Push
}

func (r *Recorder) Push(_ context.Context, userID, title, body string, data map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Pushes = append(r.Pushes, Push{UserID: userID, Title: title, Body: body, Data: data})
	return nil
}

func (r *Recorder) PushMany(ctx context.Context, userIDs []string, title, body string, data map[string]string) {
	for _, id := range userIDs {
		_ = r.Push(ctx, id, title, body, data)
	}
}

// To returns the pushes sent to userID.
func (r *Recorder) To(userID string) []Push {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Push
	for _, p := range r.Pushes {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}

var _ notification.NotificationService = (*Recorder)(nil)
