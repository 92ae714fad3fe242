// Package taskstest records reminder scheduling without Redis.
package taskstest

import (
	"context"
	"sync"

	"cleanly/models"
	"cleanly/services/tasks"
)

// Scheduler keeps scheduled reminders in memory.
type Scheduler struct {
	mu        sync.Mutex
	Scheduled map[string]string
	Cancelled []string
}

func New() *Scheduler {
	return &Scheduler{Scheduled: map[string]string{}}
}

func (s *Scheduler) Schedule(_ context.Context, appt models.Appointment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := tasks.ReminderTaskID(appt.ID)
	s.Scheduled[id] = appt.Date
	return id, nil
}

func (s *Scheduler) Cancel(_ context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Scheduled, taskID)
	s.Cancelled = append(s.Cancelled, taskID)
	return nil
}

var _ tasks.ReminderScheduler = (*Scheduler)(nil)
