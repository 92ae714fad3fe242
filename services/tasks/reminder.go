package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cleanly/models"
	"cleanly/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeAppointmentReminder = "appointment:reminder"
	QueueDefault            = "default"

	// ReminderHour is the UTC hour reminders fire on the day before a cleaning.
	ReminderHour = 9
)

// ReminderPayload is the body of an appointment reminder task.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	Date          string `json:"date"`
}

// ReminderTime is 09:00 UTC on the day before the appointment date.
func ReminderTime(date string) (time.Time, error) {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid appointment date %q: %w", date, err)
	}
	return day.AddDate(0, 0, -1).Add(ReminderHour * time.Hour), nil
}

// ReminderTaskID is the asynq task id for an appointment's reminder.
func ReminderTaskID(appointmentID string) string {
	return "reminder:" + appointmentID
}

func NewReminderTask(payload ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(ReminderTaskID(payload.AppointmentID)),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// ReminderScheduler enqueues and cancels appointment reminders.
type ReminderScheduler interface {
	// Schedule returns the task id, or "" when the reminder time has passed.
	Schedule(ctx context.Context, appt models.Appointment) (string, error)
	Cancel(ctx context.Context, taskID string) error
}

// AsynqReminderScheduler schedules reminders on the Redis-backed asynq queue.
type AsynqReminderScheduler struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
	Now       func() time.Time
}

func NewAsynqReminderScheduler(opt asynq.RedisClientOpt) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		Client:    asynq.NewClient(opt),
		Inspector: asynq.NewInspector(opt),
		Now:       time.Now,
	}
}

func (s *AsynqReminderScheduler) Schedule(ctx context.Context, appt models.Appointment) (string, error) {
	fireAt, err := ReminderTime(appt.Date)
	if err != nil {
		return "", err
	}
	if !fireAt.After(s.Now()) {
		return "", nil
	}

	task, opts, err := NewReminderTask(ReminderPayload{AppointmentID: appt.ID, Date: appt.Date}, fireAt)
	if err != nil {
		return "", fmt.Errorf("failed to build reminder task: %w", err)
	}
	info, err := s.Client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return ReminderTaskID(appt.ID), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	utils.GetLogger().Debug("Reminder scheduled",
		zap.String("appointmentID", appt.ID), zap.Time("fireAt", fireAt))
	return info.ID, nil
}

func (s *AsynqReminderScheduler) Cancel(_ context.Context, taskID string) error {
	if taskID == "" {
		return nil
	}
	err := s.Inspector.DeleteTask(QueueDefault, taskID)
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
		return fmt.Errorf("failed to delete reminder %s: %w", taskID, err)
	}
	return nil
}

// Close releases the client and inspector connections.
func (s *AsynqReminderScheduler) Close() error {
	if err := s.Inspector.Close(); err != nil {
		return err
	}
	return s.Client.Close()
}
