package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cleanly/database/repository"
	"cleanly/services/notification"
	"cleanly/services/tasks"
	"cleanly/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderHandler pushes the day-before reminder for an appointment.
type ReminderHandler struct {
	Appointments repository.AppointmentRepository
	Homes        repository.HomeRepository
	Notifier     notification.NotificationService
}

// ProcessTask implements asynq.Handler.
func (h *ReminderHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	logger := utils.GetLogger()

	var p tasks.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("Invalid reminder payload", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	appt, err := h.Appointments.GetByID(ctx, p.AppointmentID)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Debug("Reminder for removed appointment", zap.String("appointmentID", p.AppointmentID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load appointment %s: %w", p.AppointmentID, err)
	}
	if appt.Completed {
		return nil
	}

	where := "your home"
	if home, err := h.Homes.GetByID(ctx, appt.HomeID); err == nil && home.NickName != "" {
		where = home.NickName
	}
	data := map[string]string{"type": "appointment_reminder", "appointmentId": appt.ID, "date": appt.Date}

	if err := h.Notifier.Push(ctx, appt.UserID, "Cleaning tomorrow",
		fmt.Sprintf("Your cleaning at %s is scheduled for %s.", where, appt.Date), data); err != nil {
		logger.Warn("Failed to push homeowner reminder", zap.String("appointmentID", appt.ID), zap.Error(err))
	}
	if len(appt.EmployeesAssigned) > 0 {
		h.Notifier.PushMany(ctx, appt.EmployeesAssigned, "Job tomorrow",
			fmt.Sprintf("You are cleaning %s on %s.", where, appt.Date), data)
	}

	logger.Info("Reminder sent",
		zap.String("appointmentID", appt.ID),
		zap.Int("cleaners", len(appt.EmployeesAssigned)))
	return nil
}

// NewReminderServer builds the asynq server and mux for reminder tasks.
func NewReminderServer(opt asynq.RedisClientOpt, h *ReminderHandler) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			tasks.QueueDefault: 1,
		},
		Logger: utils.GetLogger().Sugar(),
	})

	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeAppointmentReminder, h)
	return srv, mux
}

// StartReminderWorker starts srv in the background, retrying a few times
// while Redis comes up.
func StartReminderWorker(srv *asynq.Server, mux *asynq.ServeMux) error {
	const maxAttempts = 5
	logger := utils.GetLogger()

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = srv.Start(mux); err == nil {
			logger.Info("Reminder worker started")
			return nil
		}
		logger.Warn("Failed to start reminder worker",
			zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
		time.Sleep(time.Duration(attempt*2) * time.Second)
	}
	return fmt.Errorf("reminder worker did not start: %w", err)
}
