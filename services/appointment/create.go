package appointment

import (
	"context"
	"errors"
	"fmt"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/services/pricing"
	"cleanly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Create books a cleaning of one of the caller's homes and adds its price
// to their bill.
func (s *DefaultAppointmentService) Create(ctx context.Context, userID string, req models.CreateAppointmentRequest) (*models.Appointment, error) {
	logger := utils.GetLogger()

	if _, err := models.ParseDate(req.Date); err != nil {
		return nil, utils.NewValidationError("date must be formatted YYYY-MM-DD")
	}
	if req.Date <= models.DateOf(s.now()) {
		return nil, utils.NewValidationError("appointments must be booked for a future date")
	}

	home, err := s.ownedHome(ctx, userID, req.HomeID)
	if err != nil {
		return nil, err
	}
	if home.OutsideServiceArea {
		return nil, utils.NewValidationError("%s", s.outsideMessage(ctx, home))
	}

	window := req.TimeToBeCompleted
	if window == "" {
		window = home.TimeToBeCompleted
	}
	if window == "" {
		window = models.TimeAnytime
	}
	if !pricing.ValidTimeWindow(window) {
		return nil, utils.NewValidationError("unknown time window %q", window)
	}

	if _, err := s.Appointments.GetByHomeAndDate(ctx, home.ID, req.Date); err == nil {
		return nil, utils.NewConflictError("an appointment already exists for this home on that date")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing appointment: %w", err)
	}

	price, err := pricing.AppointmentPrice(*home, req.BringSheets, req.BringTowels, window)
	if err != nil {
		return nil, utils.NewValidationError("%s", err.Error())
	}

	needed := home.CleanersNeeded
	if needed < 1 {
		needed = 1
	}
	appt := &models.Appointment{
		ID:                uuid.New().String(),
		UserID:            userID,
		HomeID:            home.ID,
		Date:              req.Date,
		Price:             price,
		BringSheets:       req.BringSheets,
		BringTowels:       req.BringTowels,
		TimeToBeCompleted: window,
		EmployeesNeeded:   needed,
		EmployeesAssigned: []string{},
	}
	if err := s.Appointments.Create(ctx, appt); errors.Is(err, repository.ErrDuplicate) {
		return nil, utils.NewConflictError("an appointment already exists for this home on that date")
	} else if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	if _, err := s.Bills.Adjust(ctx, userID, models.BillDelta{AppointmentDue: price}); err != nil {
		return nil, fmt.Errorf("add appointment to bill: %w", err)
	}

	if s.Reminders != nil {
		taskID, err := s.Reminders.Schedule(ctx, *appt)
		if err != nil {
			logger.Warn("failed to schedule reminder", zap.String("appointmentID", appt.ID), zap.Error(err))
		} else if taskID != "" {
			appt.ReminderTaskID = taskID
			if err := s.Appointments.SetReminderTask(ctx, appt.ID, taskID); err != nil {
				logger.Warn("failed to store reminder id", zap.String("appointmentID", appt.ID), zap.Error(err))
			}
		}
	}

	utils.AppointmentsBooked.Inc()
	logger.Info("Appointment booked",
		zap.String("appointmentID", appt.ID), zap.String("homeID", home.ID),
		zap.String("date", appt.Date), zap.Int64("price", price))
	return appt, nil
}

func (s *DefaultAppointmentService) outsideMessage(ctx context.Context, home *models.Home) string {
	if s.Area != nil {
		if res, err := s.Area.Check(ctx, home.AddressOf()); err == nil && res.Message != "" {
			return res.Message
		}
	}
	return "this home is outside our service area"
}

func (s *DefaultAppointmentService) ownedHome(ctx context.Context, userID, homeID string) (*models.Home, error) {
	home, err := s.Homes.GetByID(ctx, homeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFoundError("home not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load home: %w", err)
	}
	if home.UserID != userID {
		return nil, utils.NewNotFoundError("home not found")
	}
	return home, nil
}

func (s *DefaultAppointmentService) ownedAppointment(ctx context.Context, userID, id string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFoundError("appointment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	if appt.UserID != userID {
		return nil, utils.NewNotFoundError("appointment not found")
	}
	return appt, nil
}

func (s *DefaultAppointmentService) ListByHome(ctx context.Context, userID, homeID string) ([]models.Appointment, error) {
	if _, err := s.ownedHome(ctx, userID, homeID); err != nil {
		return nil, err
	}
	list, err := s.Appointments.GetByHomeID(ctx, homeID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return list, nil
}
