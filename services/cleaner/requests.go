package cleaner

import (
	"context"
	"errors"
	"fmt"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/utils"

	"go.uber.org/zap"
)

// approve assigns the requesting cleaner. Once the appointment is full the
// remaining pending requests for it are denied.
func (s *DefaultCleanerService) approve(ctx context.Context, req *models.PendingRequest) (*models.Appointment, error) {
	logger := utils.GetLogger()

	assigned, err := s.Appointments.AssignCleaner(ctx, req.AppointmentID, req.CleanerID)
	if err != nil {
		return nil, fmt.Errorf("assign cleaner: %w", err)
	}
	if !assigned {
		return nil, utils.NewConflictError("this appointment is already fully staffed")
	}
	approved, err := s.Requests.UpdateStatus(ctx, req.ID, models.RequestApproved)
	if err != nil {
		return nil, fmt.Errorf("approve request: %w", err)
	}
	if !approved {
		// The request was cancelled, denied or expired after it was read.
		if err := s.Appointments.UnassignCleaner(ctx, req.AppointmentID, req.CleanerID); err != nil {
			return nil, fmt.Errorf("undo assignment: %w", err)
		}
		return nil, utils.NewConflictError("this request is no longer pending")
	}
	req.Status = models.RequestApproved

	appt, err := s.loadAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt.OpenSlots() == 0 {
		denied, err := s.Requests.SetStatusForAppointment(ctx, appt.ID, req.ID, models.RequestDenied)
		if err != nil {
			logger.Warn("failed to deny remaining requests", zap.String("appointmentID", appt.ID), zap.Error(err))
		} else if denied > 0 {
			logger.Debug("Denied remaining requests", zap.String("appointmentID", appt.ID), zap.Int64("count", denied))
		}
	}

	s.notify(ctx, req.CleanerID, "Request approved",
		fmt.Sprintf("You are booked for the cleaning on %s.", appt.Date),
		map[string]string{"type": "request_approved", "appointmentId": appt.ID})
	return appt, nil
}

func (s *DefaultCleanerService) ownedRequest(ctx context.Context, homeownerID, requestID string) (*models.PendingRequest, error) {
	req, err := s.Requests.GetByID(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && req.HomeownerID != homeownerID) {
		return nil, utils.NewNotFoundError("request not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load request: %w", err)
	}
	if req.Status != models.RequestPending {
		return nil, utils.NewValidationError("this request is no longer pending")
	}
	return req, nil
}

func (s *DefaultCleanerService) ListPending(ctx context.Context, homeownerID string) ([]models.PendingRequestView, error) {
	reqs, err := s.Requests.GetPendingForHomeowner(ctx, homeownerID)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}
	out := make([]models.PendingRequestView, 0, len(reqs))
	if len(reqs) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.CleanerID)
	}
	cleaners, err := s.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cleaners: %w", err)
	}
	profiles := make(map[string]models.CleanerProfile, len(cleaners))
	for _, c := range cleaners {
		profiles[c.ID] = c.ToCleanerProfile()
	}

	for _, r := range reqs {
		profile, ok := profiles[r.CleanerID]
		if !ok {
			continue
		}
		out = append(out, models.PendingRequestView{PendingRequest: r, Cleaner: profile})
	}
	return out, nil
}

func (s *DefaultCleanerService) Approve(ctx context.Context, homeownerID, requestID string) (*models.Appointment, error) {
	req, err := s.ownedRequest(ctx, homeownerID, requestID)
	if err != nil {
		return nil, err
	}
	appt, err := s.loadAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Completed {
		return nil, utils.NewValidationError("this appointment is already completed")
	}
	cleaner, err := s.Users.GetByID(ctx, req.CleanerID)
	if err == nil && cleaner.AccountFrozen {
		return nil, utils.NewValidationError("this cleaner is not available")
	}

	updated, err := s.approve(ctx, req)
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Request approved",
		zap.String("requestID", req.ID), zap.String("appointmentID", req.AppointmentID))
	return updated, nil
}

func (s *DefaultCleanerService) Deny(ctx context.Context, homeownerID, requestID string) error {
	req, err := s.ownedRequest(ctx, homeownerID, requestID)
	if err != nil {
		return err
	}
	denied, err := s.Requests.UpdateStatus(ctx, req.ID, models.RequestDenied)
	if err != nil {
		return fmt.Errorf("deny request: %w", err)
	}
	if !denied {
		return utils.NewValidationError("this request is no longer pending")
	}
	s.notify(ctx, req.CleanerID, "Request declined",
		fmt.Sprintf("The homeowner chose another cleaner for %s.", req.AppointmentDate),
		map[string]string{"type": "request_denied", "appointmentId": req.AppointmentID})
	return nil
}

func (s *DefaultCleanerService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.Requests.ExpireBefore(ctx, s.today())
	if err != nil {
		return 0, fmt.Errorf("expire requests: %w", err)
	}
	if n > 0 {
		utils.GetLogger().Info("Expired stale requests", zap.Int64("count", n))
	}
	return n, nil
}
