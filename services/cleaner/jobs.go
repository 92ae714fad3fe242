package cleaner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultCleanerService) loadCleaner(ctx context.Context, cleanerID string) (*models.User, error) {
	u, err := s.Users.GetByID(ctx, cleanerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFoundError("cleaner not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load cleaner: %w", err)
	}
	if u.Type != models.UserTypeCleaner {
		return nil, utils.NewForbiddenError("only cleaners can do this")
	}
	return u, nil
}

func (s *DefaultCleanerService) loadAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFoundError("appointment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	return appt, nil
}

// withHomes joins appointments with their homes. Appointments whose home is
// gone are returned without one.
func (s *DefaultCleanerService) withHomes(ctx context.Context, appts []models.Appointment) ([]models.AppointmentWithHome, error) {
	out := make([]models.AppointmentWithHome, 0, len(appts))
	if len(appts) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(appts))
	for _, a := range appts {
		ids = append(ids, a.HomeID)
	}
	homes, err := s.Homes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load homes: %w", err)
	}
	byID := make(map[string]models.Home, len(homes))
	for _, h := range homes {
		byID[h.ID] = h
	}
	for _, a := range appts {
		row := models.AppointmentWithHome{Appointment: a}
		if h, ok := byID[a.HomeID]; ok {
			row.Home = &h
		}
		out = append(out, row)
	}
	return out, nil
}

// Available lists future appointments with open slots, inside the service
// area, that the cleaner neither works nor has asked for.
func (s *DefaultCleanerService) Available(ctx context.Context, cleanerID string) ([]models.AppointmentWithHome, error) {
	today := s.today()
	open, err := s.Appointments.GetOpen(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("load open appointments: %w", err)
	}
	requested, err := s.Requests.GetByCleaner(ctx, cleanerID, models.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}
	asked := make(map[string]bool, len(requested))
	for _, r := range requested {
		asked[r.AppointmentID] = true
	}

	var candidates []models.Appointment
	for _, a := range open {
		if a.Date <= today || a.OpenSlots() == 0 || a.IsAssigned(cleanerID) || asked[a.ID] {
			continue
		}
		candidates = append(candidates, a)
	}
	rows, err := s.withHomes(ctx, candidates)
	if err != nil {
		return nil, err
	}

	out := make([]models.AppointmentWithHome, 0, len(rows))
	for _, r := range rows {
		if r.Home == nil || r.Home.OutsideServiceArea {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// RequestJob asks the homeowner for a spot on an appointment. Cleaners the
// home prefers are assigned straight away.
func (s *DefaultCleanerService) RequestJob(ctx context.Context, cleanerID, appointmentID string) (*RequestResult, error) {
	logger := utils.GetLogger()

	cleaner, err := s.loadCleaner(ctx, cleanerID)
	if err != nil {
		return nil, err
	}
	if cleaner.AccountFrozen {
		return nil, utils.NewForbiddenError("your account is frozen and cannot request jobs")
	}

	appt, err := s.loadAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Completed || appt.Date <= s.today() {
		return nil, utils.NewValidationError("this appointment is no longer open")
	}
	if appt.IsAssigned(cleanerID) {
		return nil, utils.NewConflictError("you are already assigned to this appointment")
	}
	if appt.OpenSlots() == 0 {
		return nil, utils.NewConflictError("this appointment is fully staffed")
	}
	if _, err := s.Requests.FindActive(ctx, appt.ID, cleanerID); err == nil {
		return nil, utils.NewConflictError("you have already requested this appointment")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing request: %w", err)
	}

	home, err := s.Homes.GetByID(ctx, appt.HomeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFoundError("home not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load home: %w", err)
	}
	if home.OutsideServiceArea {
		return nil, utils.NewValidationError("this home is outside the service area")
	}

	req := models.PendingRequest{
		ID:              uuid.New().String(),
		AppointmentID:   appt.ID,
		AppointmentDate: appt.Date,
		HomeID:          appt.HomeID,
		HomeownerID:     appt.UserID,
		CleanerID:       cleanerID,
		Status:          models.RequestPending,
	}
	if err := s.Requests.Create(ctx, &req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if home.IsPreferred(cleanerID) {
		updated, err := s.approve(ctx, &req)
		if err != nil {
			if _, derr := s.Requests.UpdateStatus(ctx, req.ID, models.RequestDenied); derr != nil {
				logger.Warn("failed to deny unapproved request", zap.String("requestID", req.ID), zap.Error(derr))
			}
			return nil, err
		}
		logger.Info("Preferred cleaner auto-approved",
			zap.String("appointmentID", appt.ID), zap.String("cleanerID", cleanerID))
		s.notify(ctx, appt.UserID, "Cleaner booked",
			fmt.Sprintf("%s will clean your home on %s.", cleaner.FullName(), appt.Date),
			map[string]string{"type": "request_approved", "appointmentId": appt.ID})
		return &RequestResult{Request: req, AutoApproved: true, Appointment: updated}, nil
	}

	logger.Info("Job requested",
		zap.String("appointmentID", appt.ID), zap.String("cleanerID", cleanerID), zap.String("requestID", req.ID))
	s.notify(ctx, appt.UserID, "New cleaner request",
		fmt.Sprintf("%s would like to clean your home on %s.", cleaner.FullName(), appt.Date),
		map[string]string{"type": "pending_request", "requestId": req.ID, "appointmentId": appt.ID})
	return &RequestResult{Request: req}, nil
}

func (s *DefaultCleanerService) CancelRequest(ctx context.Context, cleanerID, requestID string) error {
	req, err := s.Requests.GetByID(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && req.CleanerID != cleanerID) {
		return utils.NewNotFoundError("request not found")
	}
	if err != nil {
		return fmt.Errorf("load request: %w", err)
	}
	ok, err := s.Requests.UpdateStatus(ctx, req.ID, models.RequestCancelled)
	if err != nil {
		return fmt.Errorf("cancel request: %w", err)
	}
	if !ok {
		return utils.NewValidationError("only pending requests can be cancelled")
	}
	return nil
}

// Leave takes the cleaner off an appointment. Only allowed before the day of
// the job.
func (s *DefaultCleanerService) Leave(ctx context.Context, cleanerID, appointmentID string) (*models.Appointment, error) {
	appt, err := s.loadAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appt.IsAssigned(cleanerID) {
		return nil, utils.NewForbiddenError("you are not assigned to this appointment")
	}
	if appt.Completed || appt.Date <= s.today() {
		return nil, utils.NewValidationError("you can only leave an appointment before its date")
	}

	if err := s.Appointments.UnassignCleaner(ctx, appt.ID, cleanerID); err != nil {
		return nil, fmt.Errorf("unassign cleaner: %w", err)
	}
	updated, err := s.loadAppointment(ctx, appt.ID)
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Cleaner left appointment",
		zap.String("appointmentID", appt.ID), zap.String("cleanerID", cleanerID))
	s.notify(ctx, appt.UserID, "Cleaner unavailable",
		fmt.Sprintf("A cleaner can no longer make your appointment on %s. It is open for requests again.", appt.Date),
		map[string]string{"type": "cleaner_left", "appointmentId": appt.ID})
	return updated, nil
}

// Complete marks a job done. Payouts are priced on the tiers the cleaners
// held before this job counted.
func (s *DefaultCleanerService) Complete(ctx context.Context, cleanerID, appointmentID string) (*CompleteResult, error) {
	logger := utils.GetLogger()

	appt, err := s.loadAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appt.IsAssigned(cleanerID) {
		return nil, utils.NewForbiddenError("you are not assigned to this appointment")
	}
	if appt.Completed {
		return nil, utils.NewValidationError("this appointment is already completed")
	}
	if appt.Date > s.today() {
		return nil, utils.NewValidationError("an appointment cannot be completed before its date")
	}

	marked, err := s.Appointments.MarkCompleted(ctx, appt.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("complete appointment: %w", err)
	}
	if !marked {
		return nil, utils.NewValidationError("this appointment is already completed")
	}
	// Payouts go to the cleaners on the stored document, not the earlier read.
	appt, err = s.loadAppointment(ctx, appt.ID)
	if err != nil {
		return nil, err
	}

	payouts, err := s.Payouts.CreateForAppointment(ctx, *appt)
	if err != nil {
		return nil, fmt.Errorf("create payouts: %w", err)
	}
	for _, id := range appt.EmployeesAssigned {
		if err := s.Users.IncrementCompletedJobs(ctx, id); err != nil {
			logger.Warn("failed to count completed job", zap.String("cleanerID", id), zap.Error(err))
		}
	}

	logger.Info("Appointment completed",
		zap.String("appointmentID", appt.ID), zap.Int("payouts", len(payouts)))
	s.notify(ctx, appt.UserID, "Cleaning complete",
		fmt.Sprintf("Your cleaning on %s is done. Let us know how it went!", appt.Date),
		map[string]string{"type": "appointment_completed", "appointmentId": appt.ID})
	return &CompleteResult{Appointment: appt, Payouts: payouts}, nil
}

func (s *DefaultCleanerService) PayoutSummary(ctx context.Context, cleanerID string) (*models.PayoutSummary, error) {
	return s.Payouts.Summary(ctx, cleanerID)
}

// SetStripeAccount stores the cleaner's Stripe Connect account id.
func (s *DefaultCleanerService) SetStripeAccount(ctx context.Context, cleanerID, accountID string) (*models.User, error) {
	accountID = strings.TrimSpace(accountID)
	if !strings.HasPrefix(accountID, "acct_") || len(accountID) == len("acct_") {
		return nil, utils.NewValidationError("stripeAccountId must be a Stripe account id (acct_...)")
	}
	u, err := s.loadCleaner(ctx, cleanerID)
	if err != nil {
		return nil, err
	}
	if err := s.Users.SetStripeAccount(ctx, u.ID, accountID); err != nil {
		return nil, fmt.Errorf("save stripe account: %w", err)
	}
	u.StripeAccountID = accountID
	return u, nil
}
