package home

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/services/storage"
	"cleanly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultHomeService) Dashboard(ctx context.Context, userID string) (*models.HomeownerDashboard, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	homes, err := s.Homes.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load homes: %w", err)
	}
	appts, err := s.Appointments.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	bill, err := s.Bills.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		bill = &models.Bill{UserID: userID}
	} else if err != nil {
		return nil, fmt.Errorf("load bill: %w", err)
	}
	return &models.HomeownerDashboard{User: *u, Homes: homes, Appointments: appts, Bill: bill}, nil
}

func (s *DefaultHomeService) ownedHome(ctx context.Context, userID, homeID string) (*models.Home, error) {
	h, err := s.Homes.GetByID(ctx, homeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFoundError("home not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load home: %w", err)
	}
	if h.UserID != userID {
		return nil, utils.NewNotFoundError("home not found")
	}
	return h, nil
}

// locate geocodes the home and flags it against the service area. Geocoding
// failures leave the coordinates empty.
func (s *DefaultHomeService) locate(ctx context.Context, h *models.Home) {
	addr := h.AddressOf()
	h.Latitude, h.Longitude = 0, 0
	if s.Geocoder != nil {
		coords, err := s.Geocoder.Geocode(ctx, addr)
		if err != nil {
			utils.GetLogger().Warn("geocoding failed", zap.String("homeID", h.ID), zap.Error(err))
		} else {
			h.Latitude, h.Longitude = coords.Latitude, coords.Longitude
		}
	}

	h.OutsideServiceArea = false
	if s.Area != nil {
		res, err := s.Area.Check(ctx, addr)
		if err != nil {
			utils.GetLogger().Warn("service area check failed", zap.String("homeID", h.ID), zap.Error(err))
			return
		}
		h.OutsideServiceArea = !res.Eligible
	}
}

func (s *DefaultHomeService) Create(ctx context.Context, userID string, req models.HomeRequest) (*models.Home, error) {
	trimRequest(&req)
	h := &models.Home{
		ID:                uuid.New().String(),
		UserID:            userID,
		NickName:          req.NickName,
		Address:           req.Address,
		City:              req.City,
		State:             req.State,
		Zipcode:           req.Zipcode,
		NumBeds:           req.NumBeds,
		NumBaths:          req.NumBaths,
		SheetsProvided:    req.SheetsProvided,
		TowelsProvided:    req.TowelsProvided,
		KeyPadCode:        req.KeyPadCode,
		KeyLocation:       req.KeyLocation,
		TrashLocation:     req.TrashLocation,
		RecyclingLocation: req.RecyclingLocation,
		CompostLocation:   req.CompostLocation,
		Contact:           req.Contact,
		SpecialNotes:      req.SpecialNotes,
		TimeToBeCompleted: req.TimeToBeCompleted,
		CleanersNeeded:    req.CleanersNeeded,
	}
	if err := validateHome(h); err != nil {
		return nil, err
	}

	s.locate(ctx, h)
	if err := s.Homes.Create(ctx, h); err != nil {
		return nil, fmt.Errorf("create home: %w", err)
	}
	utils.GetLogger().Info("Home created",
		zap.String("homeID", h.ID), zap.String("userID", userID), zap.Bool("outsideServiceArea", h.OutsideServiceArea))
	return h, nil
}

func (s *DefaultHomeService) Update(ctx context.Context, userID, homeID string, req models.HomeUpdateRequest) (*models.Home, error) {
	h, err := s.ownedHome(ctx, userID, homeID)
	if err != nil {
		return nil, err
	}
	addressChanged := applyUpdate(h, req)
	if err := validateHome(h); err != nil {
		return nil, err
	}
	if addressChanged {
		s.locate(ctx, h)
	}
	if err := s.Homes.Update(ctx, h); err != nil {
		return nil, fmt.Errorf("update home: %w", err)
	}
	return h, nil
}

// Delete removes the home with its unpaid upcoming appointments. Homes with
// paid upcoming cleanings are kept.
func (s *DefaultHomeService) Delete(ctx context.Context, userID, homeID string) (*DeleteResult, error) {
	logger := utils.GetLogger()

	h, err := s.ownedHome(ctx, userID, homeID)
	if err != nil {
		return nil, err
	}
	appts, err := s.Appointments.GetByHomeID(ctx, h.ID)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	today := models.DateOf(s.now())
	var upcoming []models.Appointment
	for _, a := range appts {
		if a.Completed || a.Date < today {
			continue
		}
		if a.Paid {
			return nil, utils.NewValidationError("this home has paid upcoming appointments")
		}
		upcoming = append(upcoming, a)
	}

	var refund int64
	for _, a := range upcoming {
		if err := s.Appointments.Delete(ctx, a.ID); err != nil {
			return nil, fmt.Errorf("delete appointment %s: %w", a.ID, err)
		}
		refund += a.Price
		if _, err := s.Requests.SetStatusForAppointment(ctx, a.ID, "", models.RequestCancelled); err != nil {
			logger.Warn("failed to cancel requests", zap.String("appointmentID", a.ID), zap.Error(err))
		}
		if s.Reminders != nil && a.ReminderTaskID != "" {
			if err := s.Reminders.Cancel(ctx, a.ReminderTaskID); err != nil {
				logger.Warn("failed to cancel reminder", zap.String("appointmentID", a.ID), zap.Error(err))
			}
		}
	}

	result := &DeleteResult{HomeID: h.ID, RemovedAppointments: len(upcoming)}
	if refund != 0 {
		bill, err := s.Bills.Adjust(ctx, userID, models.BillDelta{AppointmentDue: -refund})
		if err != nil {
			return nil, fmt.Errorf("adjust bill: %w", err)
		}
		result.Bill = bill
	}

	if err := s.Homes.Delete(ctx, h.ID); err != nil {
		return nil, fmt.Errorf("delete home: %w", err)
	}
	logger.Info("Home deleted", zap.String("homeID", h.ID), zap.Int("removedAppointments", len(upcoming)))
	return result, nil
}

func (s *DefaultHomeService) UploadPhoto(ctx context.Context, userID, homeID string, file io.Reader, filename string) (*models.Home, error) {
	h, err := s.ownedHome(ctx, userID, homeID)
	if err != nil {
		return nil, err
	}
	if s.Storage == nil {
		return nil, utils.NewValidationError("photo uploads are not available")
	}
	res, err := s.Storage.UploadFile(ctx, file, storage.HomeFolder(h.ID), filename)
	if errors.Is(err, storage.ErrNotConfigured) {
		return nil, utils.NewValidationError("photo uploads are not available")
	}
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	updated, err := s.Homes.AddPhoto(ctx, h.ID, res.PublicID)
	if err != nil {
		return nil, fmt.Errorf("save photo id: %w", err)
	}
	return updated, nil
}
