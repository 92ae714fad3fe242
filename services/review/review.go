package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxCommentLength = 1000

type ReviewService interface {
	Create(ctx context.Context, reviewerID string, req models.ReviewRequest) (*models.Review, error)
	ListByCleaner(ctx context.Context, cleanerID string) ([]models.Review, error)
}

type DefaultReviewService struct {
	Reviews      repository.ReviewRepository
	Appointments repository.AppointmentRepository
	Users        repository.UserRepository
}

// Create records a homeowner's review of a cleaner who worked one of their
// completed appointments. Each cleaner can be reviewed once per appointment.
func (s *DefaultReviewService) Create(ctx context.Context, reviewerID string, req models.ReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, utils.NewValidationError("rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(req.Comment)
	if utf8.RuneCountInString(comment) > maxCommentLength {
		return nil, utils.NewValidationError("comment must be at most %d characters", maxCommentLength)
	}

	appt, err := s.Appointments.GetByID(ctx, req.AppointmentID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && appt.UserID != reviewerID) {
		return nil, utils.NewNotFoundError("appointment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	if !appt.Completed {
		return nil, utils.NewValidationError("only completed appointments can be reviewed")
	}
	if !appt.IsAssigned(req.CleanerID) {
		return nil, utils.NewValidationError("this cleaner did not work the appointment")
	}

	exists, err := s.Reviews.Exists(ctx, appt.ID, req.CleanerID)
	if err != nil {
		return nil, fmt.Errorf("check review: %w", err)
	}
	if exists {
		return nil, utils.NewConflictError("you already reviewed this cleaner for this appointment")
	}

	cleaner, err := s.Users.GetByID(ctx, req.CleanerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFoundError("cleaner not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load cleaner: %w", err)
	}

	rev := &models.Review{
		ID:            uuid.New().String(),
		AppointmentID: appt.ID,
		ReviewerID:    reviewerID,
		CleanerID:     req.CleanerID,
		Rating:        req.Rating,
		Comment:       comment,
	}
	if err := s.Reviews.Create(ctx, rev); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	cleaner, err = s.Users.AddRating(ctx, cleaner.ID, req.Rating)
	if err != nil {
		return nil, fmt.Errorf("update cleaner rating: %w", err)
	}

	utils.GetLogger().Info("Review created",
		zap.String("cleanerID", cleaner.ID), zap.Int("rating", req.Rating), zap.Float64("average", cleaner.Rating))
	return rev, nil
}

func (s *DefaultReviewService) ListByCleaner(ctx context.Context, cleanerID string) ([]models.Review, error) {
	list, err := s.Reviews.GetByCleaner(ctx, cleanerID)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	return list, nil
}
