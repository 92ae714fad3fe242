package messaging

import (
	"context"
	"errors"
	"fmt"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const supportTitle = "Support"

func (s *DefaultMessagingService) loadUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (s *DefaultMessagingService) Conversations(ctx context.Context, userID string) ([]models.ConversationView, error) {
	list, err := s.ConversationRepo.GetByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load conversations: %w", err)
	}
	out := make([]models.ConversationView, 0, len(list))
	for _, c := range list {
		unread, err := s.MessageRepo.CountUnread(ctx, c.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("count unread: %w", err)
		}
		out = append(out, models.ConversationView{Conversation: c, UnreadCount: unread})
	}
	return out, nil
}

// worksFor reports whether the cleaner is assigned to one of the homeowner's
// appointments, or to appointmentID when one is given.
func (s *DefaultMessagingService) worksFor(ctx context.Context, homeownerID, cleanerID, appointmentID string) (bool, error) {
	if appointmentID != "" {
		appt, err := s.Appointments.GetByID(ctx, appointmentID)
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return appt.UserID == homeownerID && appt.IsAssigned(cleanerID), nil
	}
	appts, err := s.Appointments.GetByUserID(ctx, homeownerID)
	if err != nil {
		return false, err
	}
	for _, a := range appts {
		if a.IsAssigned(cleanerID) {
			return true, nil
		}
	}
	return false, nil
}

// StartDirect opens, or returns the existing, conversation between the caller
// and participantID. Owners may message anyone. Homeowners and cleaners may
// only message each other when the cleaner works for the homeowner.
func (s *DefaultMessagingService) StartDirect(ctx context.Context, userID, participantID, appointmentID string) (*models.Conversation, error) {
	if participantID == "" || participantID == userID {
		return nil, utils.NewValidationError("choose someone else to message")
	}
	caller, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	other, err := s.loadUser(ctx, participantID)
	if err != nil {
		return nil, err
	}

	if caller.Type != models.UserTypeOwner {
		var homeownerID, cleanerID string
		switch {
		case caller.Type == models.UserTypeHomeowner && other.Type == models.UserTypeCleaner:
			homeownerID, cleanerID = caller.ID, other.ID
		case caller.Type == models.UserTypeCleaner && other.Type == models.UserTypeHomeowner:
			homeownerID, cleanerID = other.ID, caller.ID
		default:
			return nil, utils.NewForbiddenError("you cannot message this user directly; contact support instead")
		}
		ok, err := s.worksFor(ctx, homeownerID, cleanerID, appointmentID)
		if err != nil {
			return nil, fmt.Errorf("check assignment: %w", err)
		}
		if !ok {
			return nil, utils.NewForbiddenError("you can only message people you have an appointment with")
		}
	}

	existing, err := s.ConversationRepo.FindDirect(ctx, userID, participantID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find conversation: %w", err)
	}

	c := &models.Conversation{
		ID:             uuid.New().String(),
		Type:           models.ConversationDirect,
		ParticipantIDs: []string{userID, participantID},
		AppointmentID:  appointmentID,
		CreatedBy:      userID,
		LastMessageAt:  s.now(),
	}
	if err := s.ConversationRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	utils.GetLogger().Info("Conversation started",
		zap.String("conversationID", c.ID), zap.String("userID", userID), zap.String("participantID", participantID))
	return c, nil
}

// syncSupportOwners adds owners created after the support conversation
// started, so they see it in their list and get its pushes.
func (s *DefaultMessagingService) syncSupportOwners(ctx context.Context, c *models.Conversation) error {
	owners, err := s.Users.GetByType(ctx, models.UserTypeOwner)
	if err != nil {
		return fmt.Errorf("load owners: %w", err)
	}
	var missing []string
	for _, o := range owners {
		if !c.HasParticipant(o.ID) {
			missing = append(missing, o.ID)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if err := s.ConversationRepo.AddParticipants(ctx, c.ID, missing); err != nil {
		return fmt.Errorf("add owners to support conversation: %w", err)
	}
	c.ParticipantIDs = append(c.ParticipantIDs, missing...)
	return nil
}

// Support returns the caller's support conversation with every owner,
// creating it on first use.
func (s *DefaultMessagingService) Support(ctx context.Context, userID string) (*models.Conversation, error) {
	existing, err := s.ConversationRepo.FindSupport(ctx, userID)
	if err == nil {
		if err := s.syncSupportOwners(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find support conversation: %w", err)
	}

	owners, err := s.Users.GetByType(ctx, models.UserTypeOwner)
	if err != nil {
		return nil, fmt.Errorf("load owners: %w", err)
	}
	participants := []string{userID}
	for _, o := range owners {
		if o.ID != userID {
			participants = append(participants, o.ID)
		}
	}

	c := &models.Conversation{
		ID:             uuid.New().String(),
		Type:           models.ConversationSupport,
		ParticipantIDs: participants,
		Title:          supportTitle,
		CreatedBy:      userID,
		LastMessageAt:  s.now(),
	}
	if err := s.ConversationRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create support conversation: %w", err)
	}
	return c, nil
}
